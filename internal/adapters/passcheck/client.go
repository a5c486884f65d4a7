package passcheck

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Client looks up password digests in an external compromised-password
// service. Only a SHA-256 digest leaves the process, never the raw password.
type Client interface {
	IsCompromised(ctx context.Context, raw string) (bool, error)
}

type httpClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) Client {
	return &httpClient{baseURL: baseURL, client: &http.Client{Timeout: timeout}}
}

func (c *httpClient) IsCompromised(ctx context.Context, raw string) (bool, error) {
	digest := sha256.Sum256([]byte(raw))
	payload := map[string]string{"sha256": hex.EncodeToString(digest[:])}

	var resp struct {
		Compromised bool `json:"compromised"`
	}
	if err := c.post(ctx, "/api/v1/check-password", payload, &resp); err != nil {
		return false, err
	}
	return resp.Compromised, nil
}

func (c *httpClient) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		res, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer res.Body.Close()

		if res.StatusCode >= 500 {
			return fmt.Errorf("passcheck: server error %d", res.StatusCode)
		}
		if res.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("passcheck: unexpected status %d", res.StatusCode))
		}
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2), ctx)
	return backoff.Retry(operation, policy)
}
