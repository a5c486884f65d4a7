package tokenverify

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken   = errors.New("invalid_token")
	ErrTokenExpired   = errors.New("token_expired")
	ErrSubjectMissing = errors.New("subject_missing")
)

type Parser interface {
	Parse(token string) (*jwt.Token, jwt.MapClaims, error)
}

type Result struct {
	UserID   string
	Username string
}

// Verify checks an access token by signature and expiry alone; there is no
// store lookup, which is why access tokens can only be invalidated by their
// short TTL. A refresh token presented as an access token is invalid.
func Verify(parser Parser, token string, nowFn func() time.Time) (*Result, error) {
	if parser == nil {
		return nil, ErrInvalidToken
	}
	if nowFn == nil {
		nowFn = time.Now
	}
	tok, claims, err := parser.Parse(token)
	if err != nil || tok == nil || !tok.Valid {
		if expiredClaims(claims, nowFn) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if typ, _ := claims["typ"].(string); typ == "refresh" {
		return nil, ErrInvalidToken
	}
	if expiredClaims(claims, nowFn) {
		return nil, ErrTokenExpired
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrSubjectMissing
	}
	username, _ := claims["username"].(string)
	return &Result{UserID: sub, Username: username}, nil
}

func expiredClaims(claims jwt.MapClaims, nowFn func() time.Time) bool {
	if claims == nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return nowFn().After(exp.Time)
}
