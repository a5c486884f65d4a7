package password

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MinLength = 8
	MaxLength = 128

	symbolSet = `!@#$%^&*(),.?":{}|<>`
)

// commonPasswords is a built-in shortlist; the full list lives behind the
// optional DenyChecker.
var commonPasswords = map[string]struct{}{
	"password":   {},
	"password1":  {},
	"password1!": {},
	"12345678":   {},
	"123456789":  {},
	"qwerty123":  {},
	"letmein123": {},
	"iloveyou1":  {},
	"admin123":   {},
	"welcome1":   {},
}

// DenyChecker consults an external compromised-password service.
type DenyChecker interface {
	IsCompromised(ctx context.Context, raw string) (bool, error)
}

type Policy struct {
	// Deny is optional; when nil only the built-in list applies.
	Deny DenyChecker
}

// Validate returns every violated rule, not just the first, so callers can
// surface all problems at once. An empty slice means the password passes.
// identifiers carry the username and email the password must not resemble.
func (p *Policy) Validate(ctx context.Context, raw string, identifiers ...string) []string {
	var violations []string

	// Limits count characters, not bytes, so multibyte passwords measure the
	// same as their on-screen length.
	length := utf8.RuneCountInString(raw)
	if length < MinLength {
		violations = append(violations, "Password must be at least 8 characters long.")
	}
	if length > MaxLength {
		violations = append(violations, "Password must be at most 128 characters long.")
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range raw {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(symbolSet, r):
			hasSymbol = true
		}
	}
	if !hasUpper {
		violations = append(violations, "Password must contain at least one uppercase letter.")
	}
	if !hasLower {
		violations = append(violations, "Password must contain at least one lowercase letter.")
	}
	if !hasDigit {
		violations = append(violations, "Password must contain at least one digit.")
	}
	if !hasSymbol {
		violations = append(violations, "Password must contain at least one special character.")
	}

	if tooSimilar(raw, identifiers) {
		violations = append(violations, "Password is too similar to the username or email.")
	}
	if p.isCommon(ctx, raw) {
		violations = append(violations, "Password is too common.")
	}

	return violations
}

func tooSimilar(raw string, identifiers []string) bool {
	lowered := strings.ToLower(raw)
	for _, id := range identifiers {
		for _, part := range splitIdentifier(id) {
			if len(part) < 4 {
				continue
			}
			if strings.Contains(lowered, part) || strings.Contains(part, lowered) {
				return true
			}
		}
	}
	return false
}

// splitIdentifier breaks an email into its local part and domain labels so
// "jane.doe@example.com" also matches passwords built from "jane.doe".
func splitIdentifier(id string) []string {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return nil
	}
	parts := []string{id}
	if at := strings.IndexByte(id, '@'); at > 0 {
		parts = append(parts, id[:at])
	}
	return parts
}

func (p *Policy) isCommon(ctx context.Context, raw string) bool {
	if _, ok := commonPasswords[strings.ToLower(raw)]; ok {
		return true
	}
	if p.Deny == nil {
		return false
	}
	// The external list is best effort: an outage must not block signups.
	compromised, err := p.Deny.IsCompromised(ctx, raw)
	if err != nil {
		return false
	}
	return compromised
}
