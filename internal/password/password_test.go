package password

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestValidateReportsEveryViolation(t *testing.T) {
	p := &Policy{}
	// Short, no upper, no digit, no symbol: four rules broken at once.
	violations := p.Validate(context.Background(), "abc")
	if len(violations) != 4 {
		t.Fatalf("expected 4 violations, got %d: %v", len(violations), violations)
	}
	for _, want := range []string{"at least 8", "uppercase", "digit", "special"} {
		if !containsSubstring(violations, want) {
			t.Fatalf("missing violation about %q in %v", want, violations)
		}
	}
}

func TestValidateAcceptsStrongPassword(t *testing.T) {
	p := &Policy{}
	if v := p.Validate(context.Background(), "Str0ng!pass"); len(v) != 0 {
		t.Fatalf("expected no violations, got %v", v)
	}
}

func TestValidateRuleTable(t *testing.T) {
	p := &Policy{}
	cases := []struct {
		name     string
		password string
		want     string
	}{
		{"no uppercase", "str0ng!pass", "uppercase"},
		{"no lowercase", "STR0NG!PASS", "lowercase"},
		{"no digit", "Strong!pass", "digit"},
		{"no symbol", "Str0ngpass", "special"},
		{"too long", "Aa1!" + strings.Repeat("x", 130), "at most 128"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			violations := p.Validate(context.Background(), tc.password)
			if !containsSubstring(violations, tc.want) {
				t.Fatalf("expected violation about %q, got %v", tc.want, violations)
			}
		})
	}
}

func TestValidateCountsRunesNotBytes(t *testing.T) {
	p := &Policy{}
	// 7 characters in 13 bytes: the minimum applies to characters.
	violations := p.Validate(context.Background(), "Пароль1")
	if !containsSubstring(violations, "at least 8") {
		t.Fatalf("expected minimum-length violation, got %v", violations)
	}
	// 128 characters in 252 bytes must still fit under the maximum.
	long := "Aa1!" + strings.Repeat("я", 124)
	if v := p.Validate(context.Background(), long); len(v) != 0 {
		t.Fatalf("128-character password must pass, got %v", v)
	}
}

func TestValidateRejectsSimilarToIdentifiers(t *testing.T) {
	p := &Policy{}
	violations := p.Validate(context.Background(), "Janedoe1!", "janedoe", "jane.doe@example.com")
	if !containsSubstring(violations, "too similar") {
		t.Fatalf("expected similarity violation, got %v", violations)
	}
	// Email local part counts too.
	violations = p.Validate(context.Background(), "Jane.doe9!", "someone", "jane.doe@example.com")
	if !containsSubstring(violations, "too similar") {
		t.Fatalf("expected similarity violation via email, got %v", violations)
	}
}

func TestValidateRejectsCommonPasswords(t *testing.T) {
	p := &Policy{}
	violations := p.Validate(context.Background(), "S3cure!pass")
	if containsSubstring(violations, "too common") {
		t.Fatalf("S3cure!pass is not on the built-in list: %v", violations)
	}
	// The lookup is case-insensitive.
	violations = p.Validate(context.Background(), "Password1!")
	if !containsSubstring(violations, "too common") {
		t.Fatalf("expected common-password violation, got %v", violations)
	}
}

type stubDeny struct {
	compromised bool
	err         error
	called      bool
}

func (s *stubDeny) IsCompromised(context.Context, string) (bool, error) {
	s.called = true
	return s.compromised, s.err
}

func TestValidateConsultsDenyChecker(t *testing.T) {
	deny := &stubDeny{compromised: true}
	p := &Policy{Deny: deny}
	violations := p.Validate(context.Background(), "Uniq0rn!pass")
	if !deny.called {
		t.Fatal("deny checker was not consulted")
	}
	if !containsSubstring(violations, "too common") {
		t.Fatalf("expected common-password violation, got %v", violations)
	}
}

func TestValidateDenyCheckerOutageIsNotFatal(t *testing.T) {
	p := &Policy{Deny: &stubDeny{err: errors.New("service down")}}
	if v := p.Validate(context.Background(), "Uniq0rn!pass"); len(v) != 0 {
		t.Fatalf("outage must not block validation, got %v", v)
	}
}

func containsSubstring(violations []string, substring string) bool {
	for _, v := range violations {
		if strings.Contains(v, substring) {
			return true
		}
	}
	return false
}
