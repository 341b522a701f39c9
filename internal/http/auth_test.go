package http

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"budgetapp/internal/core"
)

func TestTokenIssuer(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewTokenIssuer(testSecret, time.Hour)
	issuer.now = func() time.Time { return now }

	token, exp, err := issuer.Issue("a@b.fr")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if !exp.Equal(now.Add(time.Hour)) {
		t.Fatalf("expiry = %v", exp)
	}
	sub, err := issuer.Subject(token)
	if err != nil || sub != "a@b.fr" {
		t.Fatalf("Subject() = %q, %v", sub, err)
	}

	issuer.now = func() time.Time { return now.Add(2 * time.Hour) }
	if _, err := issuer.Subject(token); !errors.Is(err, core.ErrInvalidCredentials) {
		t.Fatalf("expired Subject() error = %v, want ErrInvalidCredentials", err)
	}
}

func TestRateLimiterWindow(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rl := newRateLimiter(2)
	rl.now = func() time.Time { return now }

	if !rl.allow("1.2.3.4") || !rl.allow("1.2.3.4") {
		t.Fatal("first two requests should pass")
	}
	if rl.allow("1.2.3.4") {
		t.Fatal("third request in window should be rejected")
	}
	if !rl.allow("5.6.7.8") {
		t.Fatal("other clients are limited independently")
	}

	now = now.Add(61 * time.Second)
	if !rl.allow("1.2.3.4") {
		t.Fatal("new window should reset the counter")
	}

	now = now.Add(11 * time.Minute)
	if n := rl.CleanExpired(); n != 2 {
		t.Fatalf("CleanExpired() = %d, want 2", n)
	}
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{core.ErrInvalidAmount, 400},
		{core.ErrInvalidCredentials, 401},
		{core.ErrNotFound, 404},
		{core.ErrDuplicateAccount, 409},
		{core.ErrNoteTooLong, 400},
		{core.ErrPasswordTooLong, 400},
		{core.ErrNoSession, 401},
		{errBadRequest, 400},
		{errors.New("disk full"), 500},
	}
	for _, tt := range tests {
		if got, _ := errorStatus(tt.err); got != tt.want {
			t.Errorf("errorStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestSuspicionReason(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
		ua     string
		want   string
	}{
		{"ordinary", "GET", "/api/expenses?q=train", "Mozilla/5.0", ""},
		{"dotenv scan", "GET", "/.env", "", "pattern"},
		{"traversal in query", "GET", "/api/expenses?file=../../etc/passwd", "", "pattern"},
		{"scanner", "GET", "/", "sqlmap/1.7", "scanner_agent"},
		{"trace", "TRACE", "/", "", "method"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, tt.target, nil)
			r.Header.Set("User-Agent", tt.ua)
			if got := suspicionReason(r); got != tt.want {
				t.Fatalf("suspicionReason() = %q, want %q", got, tt.want)
			}
		})
	}
}
