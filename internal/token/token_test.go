package token

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	svc, err := NewService("test-secret")
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	tok, err := svc.Issue(42)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	userID, err := svc.Verify(tok)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if userID != 42 {
		t.Fatalf("expected user 42, got %d", userID)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	svc, _ := NewService("test-secret")
	// Issue a token whose 1h lifetime already elapsed.
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, err := svc.Issue(42)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	svc.now = time.Now

	if _, err := svc.Verify(tok); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for expired token, got %v", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer, _ := NewService("secret-a")
	verifier, _ := NewService("secret-b")

	tok, err := issuer.Issue(7)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := verifier.Verify(tok); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for wrong secret, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc, _ := NewService("test-secret")

	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := svc.Verify(tok); !errors.Is(err, ErrInvalid) {
			t.Fatalf("expected ErrInvalid for %q, got %v", tok, err)
		}
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	svc, _ := NewService("test-secret")
	tok, err := svc.Issue(42)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %s", tok)
	}
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	if _, err := svc.Verify(tampered); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for tampered token, got %v", err)
	}
}

func TestNewServiceRequiresSecret(t *testing.T) {
	if _, err := NewService(""); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
