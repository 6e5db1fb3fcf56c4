package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-key-for-unit-tests"

func TestIssueVerifyRoundTrip(t *testing.T) {
	m := NewManager(testSecret, time.Hour)

	token, err := m.Issue("u1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != "u1" {
		t.Fatalf("expected userId u1, got %q", claims.UserID)
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		t.Fatalf("expected iat and exp to be set")
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Fatalf("expected 1h lifetime, got %s", got)
	}
}

func TestIssueRequiresUserID(t *testing.T) {
	m := NewManager(testSecret, time.Hour)
	if _, err := m.Issue("  "); err == nil {
		t.Fatalf("expected error for blank user id")
	}
}

func TestVerifyRejects(t *testing.T) {
	m := NewManager(testSecret, time.Hour)
	other := NewManager("another-secret", time.Hour)

	foreign, err := other.Issue("u1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	expiredMgr := NewManager(testSecret, time.Minute)
	expiredMgr.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiredMgr.Issue("u1")
	if err != nil {
		t.Fatalf("Issue expired: %v", err)
	}

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "u1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "malformed", token: "not-a-token"},
		{name: "wrong secret", token: foreign},
		{name: "expired", token: expired},
		{name: "missing user id", token: noUser},
		{name: "alg none", token: unsigned},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Verify(tt.token)
			if !errors.Is(err, ErrInvalidCredential) {
				t.Fatalf("expected ErrInvalidCredential, got %v", err)
			}
			if err.Error() != ErrInvalidCredential.Error() {
				t.Fatalf("verification detail leaked: %v", err)
			}
			if m.Reason(tt.token) == nil {
				t.Fatalf("expected internal reason for %s", tt.name)
			}
		})
	}
}
