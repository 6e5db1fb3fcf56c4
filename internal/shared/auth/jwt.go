package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidCredential covers every reason a token is rejected. Callers only see this.
var ErrInvalidCredential = errors.New("invalid credential")

const defaultTTL = 7 * 24 * time.Hour

// Claims represents the identity contained in a credential.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Verifier resolves a credential to its claims.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// Manager issues and verifies HS256 credentials with a server-held secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewManager builds a Manager. A non-positive ttl falls back to seven days.
func NewManager(secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a credential for userID.
func (m *Manager) Issue(userID string) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", errors.New("user id is required")
	}
	if len(m.secret) == 0 {
		return "", errors.New("jwt secret not configured")
	}
	now := m.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, algorithm and expiry of token and returns its claims.
// Any failure is reported as ErrInvalidCredential; Reason exposes the detail for logs.
func (m *Manager) Verify(token string) (Claims, error) {
	claims, err := m.parse(token)
	if err != nil {
		return Claims{}, ErrInvalidCredential
	}
	return claims, nil
}

// Reason returns the internal verification failure for token, or nil if it is valid.
// It must never be surfaced to clients.
func (m *Manager) Reason(token string) error {
	_, err := m.parse(token)
	return err
}

func (m *Manager) parse(token string) (Claims, error) {
	if strings.TrimSpace(token) == "" {
		return Claims{}, errors.New("empty token")
	}
	if len(m.secret) == 0 {
		return Claims{}, errors.New("jwt secret not configured")
	}
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return Claims{}, err
	}
	if !parsed.Valid {
		return Claims{}, errors.New("token not valid")
	}
	if strings.TrimSpace(claims.UserID) == "" {
		return Claims{}, errors.New("token missing userId")
	}
	return claims, nil
}
