package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/auth"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/shared/telemetry"
)

const (
	userIDKey = "userId"

	// AuthHeader carries the raw credential. No scheme prefix is stripped.
	AuthHeader = "Authorization"
)

type ctxKey struct{}

// reasoner is implemented by verifiers that can explain a rejection for logs.
type reasoner interface {
	Reason(token string) error
}

// Auth rejects requests without a valid credential and stores the caller's user id.
func Auth(verifier auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		token := c.GetHeader(AuthHeader)
		if strings.TrimSpace(token) == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			if r, ok := verifier.(reasoner); ok {
				if reason := r.Reason(token); reason != nil {
					telemetry.Debug("auth.verify_failed", map[string]any{
						"request_id": RequestIDFromContext(c),
						"reason":     reason.Error(),
					})
				}
			}
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Request = c.Request.WithContext(WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

// WithUserID returns ctx carrying userID for downstream services.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	if c.Request != nil {
		return UserIDFromRequestContext(c.Request.Context())
	}
	return ""
}

// UserIDFromRequestContext fetches the user ID from a request context.
func UserIDFromRequestContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}
	return ""
}
