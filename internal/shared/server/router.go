package server

import (
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/ai"
	googleauth "resume-builder/internal/auth"
	"resume-builder/internal/resumes"
	"resume-builder/internal/services/health"
	"resume-builder/internal/shared/auth"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/users"
)

const aiRateLimitGroup = "AI"

// RouterDeps are the handlers mounted by NewRouter. Nil handlers are skipped.
type RouterDeps struct {
	Config     config.Config
	Health     *health.Service
	Users      *users.Handler
	Resumes    *resumes.Handler
	AI         *ai.Handler
	GoogleAuth *googleauth.GoogleService
	Verifier   auth.Verifier
	Limiter    middleware.Limiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env != "test" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	if deps.Health != nil {
		deps.Health.RegisterRoutes(r)
	}
	r.GET("/metrics", metrics.Handler())

	requireAuth := middleware.Auth(deps.Verifier)
	api := r.Group("/api")

	userPublic := api.Group("/users")
	userProtected := api.Group("/users", requireAuth)
	if deps.Users != nil {
		deps.Users.RegisterRoutes(userPublic, userProtected)
	}
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(userPublic)
	}

	if deps.Resumes != nil {
		deps.Resumes.RegisterRoutes(api.Group("/resumes"), api.Group("/resumes", requireAuth))
	}

	if deps.AI != nil {
		aiGroup := api.Group("/ai", requireAuth, aiRateLimit(deps.Config, deps.Limiter))
		deps.AI.RegisterRoutes(aiGroup)
	}

	return r
}

// aiRateLimit throttles model calls per user. A zero rate disables the limit.
func aiRateLimit(cfg config.Config, limiter middleware.Limiter) gin.HandlerFunc {
	rules := map[string]middleware.RateLimitRule{}
	if cfg.AIRatePerMinute > 0 {
		rules[aiRateLimitGroup] = middleware.RateLimitRule{
			Rate:  float64(cfg.AIRatePerMinute) / 60.0,
			Burst: cfg.AIRateBurst,
		}
	}
	return middleware.RateLimit(middleware.RateLimitConfig{
		Rules:        rules,
		DefaultGroup: aiRateLimitGroup,
		Limiter:      limiter,
	})
}

// Addr normalizes the listen address.
func Addr(port string) string {
	port = strings.TrimSpace(port)
	if port == "" {
		return ":3000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
