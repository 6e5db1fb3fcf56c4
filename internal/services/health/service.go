package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/respond"
)

const pingTimeout = 2 * time.Second

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Service encapsulates liveness and readiness checks.
type Service struct {
	version string
	started time.Time
	store   Pinger
	now     func() time.Time
}

// NewService constructs a health service. A nil store is always reported as connected.
func NewService(version string, store Pinger) *Service {
	return &Service{
		version: version,
		started: time.Now(),
		store:   store,
		now:     time.Now,
	}
}

// Status is the liveness payload.
type Status struct {
	Status    string  `json:"status"`
	Version   string  `json:"version"`
	Uptime    float64 `json:"uptime"`
	Timestamp string  `json:"timestamp"`
}

// Readiness is the readiness payload.
type Readiness struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Status reports process liveness. Uptime is in seconds.
func (s *Service) Status() Status {
	now := s.now()
	return Status{
		Status:    "healthy",
		Version:   s.version,
		Uptime:    now.Sub(s.started).Seconds(),
		Timestamp: now.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}
}

// Ready pings the store and reports whether requests can be served.
func (s *Service) Ready(ctx context.Context) (Readiness, bool) {
	if s.store != nil {
		ctx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := s.store.Ping(ctx); err != nil {
			return Readiness{Status: "not ready", Database: "disconnected"}, false
		}
	}
	return Readiness{Status: "ready", Database: "connected"}, true
}

// RegisterRoutes attaches /health and /ready.
func (s *Service) RegisterRoutes(r gin.IRoutes) {
	r.GET("/health", func(c *gin.Context) {
		respond.OK(c, s.Status())
	})
	r.GET("/ready", func(c *gin.Context) {
		body, ok := s.Ready(c.Request.Context())
		if !ok {
			respond.JSON(c, http.StatusServiceUnavailable, body)
			return
		}
		respond.OK(c, body)
	})
}
