package health

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"quickai-backend/internal/shared/server/respond"
)

const checkTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RedisPinger is the slice of a redis client the check needs.
type RedisPinger interface {
	Ping(ctx context.Context) error
}

// Status values reported per dependency.
const (
	StatusUp       = "up"
	StatusDown     = "down"
	StatusDisabled = "disabled"
)

// Service encapsulates health-related checks. Nil dependencies report disabled.
type Service struct {
	DB    Pinger
	Redis RedisPinger
}

// NewService constructs a new health service.
func NewService(db Pinger, redis RedisPinger) *Service {
	return &Service{DB: db, Redis: redis}
}

// Report is the health payload.
type Report struct {
	OK    bool   `json:"ok"`
	DB    string `json:"db"`
	Redis string `json:"redis"`
}

// Status pings each configured dependency.
func (s *Service) Status(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	r := Report{OK: true, DB: StatusDisabled, Redis: StatusDisabled}
	if s.DB != nil {
		r.DB = StatusUp
		if err := s.DB.PingContext(ctx); err != nil {
			r.DB, r.OK = StatusDown, false
		}
	}
	if s.Redis != nil {
		r.Redis = StatusUp
		if err := s.Redis.Ping(ctx); err != nil {
			r.Redis, r.OK = StatusDown, false
		}
	}
	return r
}

// RegisterRoutes attaches GET /health.
func (s *Service) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", func(c *gin.Context) {
		r := s.Status(c.Request.Context())
		respond.OK(c, gin.H{"ok": r.OK, "db": r.DB, "redis": r.Redis})
	})
}
