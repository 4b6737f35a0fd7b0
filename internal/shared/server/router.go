package server

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"quickai-backend/internal/ai"
	"quickai-backend/internal/creations"
	"quickai-backend/internal/media/objecthost"
	"quickai-backend/internal/resumes"
	"quickai-backend/internal/services/health"
	"quickai-backend/internal/shared/config"
	"quickai-backend/internal/shared/metrics"
	"quickai-backend/internal/shared/server/middleware"
	"quickai-backend/internal/usage"
)

// RouterDeps carries everything NewRouter registers. Nil handlers are skipped.
type RouterDeps struct {
	Config          config.Config
	Tokens          middleware.TokenVerifier
	Principals      middleware.PrincipalResolver
	Health          *health.Service
	AIHandler       *ai.Handler
	ResumeHandler   *resumes.Handler
	CreationHandler *creations.Handler
	UsageHandler    *usage.Handler
	MediaHandler    *objecthost.Handler
	RateLimiter     *middleware.RateLimiter
}

// Per-principal request budgets.
var rateLimitRules = map[string]middleware.RateLimitRule{
	"DEFAULT":                   {Rate: 5, Burst: 30},
	middleware.AIRateLimitGroup: {Rate: 1, Burst: 20},
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if !config.IsDevLike(deps.Config.Env) {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)
	r.GET("/metrics", metrics.Handler())

	public := r.Group("/api")
	if deps.Health != nil {
		deps.Health.RegisterRoutes(public)
	}
	if deps.ResumeHandler != nil {
		deps.ResumeHandler.RegisterPublicRoutes(public)
	}
	if deps.MediaHandler != nil {
		deps.MediaHandler.RegisterRoutes(public)
	}

	if config.IsDevLike(deps.Config.Env) && deps.UsageHandler != nil {
		dev := public.Group("/dev")
		deps.UsageHandler.RegisterDevTokenRoute(dev)
	}

	api := r.Group("/api")
	api.Use(
		middleware.Auth(deps.Tokens, deps.Principals),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules:    rateLimitRules,
			GroupFor: rateLimitGroup,
			Limiter:  deps.RateLimiter,
		}),
	)
	registerMeRoutes(api)
	if deps.AIHandler != nil {
		deps.AIHandler.RegisterRoutes(api)
	}
	if deps.ResumeHandler != nil {
		deps.ResumeHandler.RegisterRoutes(api)
	}
	if deps.CreationHandler != nil {
		deps.CreationHandler.RegisterRoutes(api)
	}
	if deps.UsageHandler != nil {
		deps.UsageHandler.RegisterRoutes(api)
		if config.IsDevLike(deps.Config.Env) {
			deps.UsageHandler.RegisterDevRoutes(api.Group("/dev"))
		}
	}

	return r
}

func rateLimitGroup(c *gin.Context) string {
	if strings.HasPrefix(c.FullPath(), "/api/ai/") {
		return middleware.AIRateLimitGroup
	}
	return ""
}

// ShutdownTimeout bounds graceful shutdown in cmd/api.
const ShutdownTimeout = 10 * time.Second

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":3000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
