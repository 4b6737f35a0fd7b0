package usage

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"quickai-backend/internal/shared/apperr"
	"quickai-backend/internal/shared/auth"
	"quickai-backend/internal/shared/server/middleware"
	"quickai-backend/internal/shared/server/respond"
)

// Handler exposes usage endpoints.
type Handler struct {
	Svc    *Service
	Tokens *auth.Tokens
}

// NewHandler constructs a Handler. tokens may be nil when dev token minting is disabled.
func NewHandler(svc *Service, tokens *auth.Tokens) *Handler {
	return &Handler{Svc: svc, Tokens: tokens}
}

// RegisterRoutes attaches usage routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/user/usage", h.getUsage)
}

// RegisterDevRoutes attaches dev-only usage routes.
func (h *Handler) RegisterDevRoutes(rg *gin.RouterGroup) {
	rg.POST("/usage/reset", h.resetUsage)
}

// RegisterDevTokenRoute attaches the unauthenticated dev token mint.
func (h *Handler) RegisterDevTokenRoute(rg *gin.RouterGroup) {
	rg.POST("/token", h.mintToken)
}

func (h *Handler) getUsage(c *gin.Context) {
	p, ok := middleware.PrincipalFromContext(c)
	if !ok {
		respond.Fail(c, apperr.Unauthorized())
		return
	}
	acct, err := h.Svc.Get(c.Request.Context(), p.UserID)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, gin.H{
		"plan":       p.Plan,
		"free_usage": acct.FreeUsage,
		"limit":      h.Svc.Limit(),
	})
}

func (h *Handler) resetUsage(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	acct, err := h.Svc.Reset(c.Request.Context(), userID)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, gin.H{
		"free_usage": acct.FreeUsage,
		"limit":      h.Svc.Limit(),
	})
}

type tokenRequest struct {
	UserID string `json:"userId"`
	Plan   string `json:"plan"`
	TTL    string `json:"ttl"`
}

func (h *Handler) mintToken(c *gin.Context) {
	if h.Tokens == nil {
		respond.Error(c, http.StatusNotFound, "not_found", "token minting disabled")
		return
	}
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.UserID) == "" {
		respond.Fail(c, apperr.MissingFields())
		return
	}
	var ttl time.Duration
	if req.TTL != "" {
		d, err := time.ParseDuration(req.TTL)
		if err != nil {
			respond.Fail(c, apperr.Validation("invalid ttl"))
			return
		}
		ttl = d
	}
	plan := auth.NormalizePlan(req.Plan)
	raw, err := h.Tokens.Sign(strings.TrimSpace(req.UserID), plan, ttl)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, gin.H{"token": raw, "plan": plan})
}
