package creations

import (
	"github.com/gin-gonic/gin"

	"quickai-backend/internal/shared/server/middleware"
	"quickai-backend/internal/shared/server/respond"
)

// Handler exposes the creation dashboard.
type Handler struct {
	Repo Repo
}

// NewHandler constructs a Handler.
func NewHandler(repo Repo) *Handler {
	return &Handler{Repo: repo}
}

// RegisterRoutes attaches creation routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/user/get-user-creations", h.list)
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	items, err := h.Repo.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, gin.H{"creations": items})
}
