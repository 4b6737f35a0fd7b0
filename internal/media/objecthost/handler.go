package objecthost

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"quickai-backend/internal/shared/apperr"
	"quickai-backend/internal/shared/server/respond"
	"quickai-backend/internal/shared/storage/object"
)

// Handler serves stored images.
type Handler struct {
	Store object.ObjectStore
}

// NewHandler constructs a Handler.
func NewHandler(store object.ObjectStore) *Handler {
	return &Handler{Store: store}
}

// RegisterRoutes attaches GET /media/*key.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/media/*key", h.serve)
}

func (h *Handler) serve(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		respond.Fail(c, apperr.NotFound("Image not found"))
		return
	}
	rc, err := h.Store.Open(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			respond.Fail(c, apperr.NotFound("Image not found"))
			return
		}
		respond.Fail(c, err)
		return
	}
	defer rc.Close()

	contentType, body, err := object.Sniff(rc)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, body)
}
