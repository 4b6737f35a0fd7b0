package ai

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"quickai-backend/internal/shared/apperr"
	"quickai-backend/internal/shared/auth"
	"quickai-backend/internal/shared/server/middleware"
	"quickai-backend/internal/shared/server/respond"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler exposes the AI operations under /ai.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/ai")
	g.POST("/generate-article", h.generateArticle)
	g.POST("/generate-titles", h.generateTitles)
	g.POST("/generate-image", h.generateImage)
	g.POST("/remove-background", middleware.Multipart(maxUploadSize), h.removeBackground)
	g.POST("/remove-object", middleware.Multipart(maxUploadSize), h.removeObject)
	g.POST("/resume-review", middleware.Multipart(maxUploadSize), h.resumeReview)
	g.POST("/enhance-pro-sum", h.enhanceSummary)
	g.POST("/enhance-job-desc", h.enhanceJobDescription)
}

type articleRequest struct {
	Prompt string `json:"prompt"`
	Length int    `json:"length"`
}

type imageRequest struct {
	Prompt  string `json:"prompt"`
	Publish bool   `json:"publish"`
}

type enhanceRequest struct {
	UserContent string `json:"userContent"`
}

func (h *Handler) generateArticle(c *gin.Context) {
	c.Set("operation", opArticle.Name)
	var req articleRequest
	if !bindJSON(c, &req) {
		return
	}
	content, err := h.Svc.GenerateArticle(c.Request.Context(), principal(c), req.Prompt, req.Length)
	reply(c, "content", content, err)
}

func (h *Handler) generateTitles(c *gin.Context) {
	c.Set("operation", opTitles.Name)
	var req articleRequest
	if !bindJSON(c, &req) {
		return
	}
	content, err := h.Svc.GenerateTitles(c.Request.Context(), principal(c), req.Prompt)
	reply(c, "content", content, err)
}

func (h *Handler) generateImage(c *gin.Context) {
	c.Set("operation", opImage.Name)
	var req imageRequest
	if !bindJSON(c, &req) {
		return
	}
	content, err := h.Svc.GenerateImage(c.Request.Context(), principal(c), req.Prompt, req.Publish)
	reply(c, "content", content, err)
}

func (h *Handler) removeBackground(c *gin.Context) {
	c.Set("operation", opRemoveBackground.Name)
	file, ok := formFile(c, "image")
	if !ok {
		return
	}
	content, err := h.Svc.RemoveBackground(c.Request.Context(), principal(c), file)
	reply(c, "content", content, err)
}

func (h *Handler) removeObject(c *gin.Context) {
	c.Set("operation", opRemoveObject.Name)
	file, ok := formFile(c, "image")
	if !ok {
		return
	}
	content, err := h.Svc.RemoveObject(c.Request.Context(), principal(c), file, c.PostForm("object"))
	reply(c, "content", content, err)
}

func (h *Handler) resumeReview(c *gin.Context) {
	c.Set("operation", opReview.Name)
	file, ok := formFile(c, "resume")
	if !ok {
		return
	}
	content, err := h.Svc.ReviewResume(c.Request.Context(), principal(c), file)
	reply(c, "content", content, err)
}

func (h *Handler) enhanceSummary(c *gin.Context) {
	c.Set("operation", opEnhanceSummary.Name)
	var req enhanceRequest
	_ = c.ShouldBindJSON(&req)
	content, err := h.Svc.EnhanceSummary(c.Request.Context(), principal(c), req.UserContent)
	reply(c, "enhancedContent", content, err)
}

func (h *Handler) enhanceJobDescription(c *gin.Context) {
	c.Set("operation", opEnhanceJobDesc.Name)
	var req enhanceRequest
	_ = c.ShouldBindJSON(&req)
	content, err := h.Svc.EnhanceJobDescription(c.Request.Context(), principal(c), req.UserContent)
	reply(c, "enhancedContent", content, err)
}

func principal(c *gin.Context) auth.Principal {
	p, _ := middleware.PrincipalFromContext(c)
	return p
}

// bindJSON decodes the body. An empty prompt is reported by the operation
// after the plan gate.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		respond.Fail(c, apperr.Validation("invalid request body"))
		return false
	}
	return true
}

// formFile returns nil without error when the field is absent so the
// operation can report it after the plan gate.
func formFile(c *gin.Context, field string) (*File, bool) {
	fh, err := c.FormFile(field)
	switch {
	case err == nil:
		return fileFromHeader(fh), true
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return nil, true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		respond.Fail(c, apperr.Validation("Upload exceeds 10MB limit"))
		return nil, false
	}
	respond.Fail(c, apperr.Validation("invalid multipart form"))
	return nil, false
}

func fileFromHeader(fh *multipart.FileHeader) *File {
	return &File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

func reply(c *gin.Context, key, content string, err error) {
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, gin.H{key: content})
}
