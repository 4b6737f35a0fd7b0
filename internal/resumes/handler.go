package resumes

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	"quickai-backend/internal/gateway"
	"quickai-backend/internal/shared/apperr"
	"quickai-backend/internal/shared/server/middleware"
	"quickai-backend/internal/shared/server/respond"
)

const (
	maxUploadSize = 10 << 20 // 10MB

	msgSaved   = "Resume saved successfully."
	msgDeleted = "Resume Deleted Successfully"
)

var opCreate = gateway.Operation{Name: "create-resume", Gate: gateway.GateMetered}

// Handler wires resume routes to the service.
type Handler struct {
	Svc     *Service
	Gateway *gateway.Gateway
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, gw *gateway.Gateway) *Handler {
	return &Handler{Svc: svc, Gateway: gw}
}

// RegisterRoutes attaches authenticated resume routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	r := rg.Group("/resume")
	r.POST("/create-resume", h.create)
	r.GET("/get-resume/:resumeId", h.get)
	r.GET("/get-all-resumes", h.list)
	r.PUT("/update-resume", middleware.Multipart(maxUploadSize), h.update)
	r.PUT("/update-resume-visible", h.setVisibility)
	r.DELETE("/delete-resume/:resumeId", h.delete)
}

// RegisterPublicRoutes attaches the unauthenticated public read.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/resume/get-public-resume/:resumeId", h.getPublic)
}

type createRequest struct {
	Title string `json:"title"`
}

// create is metered: drafting is the invoke step and the insert is the persist step,
// so a request that loses the quota race leaves no row behind.
func (h *Handler) create(c *gin.Context) {
	p, ok := middleware.PrincipalFromContext(c)
	if !ok {
		respond.Fail(c, apperr.Unauthorized())
		return
	}
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respond.Fail(c, apperr.Validation("invalid request body"))
		return
	}

	draft := func(context.Context) (*Resume, error) {
		r := h.Svc.Draft(p.UserID, req.Title)
		return &r, nil
	}
	insert := func(ctx context.Context, r *Resume) error {
		created, err := h.Svc.Insert(ctx, *r)
		if err != nil {
			return err
		}
		*r = created
		return nil
	}
	r, err := gateway.Run(c.Request.Context(), h.Gateway, p, opCreate, draft, insert)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	// Clients index the created row as resume[0].
	respond.OK(c, gin.H{"resume": []Resume{*r}})
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	r, err := h.Svc.Get(c.Request.Context(), userID, c.Param("resumeId"))
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, gin.H{"resume": r})
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	items, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, gin.H{"resumes": items})
}

func (h *Handler) getPublic(c *gin.Context) {
	r, err := h.Svc.GetPublic(c.Request.Context(), c.Param("resumeId"))
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, gin.H{"resume": r})
}

func (h *Handler) update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	resumeID := strings.TrimSpace(c.PostForm("resumeId"))
	rawData := c.PostForm("resumeData")
	if resumeID == "" || strings.TrimSpace(rawData) == "" {
		respond.Fail(c, apperr.MissingFields())
		return
	}
	var doc Resume
	if err := json.Unmarshal([]byte(rawData), &doc); err != nil {
		respond.Fail(c, apperr.Validation("Invalid resume data"))
		return
	}

	var photo *Photo
	if fileHeader, err := c.FormFile("image"); err == nil {
		f, err := fileHeader.Open()
		if err != nil {
			respond.Fail(c, apperr.Validation("unable to read image"))
			return
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			respond.Fail(c, apperr.Validation("unable to read image"))
			return
		}
		photo = &Photo{
			FileName:         fileHeader.Filename,
			Data:             data,
			RemoveBackground: isYes(c.PostForm("removeBackground")),
		}
	}

	r, err := h.Svc.Replace(c.Request.Context(), userID, resumeID, doc, photo)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, gin.H{"resume": r, "message": msgSaved})
}

type visibilityRequest struct {
	ResumeID string `json:"resumeId"`
	Visible  *bool  `json:"visible"`
}

func (h *Handler) setVisibility(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	var req visibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ResumeID) == "" || req.Visible == nil {
		respond.Fail(c, apperr.MissingFields())
		return
	}
	r, err := h.Svc.SetVisibility(c.Request.Context(), userID, req.ResumeID, *req.Visible)
	if err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, gin.H{"resume": r})
}

func (h *Handler) delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("resumeId")); err != nil {
		respond.Fail(c, err)
		return
	}
	respond.OK(c, gin.H{"message": msgDeleted})
}

func isYes(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "true", "1", "on":
		return true
	}
	return false
}
