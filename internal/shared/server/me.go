package server

import (
	"github.com/gin-gonic/gin"

	"quickai-backend/internal/shared/apperr"
	"quickai-backend/internal/shared/server/middleware"
	"quickai-backend/internal/shared/server/respond"
)

// registerMeRoutes attaches the /user/me endpoint.
func registerMeRoutes(rg *gin.RouterGroup) {
	rg.GET("/user/me", meHandler)
}

func meHandler(c *gin.Context) {
	p, ok := middleware.PrincipalFromContext(c)
	if !ok || p.UserID == "" {
		respond.Fail(c, apperr.Unauthorized())
		return
	}
	respond.OK(c, gin.H{
		"userId":     p.UserID,
		"plan":       p.Plan,
		"free_usage": p.FreeUsage,
	})
}
