package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"quickai-backend/internal/shared/apperr"
	"quickai-backend/internal/shared/auth"
	"quickai-backend/internal/shared/server/respond"
	"quickai-backend/internal/shared/telemetry"
)

const (
	userIDKey    = "userId"
	principalKey = "principal"
)

// TokenVerifier validates a raw bearer token.
type TokenVerifier interface {
	Verify(raw string) (auth.Claims, error)
}

// PrincipalResolver turns verified claims into a principal carrying the
// current free-usage counter.
type PrincipalResolver interface {
	Resolve(ctx context.Context, userID, plan string) (auth.Principal, error)
}

// Auth requires a valid bearer token and stores the resolved principal in context.
func Auth(tokens TokenVerifier, resolver PrincipalResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}

		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok || tokens == nil {
			respond.Fail(c, apperr.Unauthorized())
			return
		}

		claims, err := tokens.Verify(raw)
		if err != nil {
			respond.Fail(c, apperr.Unauthorized())
			return
		}

		principal := auth.Principal{UserID: claims.Subject, Plan: claims.Plan}
		if resolver != nil {
			principal, err = resolver.Resolve(c.Request.Context(), claims.Subject, claims.Plan)
			if err != nil {
				telemetry.Error("auth.resolve_principal_failed", map[string]any{
					"request_id": RequestIDFromContext(c),
					"user_id":    claims.Subject,
					"error":      err,
				})
				respond.Fail(c, err)
				return
			}
		}

		c.Set(userIDKey, principal.UserID)
		c.Set(principalKey, principal)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
	return token, token != ""
}

// PrincipalFromContext returns the principal set by Auth.
func PrincipalFromContext(c *gin.Context) (auth.Principal, bool) {
	if c == nil {
		return auth.Principal{}, false
	}
	val, ok := c.Get(principalKey)
	if !ok {
		return auth.Principal{}, false
	}
	p, ok := val.(auth.Principal)
	return p, ok
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(userIDKey)
}
