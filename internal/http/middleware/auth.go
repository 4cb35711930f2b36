package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fapdigital/editais-backend/internal/pkg/logger"
)

// AdminAuthMiddleware guards the admin surface with a single static token.
// There is no user model behind it; the token is shared operator credential
// configured via ADMIN_API_TOKEN.
type AdminAuthMiddleware struct {
	log   *logger.Logger
	token string
}

func NewAdminAuthMiddleware(log *logger.Logger, token string) *AdminAuthMiddleware {
	middlewareLogger := log.With("middleware", "AdminAuthMiddleware")
	return &AdminAuthMiddleware{log: middlewareLogger, token: token}
}

func (am *AdminAuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if am.token == "" {
			am.log.Error("admin token not configured, rejecting request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "admin access not configured", "code": "unauthorized"},
			})
			return
		}
		tokenString := extractAdminToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "missing or invalid token", "code": "unauthorized"},
			})
			return
		}
		if subtle.ConstantTimeCompare([]byte(tokenString), []byte(am.token)) != 1 {
			am.log.Warn("admin token mismatch", "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "missing or invalid token", "code": "unauthorized"},
			})
			return
		}
		c.Next()
	}
}

func extractAdminToken(c *gin.Context) string {
	if hToken := c.GetHeader("X-Admin-Token"); hToken != "" {
		return hToken
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ""
}
