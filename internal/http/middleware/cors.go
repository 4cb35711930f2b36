package middleware

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:5173",
}

// CORS allows the public site and the admin UI. origins is the
// comma-separated FRONTEND_ORIGINS value; empty falls back to the local dev
// hosts.
func CORS(origins string) gin.HandlerFunc {
	allowed := defaultOrigins
	if trimmed := strings.TrimSpace(origins); trimmed != "" {
		allowed = nil
		for _, o := range strings.Split(trimmed, ",") {
			if o = strings.TrimSpace(o); o != "" {
				allowed = append(allowed, o)
			}
		}
	}
	return cors.New(cors.Config{
		AllowOrigins:     allowed,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", "X-Admin-Token"},
		AllowCredentials: true,
	})
}
