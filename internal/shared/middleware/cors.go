package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// adminMethods are the verbs the admin API serves.
var adminMethods = []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions}

// AdminCORS lets browser consoles on origins call the admin API.
// An empty list allows any origin. Credentials are never allowed: admin
// requests authenticate with the X-Admin-Token header, not cookies.
func AdminCORS(origins []string) gin.HandlerFunc {
	return cors.New(adminCORSConfig(origins))
}

func adminCORSConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowMethods = adminMethods
	cfg.AddAllowHeaders(AdminTokenHeader, RequestIDHeader)
	cfg.AddExposeHeaders(RequestIDHeader)
	cfg.AllowCredentials = false
	cfg.MaxAge = 12 * time.Hour
	return cfg
}
