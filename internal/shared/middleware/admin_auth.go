package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/synapse/server/internal/model"
)

// AdminTokenHeader carries the static admin API token.
const AdminTokenHeader = "X-Admin-Token"

// AdminToken returns a middleware that requires the configured admin token.
func AdminToken(token string) gin.HandlerFunc {
	expected := []byte(token)
	return func(c *gin.Context) {
		provided := []byte(c.GetHeader(AdminTokenHeader))
		if len(expected) == 0 || subtle.ConstantTimeCompare(provided, expected) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.ErrorResponse{
				Code:    "unauthorized",
				Message: "invalid admin token",
			})
			return
		}
		c.Next()
	}
}
