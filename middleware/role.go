package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kwadjoe/campuslinkbackend/models"
)

func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, ok := c.Get("role")
		if !ok || roleVal.(string) != string(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			return
		}
		c.Next()
	}
}
