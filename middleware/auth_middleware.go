package middleware

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/kwadjoe/campuslinkbackend/services"
	"github.com/kwadjoe/campuslinkbackend/utils"
)

// AuthMiddleware checks the blacklist before the signature so a logged-out
// token is rejected even while its signature and expiry are still valid.
// The Authorization header value is used verbatim as the token.
func AuthMiddleware(blacklist *services.TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := c.GetHeader("Authorization")
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		if blacklist.IsRevoked(tokenStr) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		claims, err := utils.ValidateToken(tokenStr, os.Getenv("JWT_SECRET"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set("userID", claims.Subject)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Next()
	}
}
