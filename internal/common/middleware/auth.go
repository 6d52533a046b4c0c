package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SecretHeader carries the shared secret that gates all mutating endpoints.
const SecretHeader = "X-Api-Secret"

// RequireSharedSecret rejects requests whose secret header does not match the
// configured value.
func RequireSharedSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader(SecretHeader) != secret {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: invalid API secret"})
			return
		}

		c.Next()
	}
}
