package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// TaskToken guards the task trigger. With no token configured the endpoint
// does not exist (404); a wrong X-Task-Token is 401.
func TaskToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Not found", "code": "NOT_FOUND"})
			return
		}
		given := c.GetHeader("X-Task-Token")
		if subtle.ConstantTimeCompare([]byte(given), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid task token", "code": "UNAUTHORIZED"})
			return
		}
		c.Next()
	}
}
