package middleware

import (
	"github.com/gin-gonic/gin" // Gin web framework
	"github.com/google/uuid"   // Request id generation
)

// RequestIDMiddleware tags every request with an id, honoring one supplied
// by the client, and echoes it back in the response header
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString() // Generate one when the client sent none
		}
		c.Set("requestID", id)                    // Available to handlers for log fields
		c.Writer.Header().Set("X-Request-ID", id) // Echo back to the client
		c.Next()
	}
}
