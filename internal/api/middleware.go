package api

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yourname/sleepdiary/internal/response"
)

const RequestIDHeader = "X-Request-ID"

// RequestIDMiddleware reuses the caller's request id or mints one and echoes
// it in the response.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set(response.RequestIDKey, reqID)
		c.Writer.Header().Set(RequestIDHeader, reqID)
		c.Next()
	}
}
