package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderXRequestID is the request correlation header.
const HeaderXRequestID = "X-Request-ID"

// RequestID tags every request with a correlation id, reusing the caller's
// header when present, and echoes it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderXRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set("requestID", rid)
		c.Header(HeaderXRequestID, rid)
		c.Next()
	}
}
