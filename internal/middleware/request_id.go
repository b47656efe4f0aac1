package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ekurt/campusgate/internal/pkg/logger"
)

const requestIDHeader = "X-Request-ID"

// RequestIDKey is the gin context key the request id is stored under.
const RequestIDKey = "requestId"

// RequestID assigns each request an id, honoring one supplied by the caller.
// The id is echoed in the response header and carried on the request context
// so every log line downstream can tag itself with it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}
