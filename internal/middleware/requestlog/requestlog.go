// Package requestlog provides middleware for request tracing and logging
package requestlog

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gravadigital/huddle-api/internal/logger"
)

const (
	// ContextKey is where the request id is stored on the gin context
	ContextKey = "request_id"
	// Header carries the request id in and out
	Header = "X-Request-ID"
)

// New returns a middleware that tags every request with an id and logs
// its outcome. An incoming X-Request-ID is kept when it is a UUID.
func New() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		log := logger.HTTP()

		requestID := c.GetHeader(Header)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		c.Set(ContextKey, requestID)
		c.Header(Header, requestID)

		log.Debug("Request started",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"remote_addr", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		)

		c.Next()

		latency := time.Since(startTime)
		status := c.Writer.Status()

		logLevel := log.Info
		if status >= 500 {
			logLevel = log.Error
		} else if status >= 400 {
			logLevel = log.Warn
		}

		logLevel("Request completed",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"latency", latency,
			"size", c.Writer.Size(),
		)
	}
}
