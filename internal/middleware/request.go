package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const RequestIDHeader = "X-Request-ID"

// RequestID propagates the caller's request id or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Writer.Header().Set(RequestIDHeader, reqID)
		c.Set("requestID", reqID)
		c.Next()
	}
}

func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		entry := logger.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"remote_ip": c.ClientIP(),
		})
		if reqID := c.Writer.Header().Get(RequestIDHeader); reqID != "" {
			entry = entry.WithField("request_id", reqID)
		}
		entry.Debug("Incoming request")

		c.Next()

		statusCode := c.Writer.Status()
		completed := entry.WithFields(logrus.Fields{
			"status_code": statusCode,
			"latency_ms":  time.Since(startTime).Milliseconds(),
		})
		switch {
		case len(c.Errors) > 0:
			completed.Error(c.Errors.ByType(gin.ErrorTypePrivate).String())
		case statusCode >= 500:
			completed.Error("Request completed with server error")
		case statusCode >= 400:
			completed.Warn("Request completed with client error")
		default:
			completed.Info("Request completed successfully")
		}
	}
}
