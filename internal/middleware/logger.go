package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/study-tracker-api/internal/errors"
	"go.uber.org/zap"
)

// RequestLogger logs every request once it has been handled
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			errs := make([]error, len(c.Errors))
			for i, err := range c.Errors {
				errs[i] = err.Err
			}
			fields = append(fields, zap.Errors("errors", errs))
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			log.Error("Request failed", fields...)
		case status >= 400:
			log.Warn("Request rejected", fields...)
		default:
			log.Info("Request handled", fields...)
		}
	}
}

// Recovery converts panics into 500 responses and logs them
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Error("Panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
		)
		apierrors.InternalError(c, "")
		c.Abort()
	})
}
