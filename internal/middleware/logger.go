// File: internal/middleware/logger.go
package middleware

import (
	"time"

	"gamehub_backend/internal/common"
	"gamehub_backend/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger is a Gin middleware that assigns a request ID, stores a request
// scoped logger in the context and logs the completed request.
func ZapLogger(logger *zap.Logger, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(common.RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(common.RequestIDHeader, requestID)
		c.Set(common.RequestIDContextKey, requestID)
		c.Set(common.LoggerContextKey, logger.With(zap.String("request_id", requestID)))

		c.Next()

		statusCode := c.Writer.Status()
		fields := []zapcore.Field{
			zap.Int("status_code", statusCode),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", requestID),
		}
		// Request bodies carry passwords; only errors are attached.
		for _, e := range c.Errors.ByType(gin.ErrorTypePrivate) {
			fields = append(fields, zap.NamedError("error", e.Err))
		}

		switch {
		case cfg.GinMode != "release" || statusCode < 400:
			logger.Info("Request handled", fields...)
		case statusCode < 500:
			logger.Warn("Client error", fields...)
		default:
			logger.Error("Server error", fields...)
		}
	}
}

// RequestLogger returns the request scoped logger set by ZapLogger, or fallback.
func RequestLogger(c *gin.Context, fallback *zap.Logger) *zap.Logger {
	if l, ok := c.Get(common.LoggerContextKey); ok {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return fallback
}
