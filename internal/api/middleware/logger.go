package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

const slogLoggerKey = "slogLogger"

// SlogLoggerMiddleware 将 slog 集成到 Gin，并注入 Correlation ID。
func SlogLoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		requestLogger := logger.With(
			slog.String("correlation_id", GetCorrelationID(c)),
			slog.String("method", c.Request.Method),
			slog.String("path", path),
		)
		c.Set(slogLoggerKey, requestLogger)

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		}
		if identity, ok := IdentityFromContext(c); ok {
			attrs = append(attrs, slog.Uint64("user_id", uint64(identity.ID)))
		}

		level := slog.LevelInfo
		if status >= 500 {
			level = slog.LevelError
		} else if status >= 400 {
			level = slog.LevelWarn
		}
		requestLogger.Log(c.Request.Context(), level, "request completed", attrs...)
	}
}

// LoggerFromContext 返回上下文中的 slog.Logger。
func LoggerFromContext(c *gin.Context) *slog.Logger {
	if value, ok := c.Get(slogLoggerKey); ok {
		if logger, ok := value.(*slog.Logger); ok {
			return logger
		}
	}
	return slog.Default()
}
