package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	correlationIDKey    = "correlationID"
	correlationIDHeader = "X-Correlation-ID"
	maxCorrelationIDLen = 64
)

// CorrelationIDMiddleware 沿用客户端传入的 X-Correlation-ID（或 X-Request-ID），否则生成新的 UUID。
func CorrelationIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(correlationIDHeader)
		if id == "" {
			id = c.GetHeader("X-Request-ID")
		}
		if !validCorrelationID(id) {
			id = uuid.NewString()
		}

		c.Set(correlationIDKey, id)
		c.Header(correlationIDHeader, id)
		c.Next()
	}
}

// 只接受可打印 ASCII，防止日志注入。
func validCorrelationID(id string) bool {
	if id == "" || len(id) > maxCorrelationIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}

// GetCorrelationID 从上下文中取出 Correlation ID。
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(correlationIDKey)
}
