package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hkexpatjobs/internal/api/middleware"
	"hkexpatjobs/internal/database"
)

const dbPingTimeout = 2 * time.Second

type dbStatusResponse struct {
	Connected bool      `json:"connected"`
	Error     *string   `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

// DBStatus 探测数据库连通性；错误信息只写日志，返回通用描述。
func DBStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), dbPingTimeout)
		defer cancel()

		resp := dbStatusResponse{Connected: true, Timestamp: time.Now().UTC()}
		if err := database.Ping(ctx, db); err != nil {
			middleware.LoggerFromContext(c).Warn("database ping failed", slog.Any("error", err))
			msg := "database unreachable"
			resp.Connected = false
			resp.Error = &msg
		}
		c.JSON(http.StatusOK, resp)
	}
}
