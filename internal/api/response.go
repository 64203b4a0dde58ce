package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hkexpatjobs/internal/api/middleware"
	"hkexpatjobs/internal/auth"
	"hkexpatjobs/internal/errcode"
)

// Message 写入统一的错误响应体 {"message": ...}。
func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

func BadRequest(c *gin.Context, msg string) { Message(c, http.StatusBadRequest, msg) }
func NotFound(c *gin.Context, msg string)   { Message(c, http.StatusNotFound, msg) }

func AbortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
}

// respondError 将业务错误映射为 HTTP 状态；5xx 的原因只写日志，不返回给客户端。
func respondError(c *gin.Context, err error) {
	kind := errcode.KindOf(err)
	status := errcode.HTTPStatus(kind)
	if status >= http.StatusInternalServerError {
		middleware.LoggerFromContext(c).Error("request failed", slog.Any("error", err))
	}
	Message(c, status, errcode.PublicMessage(err))
}

func identityFromContext(c *gin.Context) (auth.Identity, bool) {
	return middleware.IdentityFromContext(c)
}

// pathID 解析路径中的数字 ID，失败时直接写 400。
func pathID(c *gin.Context, name, label string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		BadRequest(c, "invalid "+label+" id")
		return 0, false
	}
	return uint(id), true
}

// bindJSON 解析请求体，失败时写 400。
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		BadRequest(c, "invalid request body")
		return false
	}
	return true
}

// bindOptionalJSON 与 bindJSON 相同，但允许空请求体。
func bindOptionalJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		BadRequest(c, "invalid request body")
		return false
	}
	return true
}
