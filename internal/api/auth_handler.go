package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"hkexpatjobs/internal/api/middleware"
	"hkexpatjobs/internal/errcode"
	"hkexpatjobs/internal/metrics"
	"hkexpatjobs/internal/users"
)

// AuthHandler 处理注册、登录与个人资料。
type AuthHandler struct {
	users   *users.Service
	limiter *LoginLimiter
}

// NewAuthHandler 构造认证处理器；limiter 可以为 nil。
func NewAuthHandler(userService *users.Service, limiter *LoginLimiter) *AuthHandler {
	return &AuthHandler{users: userService, limiter: limiter}
}

// Register 创建新用户账号。
func (h *AuthHandler) Register(c *gin.Context) {
	var req users.RegisterInput
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.users.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.LoggerFromContext(c).Info("user registered",
		slog.Uint64("user_id", uint64(user.ID)),
		slog.String("role", user.Role),
	)
	c.JSON(http.StatusCreated, gin.H{"success": true, "user": user})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login 校验口令并返回 Token。
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c).With(slog.String("username", req.Username))

	switch h.limiter.check(ctx, c.ClientIP(), req.Username) {
	case limitRateExceeded:
		metrics.ObserveLogin("limited")
		Message(c, http.StatusTooManyRequests, "too many login attempts, please try again later")
		return
	case limitLocked:
		metrics.ObserveLogin("limited")
		Message(c, http.StatusTooManyRequests, "account temporarily locked")
		return
	}

	result, err := h.users.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errcode.Is(err, errcode.KindUnauthenticated) {
			logger.Info("login failed")
			metrics.ObserveLogin("failure")
			h.limiter.fail(ctx, req.Username)
		}
		respondError(c, err)
		return
	}

	h.limiter.reset(ctx, req.Username)
	metrics.ObserveLogin("success")
	logger.Info("login succeeded", slog.Uint64("user_id", uint64(result.User.ID)))
	c.JSON(http.StatusOK, result)
}

// Profile 返回当前用户的资料。
func (h *AuthHandler) Profile(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	profile, err := h.users.Profile(c.Request.Context(), identity.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

type updateProfileRequest struct {
	Profile users.ProfilePatch `json:"profile"`
}

// UpdateProfile 部分更新当前用户的资料。
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var req updateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.users.UpdateProfile(c.Request.Context(), identity.ID, req.Profile)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": profile})
}

// PublicUser 供招聘者查看申请人的公开资料。
func (h *AuthHandler) PublicUser(c *gin.Context) {
	id, ok := pathID(c, "id", "user")
	if !ok {
		return
	}

	profile, err := h.users.PublicProfile(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
