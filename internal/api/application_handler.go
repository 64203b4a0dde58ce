package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hkexpatjobs/internal/api/middleware"
	"hkexpatjobs/internal/applications"
)

type ApplicationHandler struct {
	applications *applications.Service
}

func NewApplicationHandler(applicationService *applications.Service) *ApplicationHandler {
	return &ApplicationHandler{applications: applicationService}
}

type statusRequest struct {
	Status string `json:"status"`
}

// Mine 返回当前用户自己的申请，最新在前。
func (h *ApplicationHandler) Mine(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	result, err := h.applications.ListMine(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ForRecruiter 返回当前招聘者所发布职位收到的申请。
func (h *ApplicationHandler) ForRecruiter(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	result, err := h.applications.ListForRecruiter(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Query 按 applicantId + jobId 定位申请，返回数组（可能为空）。
func (h *ApplicationHandler) Query(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	applicantID, err1 := strconv.ParseUint(c.Query("applicantId"), 10, 64)
	jobID, err2 := strconv.ParseUint(c.Query("jobId"), 10, 64)
	if err1 != nil || err2 != nil || applicantID == 0 || jobID == 0 {
		BadRequest(c, "applicantId and jobId are required")
		return
	}

	result, err := h.applications.Query(c.Request.Context(), identity, uint(applicantID), uint(jobID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateStatus 更新申请状态，仅限职位发布者或管理员。
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	id, ok := pathID(c, "id", "application")
	if !ok {
		return
	}

	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}

	application, err := h.applications.UpdateStatus(c.Request.Context(), identity, id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.LoggerFromContext(c).Info("application status updated",
		slog.Uint64("application_id", uint64(id)),
		slog.String("status", application.Status),
	)
	c.JSON(http.StatusOK, gin.H{"success": true, "application": application})
}
