package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"hkexpatjobs/internal/api/middleware"
	"hkexpatjobs/internal/applications"
	"hkexpatjobs/internal/jobs"
	"hkexpatjobs/internal/metrics"
)

// JobHandler 处理职位列表、详情、增删改以及职位下的申请操作。
type JobHandler struct {
	jobs         *jobs.Service
	applications *applications.Service
}

func NewJobHandler(jobService *jobs.Service, applicationService *applications.Service) *JobHandler {
	return &JobHandler{jobs: jobService, applications: applicationService}
}

// List 分页筛选职位。
func (h *JobHandler) List(c *gin.Context) {
	query, err := jobs.ParseListQuery(c.Request.URL.Query())
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.jobs.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Search 关键词搜索，结果有上限。
func (h *JobHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		q = c.Query("search")
	}

	result, err := h.jobs.Search(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Detail 返回单个职位，公司名称内联解析。
func (h *JobHandler) Detail(c *gin.Context) {
	id, ok := pathID(c, "id", "job")
	if !ok {
		return
	}

	job, err := h.jobs.Detail(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// MyJobs 返回当前招聘者发布的职位。
func (h *JobHandler) MyJobs(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	result, err := h.jobs.MyJobs(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *JobHandler) Create(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var req jobs.JobInput
	if !bindJSON(c, &req) {
		return
	}

	job, err := h.jobs.Create(c.Request.Context(), identity, req)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.LoggerFromContext(c).Info("job created",
		slog.Uint64("job_id", uint64(job.ID)),
		slog.Uint64("user_id", uint64(identity.ID)),
	)
	c.JSON(http.StatusCreated, job)
}

func (h *JobHandler) Update(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	id, ok := pathID(c, "id", "job")
	if !ok {
		return
	}

	var req jobs.JobInput
	if !bindJSON(c, &req) {
		return
	}

	job, err := h.jobs.Update(c.Request.Context(), identity, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) Delete(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	id, ok := pathID(c, "id", "job")
	if !ok {
		return
	}

	if err := h.jobs.Delete(c.Request.Context(), identity, id); err != nil {
		respondError(c, err)
		return
	}

	middleware.LoggerFromContext(c).Info("job deleted",
		slog.Uint64("job_id", uint64(id)),
		slog.Uint64("user_id", uint64(identity.ID)),
	)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "job deleted"})
}

// Apply 申请职位，同一申请人对同一职位只能申请一次。
func (h *JobHandler) Apply(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	id, ok := pathID(c, "id", "job")
	if !ok {
		return
	}

	var req applications.ApplyInput
	if !bindOptionalJSON(c, &req) {
		return
	}

	application, err := h.applications.Apply(c.Request.Context(), identity, id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	metrics.ObserveApplication()
	middleware.LoggerFromContext(c).Info("application submitted",
		slog.Uint64("application_id", uint64(application.ID)),
		slog.Uint64("job_id", uint64(id)),
		slog.Uint64("user_id", uint64(identity.ID)),
	)
	c.JSON(http.StatusCreated, gin.H{"success": true, "application": application})
}

// Applicants 列出职位的申请人，仅限职位发布者或管理员。
func (h *JobHandler) Applicants(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	id, ok := pathID(c, "id", "job")
	if !ok {
		return
	}

	result, err := h.applications.ApplicantsForJob(c.Request.Context(), identity, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateApplicantStatus 按 (jobId, userId) 更新申请状态。
func (h *JobHandler) UpdateApplicantStatus(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}
	jobID, ok := pathID(c, "id", "job")
	if !ok {
		return
	}
	userID, ok := pathID(c, "userId", "user")
	if !ok {
		return
	}

	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}

	application, err := h.applications.UpdateStatusByJobAndApplicant(c.Request.Context(), identity, jobID, userID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "application": application})
}
