package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hkexpatjobs/internal/companies"
)

type CompanyHandler struct {
	companies *companies.Service
}

func NewCompanyHandler(companyService *companies.Service) *CompanyHandler {
	return &CompanyHandler{companies: companyService}
}

func (h *CompanyHandler) List(c *gin.Context) {
	list, err := h.companies.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *CompanyHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id", "company")
	if !ok {
		return
	}

	company, err := h.companies.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

// Mine 返回当前招聘者的公司。
func (h *CompanyHandler) Mine(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	company, err := h.companies.Mine(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

// Save 创建或更新当前招聘者的公司。
func (h *CompanyHandler) Save(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	var req companies.Input
	if !bindJSON(c, &req) {
		return
	}

	company, created, err := h.companies.Save(c.Request.Context(), identity, req)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"success": true, "company": company})
}
