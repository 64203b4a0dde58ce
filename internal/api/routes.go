package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hkexpatjobs/internal/api/middleware"
	"hkexpatjobs/internal/applications"
	"hkexpatjobs/internal/auth"
	"hkexpatjobs/internal/companies"
	"hkexpatjobs/internal/jobs"
	"hkexpatjobs/internal/store"
	"hkexpatjobs/internal/users"
)

// TokenService 同时负责签发与校验会话令牌，*auth.AuthService 实现该接口。
type TokenService interface {
	GenerateToken(id auth.Identity) (string, error)
	Verify(token string) (auth.Identity, error)
	TokenTTL() time.Duration
}

// Dependencies 汇总路由所需的服务与基础设施。
type Dependencies struct {
	DB             *gorm.DB
	Tokens         TokenService
	Users          *users.Service
	Jobs           *jobs.Service
	Applications   *applications.Service
	Companies      *companies.Service
	Limiter        *LoginLimiter
	Storage        ObjectStorage
	ClamdAddr      string
	MaxUploadBytes int64
}

// NewDependencies 基于同一个数据库连接构造全部业务服务。
func NewDependencies(db *gorm.DB, tokens TokenService, registrationRoles []string) Dependencies {
	userStore := store.NewUserStore(db)
	companyStore := store.NewCompanyStore(db)
	jobStore := store.NewJobStore(db)
	applicationStore := store.NewApplicationStore(db)

	return Dependencies{
		DB:           db,
		Tokens:       tokens,
		Users:        users.NewService(userStore, applicationStore, tokens, registrationRoles),
		Jobs:         jobs.NewService(jobStore, companyStore, applicationStore),
		Applications: applications.NewService(applicationStore, jobStore, userStore),
		Companies:    companies.NewService(companyStore),
	}
}

// RegisterRoutes 注册 /api 下的路由，调用方负责传入已带前缀的分组。
func RegisterRoutes(api *gin.RouterGroup, deps Dependencies) {
	authHandler := NewAuthHandler(deps.Users, deps.Limiter)
	jobHandler := NewJobHandler(deps.Jobs, deps.Applications)
	applicationHandler := NewApplicationHandler(deps.Applications)
	companyHandler := NewCompanyHandler(deps.Companies)
	uploadHandler := NewUploadHandler(deps.Storage, deps.Users, deps.Companies, deps.ClamdAddr, deps.MaxUploadBytes)

	authRequired := middleware.AuthMiddleware(deps.Tokens)
	recruiters := middleware.RequireRoles(auth.RoleRecruiter, auth.RoleAdmin)
	applicants := middleware.RequireRoles(auth.RoleApplicant)

	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)
	api.GET("/dbstatus", DBStatus(deps.DB))

	api.GET("/profile", authRequired, authHandler.Profile)
	api.PUT("/profile", authRequired, authHandler.UpdateProfile)
	api.GET("/users/:id", authRequired, recruiters, authHandler.PublicUser)

	jobGroup := api.Group("/jobs")
	{
		jobGroup.GET("", jobHandler.List)
		jobGroup.GET("/search", jobHandler.Search)
		jobGroup.GET("/my", authRequired, recruiters, jobHandler.MyJobs)
		jobGroup.GET("/:id", jobHandler.Detail)
		jobGroup.POST("", authRequired, recruiters, jobHandler.Create)
		jobGroup.PUT("/:id", authRequired, recruiters, jobHandler.Update)
		jobGroup.DELETE("/:id", authRequired, recruiters, jobHandler.Delete)
		jobGroup.POST("/:id/apply", authRequired, applicants, jobHandler.Apply)
		jobGroup.GET("/:id/applicants", authRequired, recruiters, jobHandler.Applicants)
		jobGroup.PUT("/:id/applications/:userId", authRequired, recruiters, jobHandler.UpdateApplicantStatus)
	}

	applicationGroup := api.Group("/applications")
	applicationGroup.Use(authRequired)
	{
		applicationGroup.GET("/my", applicationHandler.Mine)
		applicationGroup.GET("", recruiters, applicationHandler.ForRecruiter)
		applicationGroup.GET("/query", recruiters, applicationHandler.Query)
		applicationGroup.PUT("/:id/status", recruiters, applicationHandler.UpdateStatus)
	}

	companyGroup := api.Group("/companies")
	{
		companyGroup.GET("", companyHandler.List)
		companyGroup.GET("/my", authRequired, recruiters, companyHandler.Mine)
		companyGroup.GET("/:id", companyHandler.Get)
		companyGroup.POST("", authRequired, recruiters, companyHandler.Save)
		companyGroup.POST("/logo", authRequired, recruiters, uploadHandler.UploadLogo)
	}

	uploadGroup := api.Group("/upload")
	uploadGroup.Use(authRequired)
	{
		uploadGroup.POST("/resume", uploadHandler.UploadResume)
		uploadGroup.POST("/photo", uploadHandler.UploadPhoto)
	}
}

// RegisterUploadRoutes 注册 /uploads/:name 文件读取路由。
func RegisterUploadRoutes(router gin.IRouter, deps Dependencies) {
	uploadHandler := NewUploadHandler(deps.Storage, deps.Users, deps.Companies, deps.ClamdAddr, deps.MaxUploadBytes)
	router.GET("/uploads/:name", uploadHandler.Serve)
}
