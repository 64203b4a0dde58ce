package api

import (
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hkexpatjobs/internal/api/middleware"
	"hkexpatjobs/internal/config"
	"hkexpatjobs/internal/metrics"
)

// NewRouter 构建 Gin 路由引擎：中间件、健康检查、指标、业务路由与前端静态资源。
func NewRouter(cfg *config.Config, logger *slog.Logger, deps Dependencies) *gin.Engine {
	if cfg.API.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.CustomRecovery(func(c *gin.Context, recovered any) {
			middleware.LoggerFromContext(c).Error("panic recovered", slog.Any("panic", recovered))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		}),
		cors.New(corsConfig(cfg.API.CORSOrigins)),
		metrics.GinMiddleware(),
		middleware.CorrelationIDMiddleware(),
		middleware.SlogLoggerMiddleware(logger),
		middleware.TimeoutMiddleware(cfg.API.RequestTimeout),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	RegisterRoutes(router.Group("/api"), deps)
	RegisterUploadRoutes(router, deps)

	if index := filepath.Join(cfg.API.StaticDir, "index.html"); cfg.API.StaticDir != "" && fileExists(index) {
		router.NoRoute(spaHandler(cfg.API.StaticDir, cfg.API.BasePath))
	} else {
		router.NoRoute(func(c *gin.Context) { NotFound(c, "route not found") })
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	config := cors.DefaultConfig()
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Correlation-ID"}
	config.ExposeHeaders = []string{"X-Correlation-ID"}
	config.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	for _, origin := range origins {
		if origin == "*" {
			config.AllowAllOrigins = true
			return config
		}
	}
	config.AllowOrigins = origins
	if len(origins) == 0 {
		config.AllowAllOrigins = true
	}
	return config
}

// spaHandler 在 basePath 下提供前端文件，未知路径回退到 index.html；/api 与 /uploads 不回退。
func spaHandler(staticDir, basePath string) gin.HandlerFunc {
	basePath = "/" + strings.Trim(basePath, "/")
	return func(c *gin.Context) {
		reqPath := c.Request.URL.Path
		if strings.HasPrefix(reqPath, "/api/") || strings.HasPrefix(reqPath, "/uploads/") {
			NotFound(c, "route not found")
			return
		}
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			NotFound(c, "route not found")
			return
		}
		if !strings.HasPrefix(reqPath, basePath) {
			NotFound(c, "route not found")
			return
		}

		rel := path.Clean("/" + strings.TrimPrefix(reqPath, basePath))
		candidate := filepath.Join(staticDir, filepath.FromSlash(rel))
		if rel != "/" && fileExists(candidate) {
			c.File(candidate)
			return
		}
		c.File(filepath.Join(staticDir, "index.html"))
	}
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
