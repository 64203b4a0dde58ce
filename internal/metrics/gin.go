package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hkexpatjobs"

var (
	registerOnce sync.Once

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP 请求耗时分布（秒）。",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	requestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP 请求总数。",
		},
		[]string{"method", "path", "status"},
	)

	requestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "当前正在处理的 HTTP 请求数量。",
		},
	)

	loginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "login_attempts_total",
			Help:      "登录尝试次数，按结果分类（success/failure/limited）。",
		},
		[]string{"result"},
	)

	applicationsSubmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "applications",
			Name:      "submitted_total",
			Help:      "成功提交的职位申请数量。",
		},
	)

	uploadsStored = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "uploads",
			Name:      "stored_total",
			Help:      "成功保存的上传文件数量，按类别分类。",
		},
		[]string{"kind"},
	)
)

// Register 注册全部指标，可重复调用。
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			requestDuration, requestTotal, requestsInFlight,
			loginAttempts, applicationsSubmitted, uploadsStored,
		)
	})
}

// ObserveLogin records a login outcome.
func ObserveLogin(result string) {
	loginAttempts.WithLabelValues(result).Inc()
}

// ObserveApplication records one submitted application.
func ObserveApplication() {
	applicationsSubmitted.Inc()
}

// ObserveUpload records one stored upload of the given kind (resume/photo/logo).
func ObserveUpload(kind string) {
	uploadsStored.WithLabelValues(kind).Inc()
}

// GinMiddleware 为 Gin 路由注册 Prometheus 指标采集逻辑。
func GinMiddleware() gin.HandlerFunc {
	Register()

	return func(c *gin.Context) {
		start := time.Now()
		requestsInFlight.Inc()
		defer requestsInFlight.Dec()

		c.Next()

		// 未匹配路由（静态资源、SPA 回退）统一归类，避免标签基数膨胀。
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		labels := prometheus.Labels{
			"method": c.Request.Method,
			"path":   path,
			"status": strconv.Itoa(c.Writer.Status()),
		}

		requestDuration.With(labels).Observe(time.Since(start).Seconds())
		requestTotal.With(labels).Inc()
	}
}
