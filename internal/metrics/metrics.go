package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	LoginsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_logins_total",
		Help: "Total number of login attempts by result",
	}, []string{"result"})
	SessionsIssuedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "blog_sessions_issued_total",
		Help: "Total number of sessions issued",
	})
	PostsCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "blog_posts_created_total",
		Help: "Total number of posts created",
	})
	PostsDeletedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "blog_posts_deleted_total",
		Help: "Total number of posts deleted",
	})
	HttpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
	HttpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)

func init() {
	prometheus.MustRegister(LoginsTotal, SessionsIssuedTotal, PostsCreatedTotal, PostsDeletedTotal, HttpRequestsTotal, HttpRequestDuration)
}

// GinMiddleware 统计基础请求指标，供 Prometheus 拉取。
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		labels := prometheus.Labels{"method": c.Request.Method, "path": path, "status": status}
		HttpRequestsTotal.With(labels).Inc()
		HttpRequestDuration.With(labels).Observe(time.Since(start).Seconds())
	}
}
