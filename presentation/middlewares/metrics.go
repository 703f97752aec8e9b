package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hilthontt/visper-admin/infrastructure/metrics"
)

// HttpMetricsMiddleware feeds the request counter and latency histogram
// registered by the container.
func HttpMetricsMiddleware(manager metrics.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		manager.IncCounter("http_requests_total")
		manager.ObserveHistogram("http_request_duration_seconds", time.Since(start).Seconds())

		if c.Writer.Status() >= 500 {
			manager.IncCounter("http_requests_errors_total")
		}
	}
}
