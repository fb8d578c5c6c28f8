package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"propintel/internal/metrics"
)

// Metrics records request counts and latencies per route. The route template
// is used as the path label so parameterized routes do not blow up label
// cardinality.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}
