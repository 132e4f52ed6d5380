package middleware

import (
	"context"
	"strconv"
	"time"

	"meal-service/metrics"
	awspkg "meal-service/pkg/aws"

	"github.com/gin-gonic/gin"
)

// Metrics records Prometheus request metrics and, when cw is non-nil, CloudWatch ones.
// Paths are the route templates so ids do not explode label cardinality.
func Metrics(cw *awspkg.MetricsClient, serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		status := c.Writer.Status()
		duration := time.Since(start)

		metrics.HTTPRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
		metrics.HTTPDuration.WithLabelValues(method, path).Observe(duration.Seconds())

		if cw == nil {
			return
		}
		dims := map[string]string{
			"Service": serviceName,
			"Method":  method,
			"Path":    path,
			"Status":  metrics.StatusRange(status),
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = cw.RecordCount(ctx, awspkg.MetricHTTPRequests, dims)
			_ = cw.RecordLatency(ctx, awspkg.MetricHTTPLatency, duration, dims)
			switch {
			case status >= 500:
				_ = cw.RecordCount(ctx, awspkg.MetricHTTP5xx, dims)
			case status >= 400:
				_ = cw.RecordCount(ctx, awspkg.MetricHTTP4xx, dims)
			}
		}()
	}
}
