package gin

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mantisgestion/drive-migrator/pkg/metrics"
)

// PrometheusMiddleware records request counters and latency per route.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		statusCode := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method + " " + c.FullPath()

		metrics.RecordRequest(method, statusCode, time.Since(start))
	}
}
