package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// pagePath labels requests that fell through to the page pipeline, keeping
// arbitrary URLs out of label values.
const pagePath = "page"

// Middleware creates a Gin middleware for metrics collection
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = pagePath
		}
		status := strconv.Itoa(c.Writer.Status())
		respSize := int64(c.Writer.Size())
		if respSize < 0 {
			respSize = 0
		}

		metrics.RecordHTTPRequest(method, path, status, time.Since(start), respSize)
	}
}
