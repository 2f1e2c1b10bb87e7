package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/pagehost/internal/infrastructure/monitoring"
)

// Hello answers GET and PUT /api/hello.
func Hello(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Hello, world!",
		"method":  c.Request.Method,
	})
}

// HelloName answers GET /api/hello/:name.
func HelloName(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Hello, %s!", c.Param("name")),
	})
}

// Health reports liveness plus request and render totals.
type Health struct {
	mode    string
	metrics *monitoring.Metrics
	started time.Time
}

// NewHealth creates the health handler.
func NewHealth(mode string, metrics *monitoring.Metrics) *Health {
	return &Health{mode: mode, metrics: metrics, started: time.Now()}
}

// Serve handles GET /health.
func (h *Health) Serve(c *gin.Context) {
	body := gin.H{
		"status":  "healthy",
		"service": "pagehost",
		"mode":    h.mode,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	}
	if h.metrics != nil {
		body["metrics"] = h.metrics.Snapshot()
	}
	c.JSON(http.StatusOK, body)
}
