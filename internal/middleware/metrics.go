package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/saxenaaman628/hobbyhub/internal/metrics"
)

// Instrument records request counts and latency per route template, so
// /api/polls/:id is one series no matter how many polls exist.
func Instrument(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.Requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.RequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
