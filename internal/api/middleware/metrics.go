package middleware

import (
	"strconv"
	"time"

	"feeder-fund-calc/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records request duration by route template and status.
func Metrics(m *metrics.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
