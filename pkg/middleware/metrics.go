package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/openshelf/pkg/metrics"
)

// Metrics counts every completed request by method, route and status class.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		class := fmt.Sprintf("%dxx", c.Writer.Status()/100)
		metrics.RequestsTotal.WithLabelValues(c.Request.Method, route, class).Inc()
	}
}
