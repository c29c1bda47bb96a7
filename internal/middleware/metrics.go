package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/centerkech-api/internal/service"
)

// unobserved lists probe and scrape routes excluded from request metrics.
var unobserved = map[string]struct{}{
	"/health":  {},
	"/ready":   {},
	"/metrics": {},
}

// Metrics records latency and count per route pattern. Requests matching no route
// share the "unmatched" label so arbitrary paths cannot grow label cardinality.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		if _, skip := unobserved[c.FullPath()]; skip {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
