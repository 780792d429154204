package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
)

// GinMiddleware records latency metrics for each HTTP request. The
// metrics endpoint itself is not observed.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		if route == "/metrics" {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
