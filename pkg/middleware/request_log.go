package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/karajelley/lab-toy-factory/pkg/logger"
	"github.com/karajelley/lab-toy-factory/pkg/metrics"
)

// RequestLogger logs one line per request and counts it in
// metrics.HTTPRequests. The route label is the matched gin pattern
// (e.g. /toys/:toyId) so ids do not explode label cardinality.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()

		path := c.Request.URL.Path
		if q := c.Request.URL.RawQuery; q != "" {
			path += "?" + q
		}
		lvl := logger.LevelInfo
		switch {
		case status >= 500:
			lvl = logger.LevelError
		case status >= 400:
			lvl = logger.LevelWarn
		}
		kv := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", time.Since(start),
			"ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			kv = append(kv, "errors", c.Errors.String())
		}
		logger.Logw(lvl, "request", kv...)
	}
}

// CORS sets permissive cross-origin headers and answers preflight requests.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	}
}
