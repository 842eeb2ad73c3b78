package middleware

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/xpense/xpense/internal/metrics"
)

// Logging returns a middleware that tags every request with an id, logs
// its outcome, and records the latency histogram.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.New().String()
		c.Header("X-Request-Id", requestID)

		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		duration := time.Since(start)

		metrics.RequestDuration.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).
			Observe(duration.Seconds())

		attrs := []any{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration_ms", duration.Milliseconds(),
		}
		if username := Username(c); username != "" {
			attrs = append(attrs, "username", username)
		}

		if status >= 500 {
			slog.Error("Request failed", attrs...)
		} else if status >= 400 {
			slog.Warn("Request rejected", attrs...)
		} else {
			slog.Info("Request completed", attrs...)
		}
	}
}

// CORS adds permissive CORS headers for browser access.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "POST, GET, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}

		c.Next()
	}
}
