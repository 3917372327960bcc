package middleware

import (
	"time"

	"github.com/AllanSJoseph/AlgoHub/ctxutil"
	"github.com/AllanSJoseph/AlgoHub/logging/logger"
	"github.com/gin-gonic/gin"
)

// Trace ensures every request carries a trace ID in its context.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, _ := ctxutil.EnsureTraceID(c.Request.Context())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequestLogger logs each request with method, path, status and duration.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		log.Info(c.Request.Context(), "HTTP request",
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
			"ip", c.ClientIP(),
		)
	}
}
