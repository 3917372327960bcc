// Package middleware provides the request gate, authentication and
// authorization middleware, and request-scoped logging.
package middleware

import (
	"context"

	"github.com/AllanSJoseph/AlgoHub/net/resp"
	"github.com/gin-gonic/gin"
)

// ReadinessChecker reports whether the document store is reachable.
type ReadinessChecker interface {
	Ready(ctx context.Context) bool
}

const gateMessage = "Service unavailable. Database not connected."

// Gate rejects every request while the document store is not connected. It is
// a pure infrastructure circuit breaker with no knowledge of authentication,
// evaluated per request so recovery is observed on the very next request.
func Gate(rc ReadinessChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rc.Ready(c.Request.Context()) {
			resp.Fail(c.Writer, resp.ServiceUnavailable(gateMessage))
			c.Abort()
			return
		}
		c.Next()
	}
}
