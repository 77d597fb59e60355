// Package middleware provides gin middleware for the crawl status server.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/persistorai/citegraph/internal/httputil"
)

// RateLimit rejects requests beyond a shared token bucket with 429.
// The status server usually has one or two pollers, so a single bucket
// suffices.
func RateLimit(limit rate.Limit, burst int) gin.HandlerFunc {
	limiter := rate.NewLimiter(limit, burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.Header("Retry-After", "1")
			httputil.RespondError(c, http.StatusTooManyRequests, "rate_limited", "too many requests")

			return
		}

		c.Next()
	}
}
