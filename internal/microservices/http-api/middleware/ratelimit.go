package middleware

import (
	"net/http"

	"bookhub/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// RateLimit rejects clients that exceed their per-IP token bucket with 429.
func RateLimit(limiter *ratelimit.KeyedRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
