package utils

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	cmap "github.com/orcaman/concurrent-map/v2"
	"golang.org/x/time/rate"
)

// RateLimiter hands out one token bucket per client IP
type RateLimiter struct {
	limiters cmap.ConcurrentMap[string, *rate.Limiter]
	limit    rate.Limit
	burst    int
}

// NewRateLimiter allows perMinute requests a minute, with bursts of the same size.
// A non-positive perMinute disables limiting.
func NewRateLimiter(perMinute int) *RateLimiter {
	rl := &RateLimiter{
		limiters: cmap.New[*rate.Limiter](),
		limit:    rate.Inf,
		burst:    perMinute,
	}
	if perMinute > 0 {
		rl.limit = rate.Every(time.Minute / time.Duration(perMinute))
	}
	return rl
}

func (rl *RateLimiter) Allow(key string) bool {
	limiter := rl.limiters.Upsert(key, nil, func(exists bool, current, _ *rate.Limiter) *rate.Limiter {
		if exists {
			return current
		}
		return rate.NewLimiter(rl.limit, rl.burst)
	})
	return limiter.Allow()
}

// Handler only limits POST requests, showing a form is free
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodPost && !rl.Allow(c.ClientIP()) {
			c.Header("Retry-After", "60")
			c.String(http.StatusTooManyRequests, "too many attempts, try again later")
			c.Abort()
			return
		}
		c.Next()
	}
}
