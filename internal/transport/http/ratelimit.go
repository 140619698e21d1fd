package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// rateLimiter is a fixed-window per-client counter used on the auth
// endpoints. Windows reset lazily on access.
type rateLimiter struct {
	limit  int
	window time.Duration

	mu      sync.Mutex
	counts  map[string]int
	started map[string]time.Time
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &rateLimiter{
		limit:   limit,
		window:  window,
		counts:  make(map[string]int),
		started: make(map[string]time.Time),
	}
}

func (r *rateLimiter) allow(key string) bool {
	if r == nil || r.limit <= 0 {
		return true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if start, ok := r.started[key]; !ok || now.Sub(start) >= r.window {
		r.started[key] = now
		r.counts[key] = 0
	}

	r.counts[key]++
	return r.counts[key] <= r.limit
}

// RateLimitMiddleware rejects requests beyond limit-per-minute per client IP.
func RateLimitMiddleware(limit int) gin.HandlerFunc {
	limiter := newRateLimiter(limit, time.Minute)

	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}
