package middleware

import (
	"net/http"
	"sync"
	"time"

	"revivalhub/internal/metrics"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per caller. Buckets idle for longer than
// the idle window are dropped on the next sweep.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*visitor
	limit    rate.Limit
	burst    int
	idle     time.Duration
	lastGC   time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiters: make(map[string]*visitor),
		limit:    rate.Limit(rps),
		burst:    burst,
		idle:     10 * time.Minute,
		lastGC:   time.Now(),
	}
}

// Allow reports whether key may make another request now.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.Sub(rl.lastGC) > rl.idle {
		for k, v := range rl.limiters {
			if now.Sub(v.lastSeen) > rl.idle {
				delete(rl.limiters, k)
			}
		}
		rl.lastGC = now
	}

	v, ok := rl.limiters[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[key] = v
	}
	v.lastSeen = now
	return v.limiter.Allow()
}

// Middleware limits per authenticated actor, falling back to the client IP.
// It must run after AuthMiddleware.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if actor, ok := ActorFrom(c); ok {
			key = "actor:" + actor.UserID
		}
		if !rl.Allow(key) {
			metrics.RateLimited.Inc()
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests", "code": "RATE_LIMITED"})
			c.Abort()
			return
		}
		c.Next()
	}
}
