package middleware

import (
	"sync"
	"time"

	"github.com/argeoalecha/hayahai-web-sub001/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter holds one token bucket per client IP for a single operation
// class (read, write, moderate). Quotas differ per class, so the router
// constructs one limiter per class.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*clientBucket
	rps     rate.Limit
	burst   int
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*clientBucket),
		rps:     rate.Limit(rps),
		burst:   burst,
	}

	// Evict buckets idle for a while so the map stays bounded
	go rl.cleanup()

	return rl
}

// Middleware enforces the quota, answering 429 when it is exceeded
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			util.TooManyRequests(c, "Rate limit exceeded, try again later")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	bucket, exists := rl.buckets[key]
	if !exists {
		bucket = &clientBucket{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.buckets[key] = bucket
	}
	bucket.lastSeen = time.Now()
	rl.mu.Unlock()

	return bucket.limiter.Allow()
}

func (rl *RateLimiter) cleanup() {
	for {
		time.Sleep(time.Minute)

		rl.mu.Lock()
		for key, bucket := range rl.buckets {
			if time.Since(bucket.lastSeen) > 10*time.Minute {
				delete(rl.buckets, key)
			}
		}
		rl.mu.Unlock()
	}
}
