package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/sparta-gym-api/internal/presentation/http/dto/response"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per key. The key is the signed-in user
// or, for anonymous routes like login, the client IP.
type RateLimiter struct {
	limiters    map[string]*rateLimiterEntry
	mu          sync.Mutex
	rate        rate.Limit
	burst       int
	keyFunc     func(*gin.Context) string
	cleanupTick time.Duration
	entryTTL    time.Duration
	now         func() time.Time
}

type rateLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiterConfig holds configuration for the rate limiter
type RateLimiterConfig struct {
	Requests        int           // requests allowed per Per
	Per             time.Duration // window the requests are spread over
	CleanupInterval time.Duration // how often stale entries are dropped
	EntryTTL        time.Duration // how long an unused entry is kept
}

func (cfg RateLimiterConfig) withDefaults() RateLimiterConfig {
	if cfg.Requests <= 0 {
		cfg.Requests = 100
	}
	if cfg.Per <= 0 {
		cfg.Per = time.Minute
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 5 * time.Minute
	}
	if cfg.EntryTTL <= 0 {
		cfg.EntryTTL = 10 * time.Minute
	}
	return cfg
}

// NewUserRateLimiter limits authenticated requests per user, falling back
// to the client IP when no user is set.
func NewUserRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	return newRateLimiter(cfg, func(c *gin.Context) string {
		if v, ok := c.Get("user_id"); ok {
			if id, ok := v.(uuid.UUID); ok {
				return "user:" + id.String()
			}
		}
		return "ip:" + c.ClientIP()
	})
}

// NewIPRateLimiter limits requests per client IP
func NewIPRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	return newRateLimiter(cfg, func(c *gin.Context) string {
		return "ip:" + c.ClientIP()
	})
}

func newRateLimiter(cfg RateLimiterConfig, keyFunc func(*gin.Context) string) *RateLimiter {
	cfg = cfg.withDefaults()
	return &RateLimiter{
		limiters:    make(map[string]*rateLimiterEntry),
		rate:        rate.Every(cfg.Per / time.Duration(cfg.Requests)),
		burst:       cfg.Requests,
		keyFunc:     keyFunc,
		cleanupTick: cfg.CleanupInterval,
		entryTTL:    cfg.EntryTTL,
		now:         time.Now,
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if entry, ok := rl.limiters[key]; ok {
		entry.lastSeen = now
		return entry.limiter
	}

	limiter := rate.NewLimiter(rl.rate, rl.burst)
	rl.limiters[key] = &rateLimiterEntry{limiter: limiter, lastSeen: now}
	return limiter
}

// RunCleanup drops stale entries until done is closed
func (rl *RateLimiter) RunCleanup(done <-chan struct{}) {
	ticker := time.NewTicker(rl.cleanupTick)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			rl.cleanup()
		}
	}
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.entryTTL)
	for key, entry := range rl.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(rl.limiters, key)
		}
	}
}

// Size reports how many keys are tracked
func (rl *RateLimiter) Size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

// Middleware returns a Gin middleware that applies the limit
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := rl.getLimiter(rl.keyFunc(c))

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.burst))
		if !limiter.Allow() {
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(rl.retryAfter()))
			response.TooManyRequests(c, "Rate limit exceeded. Please try again later.")
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(int(limiter.Tokens())))
		c.Next()
	}
}

func (rl *RateLimiter) retryAfter() int {
	secs := int(time.Duration(float64(time.Second) / float64(rl.rate)).Seconds())
	if secs < 1 {
		return 1
	}
	return secs
}
