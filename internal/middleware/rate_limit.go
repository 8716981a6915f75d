package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimitMessage is returned with 429 responses
const RateLimitMessage = "请求过于频繁，请稍后再试"

// Limiter decides whether a client may make another request
type Limiter interface {
	// IsAllowed returns: allowed, remaining requests, reset time, error
	IsAllowed(ctx context.Context, key string) (bool, int, time.Time, error)
	Limit() int
}

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// NewSearchRateLimitConfig limits search calls per client per minute
func NewSearchRateLimitConfig(perMinute int) RateLimitConfig {
	return RateLimitConfig{
		Window:    time.Minute,
		Limit:     perMinute,
		KeyPrefix: "rate_limit:search",
	}
}

// RedisLimiter is a fixed-window limiter shared between instances through Redis
type RedisLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
	now    func() time.Time
}

// NewRedisLimiter creates a new Redis backed limiter
func NewRedisLimiter(redisClient *redis.Client, config RateLimitConfig) *RedisLimiter {
	return &RedisLimiter{
		redis:  redisClient,
		config: config,
		now:    time.Now,
	}
}

// Limit returns the number of requests allowed per window
func (rl *RedisLimiter) Limit() int {
	return rl.config.Limit
}

// IsAllowed counts a request from key in the current window
func (rl *RedisLimiter) IsAllowed(ctx context.Context, key string) (bool, int, time.Time, error) {
	windowStart := rl.now().Truncate(rl.config.Window)
	redisKey := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, key, windowStart.Unix())

	// Use Redis pipeline for atomic operations
	pipe := rl.redis.TxPipeline()
	incrCmd := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.config.Window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(incrCmd.Val())
	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= rl.config.Limit, remaining, windowStart.Add(rl.config.Window), nil
}

// ipLimiter holds a token bucket and the last time it was seen
type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LocalLimiter is an in-process token bucket per client, used when no Redis is
// configured
type LocalLimiter struct {
	mu          sync.Mutex
	limiters    map[string]*ipLimiter
	perMinute   int
	lastCleanup time.Time
}

const localLimiterIdle = 5 * time.Minute

// NewLocalLimiter allows perMinute requests per client with an equal burst.
// perMinute must be positive.
func NewLocalLimiter(perMinute int) *LocalLimiter {
	return &LocalLimiter{
		limiters:    make(map[string]*ipLimiter),
		perMinute:   perMinute,
		lastCleanup: time.Now(),
	}
}

// Limit returns the number of requests allowed per minute
func (l *LocalLimiter) Limit() int {
	return l.perMinute
}

// IsAllowed takes a token from key's bucket
func (l *LocalLimiter) IsAllowed(_ context.Context, key string) (bool, int, time.Time, error) {
	now := time.Now()
	limiter := l.getLimiter(key, now)

	allowed := limiter.AllowN(now, 1)
	remaining := int(limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	reset := now.Add(time.Minute / time.Duration(l.perMinute))
	return allowed, remaining, reset, nil
}

func (l *LocalLimiter) getLimiter(key string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastCleanup) > localLimiterIdle {
		for k, entry := range l.limiters {
			if now.Sub(entry.lastSeen) > localLimiterIdle {
				delete(l.limiters, k)
			}
		}
		l.lastCleanup = now
	}

	if entry, ok := l.limiters[key]; ok {
		entry.lastSeen = now
		return entry.limiter
	}

	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMinute)), l.perMinute)
	l.limiters[key] = &ipLimiter{limiter: limiter, lastSeen: now}
	return limiter
}

// RateLimit returns a Gin middleware that enforces the limit per client IP.
// Limiter errors are logged and the request goes through.
func RateLimit(limiter Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, remaining, resetTime, err := limiter.IsAllowed(c.Request.Context(), c.ClientIP())
		if err != nil {
			slog.Warn("rate limit check failed", "error", err, "request_id", c.GetString(RequestIDKey))
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			retryAfter := max(int(time.Until(resetTime).Seconds()), 1)
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       RateLimitMessage,
				"retry_after": retryAfter,
			})
			return
		}

		c.Next()
	}
}
