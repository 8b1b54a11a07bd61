package middleware

import (
	"context"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/JonnyWalker81/breathe/backend/internal/apierror"
	"github.com/JonnyWalker81/breathe/backend/internal/config"
	"github.com/JonnyWalker81/breathe/backend/internal/logger"
)

// RateLimiter keeps one token bucket per client IP
type RateLimiter struct {
	clients map[string]*clientInfo
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
}

type clientInfo struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a rate limiter allowing rps requests per second per
// client with bursts of up to burst requests.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	// Idle clients are forgotten once their bucket would be full again
	idle := time.Duration(float64(burst)/rps*float64(time.Second)) + time.Minute

	return &RateLimiter{
		clients: make(map[string]*clientInfo),
		limit:   rate.Limit(rps),
		burst:   burst,
		idleTTL: idle,
	}
}

// Run removes idle clients periodically until ctx is done
func (rl *RateLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(rl.idleTTL)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if cleaned := rl.cleanup(now); cleaned > 0 {
				logger.Default().Debug("rate limiter cleanup completed", logger.Int("cleaned", cleaned))
			}
		}
	}
}

func (rl *RateLimiter) cleanup(now time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cleaned := 0
	for ip, info := range rl.clients {
		if now.Sub(info.lastSeen) > rl.idleTTL {
			delete(rl.clients, ip)
			cleaned++
		}
	}
	return cleaned
}

// allow reports whether a request from ip may proceed now
func (rl *RateLimiter) allow(ip string, now time.Time) bool {
	rl.mu.Lock()
	info, ok := rl.clients[ip]
	if !ok {
		info = &clientInfo{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[ip] = info
	}
	info.lastSeen = now
	rl.mu.Unlock()

	return info.limiter.AllowN(now, 1)
}

// retryAfter is the number of whole seconds until one token is available
func (rl *RateLimiter) retryAfter() int {
	return int(math.Max(1, math.Ceil(1/float64(rl.limit))))
}

// RateLimit returns a middleware handler that limits requests per client IP.
// Idle clients are cleaned up until ctx is done.
func RateLimit(ctx context.Context, cfg config.RateLimitConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	limiter := NewRateLimiter(cfg.RequestsPerSecond, cfg.Burst)
	go limiter.Run(ctx)

	logger.Default().Debug("rate limiter initialized",
		logger.Float64("rps", cfg.RequestsPerSecond),
		logger.Int("burst", cfg.Burst),
	)

	return rateLimitMiddleware(limiter)
}

func rateLimitMiddleware(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get client IP (handles X-Forwarded-For for reverse proxies)
		ip := c.ClientIP()

		if !limiter.allow(ip, time.Now()) {
			logger.FromContext(c.Request.Context()).Warn("rate limit exceeded",
				logger.String("client_ip", ip),
				logger.Float64("rps", float64(limiter.limit)),
				logger.Int("burst", limiter.burst),
			)

			c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.burst))
			c.Header("X-RateLimit-Remaining", "0")
			apierror.WriteProblem(c, apierror.NewRateLimitError(apierror.GetRequestID(c), limiter.retryAfter()))
			return
		}

		c.Next()
	}
}
