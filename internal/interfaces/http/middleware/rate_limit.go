package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/bell24h/supplierrisk/internal/application/dto"
	"github.com/bell24h/supplierrisk/internal/config"
	"github.com/bell24h/supplierrisk/pkg/errors"
	"github.com/bell24h/supplierrisk/pkg/logger"
)

const rateLimitScopeClient = "client_ip"

// RateLimitRecorder counts rejected requests.
type RateLimitRecorder interface {
	RecordRateLimitHit(scope string)
}

// RateLimiter keeps one token bucket per client IP. Buckets of clients that stay quiet
// for idleTTL expire from the cache.
// RateLimiter 为每个客户端 IP 维护一个令牌桶。
type RateLimiter struct {
	buckets *cache.Cache
	limit   rate.Limit
	burst   int
	now     func() time.Time
}

const defaultBucketIdleTTL = 10 * time.Minute

// NewRateLimiter creates a limiter allowing rpm requests per minute per client with the given burst.
func NewRateLimiter(rpm, burst int) *RateLimiter {
	return newRateLimiter(rpm, burst, defaultBucketIdleTTL)
}

func newRateLimiter(rpm, burst int, idleTTL time.Duration) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		buckets: cache.New(idleTTL, idleTTL),
		limit:   rate.Limit(float64(rpm) / 60.0),
		burst:   burst,
		now:     time.Now,
	}
}

// Allow reports whether the client may issue one more request now.
func (rl *RateLimiter) Allow(clientID string) bool {
	return rl.bucket(clientID).AllowN(rl.now(), 1)
}

// bucket returns the client's limiter and slides its expiry forward.
func (rl *RateLimiter) bucket(clientID string) *rate.Limiter {
	if v, ok := rl.buckets.Get(clientID); ok {
		lim := v.(*rate.Limiter)
		rl.buckets.SetDefault(clientID, lim)
		return lim
	}
	lim := rate.NewLimiter(rl.limit, rl.burst)
	if err := rl.buckets.Add(clientID, lim, cache.DefaultExpiration); err != nil {
		// lost the race to another request from the same client
		if v, ok := rl.buckets.Get(clientID); ok {
			return v.(*rate.Limiter)
		}
	}
	return lim
}

// RateLimit rejects requests over the per-client budget with 429.
func RateLimit(limiter *RateLimiter, cfg *config.RateLimitConfig, recorder RateLimitRecorder, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg == nil || !cfg.Enabled || limiter == nil {
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		if !limiter.Allow(clientIP) {
			log.Warn(c.Request.Context(), "Rate limit exceeded",
				logger.String("client_ip", clientIP),
				logger.Int("limit_rpm", cfg.DefaultRPM),
			)
			if recorder != nil {
				recorder.RecordRateLimitHit(rateLimitScopeClient)
			}
			dto.SendError(c, errors.ErrRateLimitExceeded(rateLimitScopeClient))
			return
		}
		c.Next()
	}
}
