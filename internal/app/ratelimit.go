package app

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyellow/casmate/internal/config"
	"github.com/garyellow/casmate/internal/metrics"
	"github.com/garyellow/casmate/internal/ratelimit"
)

// newChatLimiter returns nil when cfg turns rate limiting off.
func newChatLimiter(cfg *config.Config, m *metrics.Metrics) *ratelimit.ClientLimiter {
	if cfg.ChatRatePerMinute <= 0 {
		return nil
	}
	l := ratelimit.NewClientLimiter(ratelimit.ClientConfig{
		Burst:         cfg.ChatBurst,
		RefillRate:    ratelimit.PerMinute(cfg.ChatRatePerMinute),
		CleanupPeriod: config.RateLimiterCleanup,
	})
	if m != nil {
		l.OnDrop(m.RecordRateLimited)
		l.OnUpdate(m.SetRateLimitedClients)
	}
	return l
}

// rateLimitMiddleware refuses clients that exceed their chat budget with 429
// and a Retry-After header in whole seconds.
func rateLimitMiddleware(l *ratelimit.ClientLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil {
			c.Next()
			return
		}
		ok, wait := l.Allow(c.ClientIP())
		if ok {
			c.Next()
			return
		}
		if wait > 0 {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
		}
		abortWithError(c, http.StatusTooManyRequests, "rate_limited",
			"too many messages, please wait "+wait.Round(time.Second).String()+" and try again")
	}
}
