package middlewares

import (
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long a client's bucket survives without requests.
const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	limiters  = make(map[string]*clientLimiter)
	lastSweep time.Time
	mu        sync.Mutex

	limiterNow = time.Now
)

func getLimiter(key string, r rate.Limit, b int) *rate.Limiter {
	mu.Lock()
	defer mu.Unlock()

	now := limiterNow()
	if now.Sub(lastSweep) >= limiterIdleTTL {
		sweepLimiters(now)
	}

	// the same client key can hit limits of different size
	key = fmt.Sprintf("%s|%v|%d", key, r, b)
	entry, exists := limiters[key]
	if !exists {
		entry = &clientLimiter{limiter: rate.NewLimiter(r, b)}
		limiters[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

// sweepLimiters drops idle buckets. Callers hold mu.
func sweepLimiters(now time.Time) {
	for key, entry := range limiters {
		if now.Sub(entry.lastSeen) >= limiterIdleTTL {
			delete(limiters, key)
		}
	}
	lastSweep = now
}

// PerMinute allows n requests a minute with bursts of up to n.
func PerMinute(n int, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return RateLimitMiddleware(rate.Every(time.Minute/time.Duration(n)), n, keyFunc)
}

func RateLimitMiddleware(r rate.Limit, b int, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c)
		limiter := getLimiter(key, r, b)

		if !limiter.Allow() {
			c.AbortWithStatusJSON(429, gin.H{"error": "Too many requests. Please slow down"})
			return
		}

		c.Next()
	}
}

// RouteClientKey limits each client per route.
func RouteClientKey(c *gin.Context) string {
	return c.FullPath() + ":" + c.ClientIP()
}

// ClientKey limits each client across every route sharing the limiter.
func ClientKey(c *gin.Context) string {
	return c.ClientIP()
}
