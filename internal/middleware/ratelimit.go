package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type client struct {
	lastSeen time.Time
	count    int
}

// In-memory, per-process store. Uploads are few and large, so the default budget is low.
var (
	clients         = make(map[string]*client)
	window          = time.Minute
	limit           = 60
	lastSweep       time.Time
	rateLimiterLock sync.Mutex
)

// evictStale drops clients idle for longer than window, at most once per
// window. Callers hold rateLimiterLock.
func evictStale(now time.Time) {
	if now.Sub(lastSweep) < window {
		return
	}
	for ip, cl := range clients {
		if now.Sub(cl.lastSeen) > window {
			delete(clients, ip)
		}
	}
	lastSweep = now
}

// RateLimiter limits the number of requests per client IP to `limit` per `window`
// and answers 429 Too Many Requests beyond that.
func RateLimiter() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		rateLimiterLock.Lock()
		evictStale(now)
		cl, ok := clients[ip]
		if !ok || now.Sub(cl.lastSeen) > window {
			cl = &client{lastSeen: now, count: 1}
			clients[ip] = cl
		} else {
			cl.count++
			cl.lastSeen = now
		}
		exceeded := cl.count > limit
		rateLimiterLock.Unlock()

		if exceeded {
			AbortWithError(c, http.StatusTooManyRequests, "rate limit exceeded", nil)
			return
		}

		c.Next()
	}
}
