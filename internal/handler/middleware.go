package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/tournament-stats-service/pkg/response"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// RequestLogger writes one access log line per request at a level derived from the status.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	l := logger.With().Str("module", "http").Str("component", "access").Logger()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := l.Info()
		switch {
		case status >= http.StatusInternalServerError:
			ev = l.Error()
		case status >= http.StatusBadRequest:
			ev = l.Warn()
		}
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		ev = ev.Str("method", c.Request.Method).
			Str("route", route).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP())
		if len(c.Errors) > 0 {
			ev = ev.Str("errors", c.Errors.String())
		}
		ev.Msg("request")
	}
}

// limiterIdleTTL is how long a client's bucket survives without writes.
const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// ipLimiter hands out one token bucket per client address and drops buckets
// that stayed idle for longer than ttl.
type ipLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*clientLimiter
	rate      rate.Limit
	burst     int
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func newIPLimiter(rps float64, burst int, ttl time.Duration) *ipLimiter {
	return &ipLimiter{
		limiters: make(map[string]*clientLimiter),
		rate:     rate.Limit(rps),
		burst:    burst,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (l *ipLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	l.sweep(now)
	if c, ok := l.limiters[ip]; ok {
		c.lastSeen = now
		return c.lim
	}
	c := &clientLimiter{lim: rate.NewLimiter(l.rate, l.burst), lastSeen: now}
	l.limiters[ip] = c
	return c.lim
}

// sweep runs at most once per ttl; callers hold mu.
func (l *ipLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.ttl {
		return
	}
	l.lastSweep = now
	for ip, c := range l.limiters {
		if now.Sub(c.lastSeen) >= l.ttl {
			delete(l.limiters, ip)
		}
	}
}

func (l *ipLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// RateLimit throttles mutating requests per client IP. Reads are never limited.
// A non-positive rps disables the middleware.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst < 1 {
		burst = 1
	}
	limiter := newIPLimiter(rps, burst, limiterIdleTTL)
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		if !limiter.get(c.ClientIP()).Allow() {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, response.ErrorPayload{Error: "rate_limited", Message: "too many write requests"})
			return
		}
		c.Next()
	}
}
