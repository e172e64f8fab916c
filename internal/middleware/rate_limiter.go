package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Joe-Bills/moto-spares-manager/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const evictInterval = 5 * time.Minute

// ipLimiter keeps one token bucket per client IP. Buckets idle for longer
// than idle are dropped by evict, which a background ticker runs.
type ipLimiter struct {
	name  string
	limit rate.Limit
	burst int
	idle  time.Duration

	mu       sync.Mutex
	visitors map[string]*visitor
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPLimiter(name string, limit rate.Limit, burst int, idle time.Duration) *ipLimiter {
	return &ipLimiter{
		name:     name,
		limit:    limit,
		burst:    burst,
		idle:     idle,
		visitors: make(map[string]*visitor),
	}
}

// allow takes one token for ip. When none is available it reports how long
// the caller should wait.
func (l *ipLimiter) allow(ip string, now time.Time) (bool, time.Duration) {
	l.mu.Lock()
	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	l.mu.Unlock()

	res := v.limiter.ReserveN(now, 1)
	if !res.OK() {
		return false, l.idle
	}
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// evict drops buckets not used since now-idle and returns how many went.
func (l *ipLimiter) evict(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for ip, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.idle {
			delete(l.visitors, ip)
			n++
		}
	}
	return n
}

func (l *ipLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

func (l *ipLimiter) runEviction(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for now := range ticker.C {
		if n := l.evict(now); n > 0 {
			log.Debug().
				Str("limiter", l.name).
				Int("evicted", n).
				Int("remaining", l.size()).
				Msg("rate limiter buckets evicted")
		}
	}
}

func (l *ipLimiter) handler(message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, wait := l.allow(c.ClientIP(), time.Now())
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(message))
			return
		}
		c.Next()
	}
}

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	l := newIPLimiter("login", rate.Every(time.Minute/20), 20, time.Minute)
	go l.runEviction(evictInterval)
	return l.handler("Too many login attempts. Try again in a minute.")
}

// RateLimiter allows limit requests per window per IP, refilled evenly
// across the window.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	l := newIPLimiter("api", rate.Every(window/time.Duration(limit)), limit, window)
	go l.runEviction(evictInterval)
	return l.handler("Request was throttled. Try again shortly.")
}
