package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimitRule bounds request counts per client over a fixed window.
type RateLimitRule struct {
	Max    int
	Window time.Duration
}

// RateLimiter tracks per-key fixed windows. Entries whose window has elapsed
// are treated as empty on next access; Sweep removes them for memory bound.
type RateLimiter struct {
	mu      sync.Mutex
	rule    RateLimitRule
	windows map[string]*window
	now     func() time.Time
}

type window struct {
	start time.Time
	count int
}

// NewRateLimiter builds a limiter for one rule. The now func is injectable
// for tests; pass nil for time.Now.
func NewRateLimiter(rule RateLimitRule, now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{
		rule:    rule,
		windows: make(map[string]*window),
		now:     now,
	}
}

// Allow records one request for key and reports whether it is within the
// limit. When rejected, retryAfter is the remainder of the current window.
func (l *RateLimiter) Allow(key string) (bool, time.Duration) {
	if l == nil || l.rule.Max <= 0 || l.rule.Window <= 0 {
		return true, 0
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.rule.Window {
		l.windows[key] = &window{start: now, count: 1}
		return true, 0
	}
	if w.count < l.rule.Max {
		w.count++
		return true, 0
	}
	return false, l.rule.Window - now.Sub(w.start)
}

// Sweep drops windows that have fully elapsed. Correctness does not depend on
// it; it only bounds memory under client-address churn.
func (l *RateLimiter) Sweep() {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, w := range l.windows {
		if now.Sub(w.start) >= l.rule.Window {
			delete(l.windows, key)
		}
	}
}

// StartJanitor sweeps stale windows periodically until ctx is done.
func (l *RateLimiter) StartJanitor(ctx interface{ Done() <-chan struct{} }, every time.Duration) {
	if every <= 0 {
		return
	}
	t := time.NewTicker(every)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				l.Sweep()
			}
		}
	}()
}

// RateLimit rejects requests over the limiter's rule, keyed by client IP.
func RateLimit(limiter *RateLimiter, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.ClientIP())
		allowed, retryAfter := limiter.Allow(key)
		if allowed {
			c.Next()
			return
		}
		retryAfterMs := int(retryAfter / time.Millisecond)
		if retryAfterMs <= 0 {
			retryAfterMs = 1000
		}
		retryAfterSeconds := int(math.Ceil(float64(retryAfterMs) / 1000.0))
		if retryAfterSeconds <= 0 {
			retryAfterSeconds = 1
		}
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"success":        false,
			"error":          "rate_limited",
			"message":        message,
			"retry_after_ms": retryAfterMs,
		})
	}
}
