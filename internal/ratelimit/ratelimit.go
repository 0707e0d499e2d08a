// Package ratelimit provides a fixed-window per-client HTTP rate limiter.
package ratelimit

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"copysmith/internal/metrics"
)

// maxEntries bounds the window map. When the map is full, expired windows
// are evicted before a new client is admitted.
const maxEntries = 10000

type window struct {
	count   int
	resetAt time.Time
}

// Limiter applies a fixed-window limit keyed by client IP.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window

	limit  int
	period time.Duration
	now    func() time.Time
}

// New creates a Limiter that allows limit requests per period per client.
func New(limit int, period time.Duration) *Limiter {
	return &Limiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		now:     time.Now,
	}
}

// Allow records a request for key and reports whether it is within the
// limit. The second return value is how long until the window resets, for
// the Retry-After header.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || now.After(w.resetAt) {
		if !ok && len(l.windows) >= maxEntries {
			l.evictExpired(now)
			if len(l.windows) >= maxEntries {
				// Still full of live windows. Refuse rather than grow
				// without bound.
				return false, l.period
			}
		}
		w = &window{resetAt: now.Add(l.period)}
		l.windows[key] = w
	}

	w.count++
	if w.count > l.limit {
		return false, w.resetAt.Sub(now)
	}
	return true, 0
}

// evictExpired removes windows whose reset time has passed. Caller holds mu.
func (l *Limiter) evictExpired(now time.Time) {
	for key, w := range l.windows {
		if now.After(w.resetAt) {
			delete(l.windows, key)
		}
	}
}

// Middleware rejects over-limit requests with 429 and a Retry-After header.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, retryAfter := l.Allow(clientIP(r))
		if !ok {
			metrics.RateLimitedTotal.Inc()
			seconds := int(retryAfter.Seconds())
			if seconds < 1 {
				seconds = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]string{"error": "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the client address, trusting X-Forwarded-For when
// present since the server is expected to sit behind a proxy.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		for i := 0; i < len(fwd); i++ {
			if fwd[i] == ',' {
				return fwd[:i]
			}
		}
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
