// Package middleware provides the HTTP middleware of the galeria server.
package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/galeria/pkg/cache"
	"github.com/shashiranjanraj/galeria/pkg/response"
)

// bucket tracks a fixed-window request count for one client.
type bucket struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

func (b *bucket) allow(max int, window time.Duration) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	if now.After(b.resetAt) {
		b.count = 0
		b.resetAt = now.Add(window)
	}

	b.count++
	return b.count <= max
}

// limiter holds the in-process buckets used when Redis is unavailable.
type limiter struct {
	name    string
	max     int
	window  time.Duration
	mu      sync.Mutex
	buckets map[string]*bucket
	lastGC  time.Time
}

func (l *limiter) allow(r *http.Request) bool {
	key := "rate:" + l.name + ":" + ClientIP(r)
	if n, ok := cache.Hit(r.Context(), key, l.window); ok {
		return n <= int64(l.max)
	}
	return l.local(key).allow(l.max, l.window)
}

func (l *limiter) local(key string) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastGC) > time.Minute {
		for k, b := range l.buckets {
			b.mu.Lock()
			expired := now.After(b.resetAt)
			b.mu.Unlock()
			if expired {
				delete(l.buckets, k)
			}
		}
		l.lastGC = now
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{resetAt: now.Add(l.window)}
		l.buckets[key] = b
	}
	return b
}

// RateLimit limits each client IP to max requests per window. Counters live in
// Redis when it is connected so every replica shares them.
//
//	middleware.RateLimit("checkout", 10, time.Minute)
func RateLimit(name string, max int, window time.Duration) func(http.Handler) http.Handler {
	l := &limiter{name: name, max: max, window: window, buckets: map[string]*bucket{}}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.allow(r) {
				w.Header().Set("Retry-After", window.String())
				response.Error(w, http.StatusTooManyRequests, "Demasiadas solicitudes, intenta de nuevo en un momento")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP returns the first X-Forwarded-For hop, or the remote address.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
