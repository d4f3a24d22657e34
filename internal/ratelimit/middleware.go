package ratelimit

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// KeyFunc picks the bucket a request is charged to.
type KeyFunc func(r *http.Request) string

// Limiter hands out one token bucket per key. Buckets idle for longer than
// the cache TTL are forgotten.
type Limiter struct {
	cache    *expirable.LRU[string, *rate.Limiter]
	interval time.Duration
	burst    int
}

func New(interval time.Duration, burst int, cacheSize int, ttl time.Duration) *Limiter {
	return &Limiter{
		cache:    expirable.NewLRU[string, *rate.Limiter](cacheSize, nil, ttl),
		interval: interval,
		burst:    burst,
	}
}

// PerMinute builds a limiter allowing n requests per minute with the given burst.
func PerMinute(n, burst int) *Limiter {
	if n <= 0 {
		n = 1
	}
	return New(time.Minute/time.Duration(n), burst, 10000, time.Hour)
}

func (l *Limiter) get(key string) *rate.Limiter {
	limiter, exists := l.cache.Get(key)
	if !exists {
		limiter = rate.NewLimiter(rate.Every(l.interval), l.burst)
		l.cache.Add(key, limiter)
	}
	return limiter
}

// Allow takes a token for key. When none is available it returns how long
// the caller should wait.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	reservation := l.get(key).Reserve()
	if !reservation.OK() {
		return false, l.interval
	}
	if delay := reservation.Delay(); delay > 0 {
		reservation.Cancel()
		return false, delay
	}
	return true, 0
}

// Middleware rejects requests over the limit with 429 and Retry-After.
func (l *Limiter) Middleware(key KeyFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, wait := l.Allow(key(r))
			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"rate limit exceeded"}`))
				return
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.burst))
			next.ServeHTTP(w, r)
		})
	}
}

// RemoteAddr keys by client IP.
func RemoteAddr(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
