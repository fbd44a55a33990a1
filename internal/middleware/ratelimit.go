package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/config"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/pkg/utils"
)

// IPRateLimiter throttles each client IP with its own token bucket. Idle
// buckets expire so the table stays bounded.
type IPRateLimiter struct {
	mu       sync.Mutex
	limiters *cache.Cache
	rate     rate.Limit
	burst    int
}

// NewIPRateLimiter creates a per-IP limiter from config.
func NewIPRateLimiter(cfg config.RateLimitConfig) *IPRateLimiter {
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &IPRateLimiter{
		limiters: cache.New(10*time.Minute, 5*time.Minute),
		rate:     rate.Limit(cfg.RequestsPerSecond),
		burst:    burst,
	}
}

// Limiter returns the bucket of one IP, creating it on first use.
func (l *IPRateLimiter) Limiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if x, found := l.limiters.Get(ip); found {
		limiter := x.(*rate.Limiter)
		l.limiters.Set(ip, limiter, cache.DefaultExpiration)
		return limiter
	}
	limiter := rate.NewLimiter(l.rate, l.burst)
	l.limiters.Set(ip, limiter, cache.DefaultExpiration)
	return limiter
}

// Middleware rejects requests over the limit with 429.
func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Limiter(clientIP(r)).Allow() {
			w.Header().Set("Retry-After", "1")
			utils.RespondError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP relies on chi's RealIP middleware having rewritten RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
