package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/dtroode/emotion-log/internal/api/http/response"
	"github.com/dtroode/emotion-log/internal/apierrors"
	"github.com/dtroode/emotion-log/internal/logger"
)

const (
	limiterIdleTTL    = 10 * time.Minute
	limiterMaxEntries = 10000
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit throttles requests per client IP with a token bucket.
// The client IP is taken from r.RemoteAddr, so chi's RealIP must run first behind a proxy.
type RateLimit struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	rate     rate.Limit
	burst    int
	now      func() time.Time
	logger   *logger.Logger
}

// NewRateLimit allows perSecond requests per IP with the given burst.
func NewRateLimit(perSecond float64, burst int, logger *logger.Logger) *RateLimit {
	if burst < 1 {
		burst = 1
	}
	return &RateLimit{
		limiters: make(map[string]*limiterEntry),
		rate:     rate.Limit(perSecond),
		burst:    burst,
		now:      time.Now,
		logger:   logger,
	}
}

// Handle responds 429 once the caller's bucket is empty.
func (l *RateLimit) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !l.allow(ip) {
			l.logger.Warn("Rate limit exceeded", "ip", ip, "path", r.URL.Path)
			w.Header().Set("Retry-After", "1")
			response.Error(w, l.logger, apierrors.NewErrRateLimited())
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *RateLimit) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry, ok := l.limiters[ip]
	if !ok {
		if len(l.limiters) >= limiterMaxEntries {
			l.evictLocked(now)
		}
		entry = &limiterEntry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[ip] = entry
	}
	entry.lastSeen = now

	return entry.limiter.AllowN(now, 1)
}

// evictLocked drops idle limiters, or all of them when none are idle.
func (l *RateLimit) evictLocked(now time.Time) {
	for ip, entry := range l.limiters {
		if now.Sub(entry.lastSeen) > limiterIdleTTL {
			delete(l.limiters, ip)
		}
	}
	if len(l.limiters) >= limiterMaxEntries {
		l.limiters = make(map[string]*limiterEntry)
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
