package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig holds configuration for the rate limit middleware.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained per-client rate.
	RequestsPerSecond float64
	// BurstSize is the bucket depth.
	BurstSize int
	// KeyFunc extracts the client key; nil selects ClientIP.
	KeyFunc func(r *http.Request) string
	// SkipPaths bypass limiting.
	SkipPaths []string
	// IdleTTL evicts limiters unused for this long.
	IdleTTL time.Duration
}

// ClientIP keys requests by remote host.  chi's RealIP middleware has
// already folded X-Forwarded-For / X-Real-IP into RemoteAddr.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientLimiter holds one token bucket per client key.
type ClientLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time

	// lastSweep bounds eviction scans to one per idleTTL.
	lastSweep time.Time
}

// NewClientLimiter creates a limiter admitting rps requests per second per
// client with the given burst.
func NewClientLimiter(rps float64, burst int, idleTTL time.Duration) *ClientLimiter {
	if burst < 1 {
		burst = 1
	}
	if idleTTL <= 0 {
		idleTTL = 10 * time.Minute
	}
	return &ClientLimiter{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Limit(rps),
		burst:   burst,
		idleTTL: idleTTL,
		now:     time.Now,
	}
}

// Reserve takes a token for key.  It returns whether the request is
// admitted, the whole tokens left, and the wait before the next token.
func (l *ClientLimiter) Reserve(key string) (bool, int, time.Duration) {
	now := l.now()

	l.mu.Lock()
	c, ok := l.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now
	if now.Sub(l.lastSweep) >= l.idleTTL {
		l.evictLocked(now)
		l.lastSweep = now
	}
	l.mu.Unlock()

	if c.limiter.AllowN(now, 1) {
		return true, int(math.Floor(c.limiter.TokensAt(now))), 0
	}
	wait := time.Duration(float64(time.Second) / float64(l.limit))
	return false, 0, wait
}

// evictLocked drops idle clients.  Callers hold l.mu.
func (l *ClientLimiter) evictLocked(now time.Time) {
	for k, c := range l.clients {
		if now.Sub(c.lastSeen) > l.idleTTL {
			delete(l.clients, k)
		}
	}
}

// Clients returns the number of tracked clients.
func (l *ClientLimiter) Clients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// RateLimit returns middleware that answers 429 once a client exhausts its
// bucket.  A non-positive RequestsPerSecond disables limiting.
func RateLimit(config RateLimitConfig) func(http.Handler) http.Handler {
	if config.RequestsPerSecond <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	limiter := NewClientLimiter(config.RequestsPerSecond, config.BurstSize, config.IdleTTL)
	skipSet := make(map[string]bool, len(config.SkipPaths))
	for _, p := range config.SkipPaths {
		skipSet[p] = true
	}
	keyFunc := config.KeyFunc
	if keyFunc == nil {
		keyFunc = ClientIP
	}
	limitStr := strconv.Itoa(limiter.burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipSet[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			allowed, remaining, wait := limiter.Reserve(keyFunc(r))
			w.Header().Set("X-RateLimit-Limit", limitStr)
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if !allowed {
				retryAfter := int(math.Ceil(wait.Seconds()))
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"code":"COMMON_007","message":"rate limit exceeded"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

//Personal.AI order the ending
