package httpx

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/credstack/authd/pkg/slogx"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines token-bucket parameters for an endpoint group.
type RateLimitConfig struct {
	// RequestsPerWindow is the sustained number of requests allowed per Window.
	RequestsPerWindow int
	// Window is the averaging window for the sustained rate.
	Window time.Duration
	// Burst is the number of requests that may arrive back to back.
	Burst int
}

// Endpoint profiles. Strict guards unauthenticated write paths such as
// registration; Lenient suits authenticated traffic.
var (
	StrictLimit = RateLimitConfig{
		RequestsPerWindow: 10,
		Window:            time.Minute,
		Burst:             10,
	}

	ModerateLimit = RateLimitConfig{
		RequestsPerWindow: 30,
		Window:            time.Minute,
		Burst:             30,
	}

	LenientLimit = RateLimitConfig{
		RequestsPerWindow: 100,
		Window:            time.Minute,
		Burst:             100,
	}
)

// keyedLimiter holds one token bucket per key (normally per client IP).
type keyedLimiter struct {
	limiters sync.Map // map[string]*rate.Limiter
	rate     rate.Limit
	burst    int

	mu          sync.Mutex
	lastSweep   time.Time
	sweepPeriod time.Duration
}

func (kl *keyedLimiter) get(key string) *rate.Limiter {
	if l, ok := kl.limiters.Load(key); ok {
		return l.(*rate.Limiter)
	}

	l, _ := kl.limiters.LoadOrStore(key, rate.NewLimiter(kl.rate, kl.burst))
	kl.maybeSweep()
	return l.(*rate.Limiter)
}

// maybeSweep drops buckets that have refilled completely, which means the key
// has been idle for at least a full window. Keeps the map from growing
// without bound under churning client IPs.
func (kl *keyedLimiter) maybeSweep() {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	if time.Since(kl.lastSweep) < kl.sweepPeriod {
		return
	}
	kl.lastSweep = time.Now()

	kl.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).Tokens() >= float64(kl.burst) {
			kl.limiters.Delete(key)
		}
		return true
	})
}

// RateLimitByIP rate-limits requests per client IP with the given profile.
// Over-limit requests get a 429 with a Retry-After hint.
func RateLimitByIP(cfg RateLimitConfig) Middleware {
	kl := &keyedLimiter{
		rate:        rate.Limit(float64(cfg.RequestsPerWindow) / cfg.Window.Seconds()),
		burst:       cfg.Burst,
		lastSweep:   time.Now(),
		sweepPeriod: 5 * time.Minute,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := ClientIP(r)
			limiter := kl.get(key)

			if !limiter.Allow() {
				res := limiter.Reserve()
				delay := res.Delay()
				res.Cancel()

				retryAfter := max(int(delay.Seconds()), 1)
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

				slogx.FromContext(r.Context()).Warn("rate limit exceeded",
					"key", key,
					"endpoint", r.URL.Path,
					"retry_after", retryAfter,
				)

				WriteJSON(w, http.StatusTooManyRequests, map[string]string{
					"error":  "rate_limited",
					"detail": "Too many requests. Please try again later.",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
