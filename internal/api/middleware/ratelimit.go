package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/phrazzld/tasker-api/internal/api/shared"
	"github.com/phrazzld/tasker-api/internal/platform/logger"
	"github.com/phrazzld/tasker-api/internal/redact"
	"github.com/redis/go-redis/v9"
)

// WindowCounter counts hits on key within a fixed window.
type WindowCounter interface {
	// Incr increments key and returns the count in the current window.
	// The window starts at the first hit.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// windowIncrScript increments the counter and starts its window in one
// atomic step. A key left without a TTL is given one on the next hit so it
// cannot block a client forever.
var windowIncrScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 or redis.call('PTTL', KEYS[1]) < 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return n
`)

// RedisCounter is a WindowCounter backed by Redis.
type RedisCounter struct {
	client *redis.Client
}

// NewRedisCounter creates a RedisCounter on client.
func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client}
}

// Incr implements WindowCounter.
func (c *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	n, err := windowIncrScript.Run(ctx, c.client, []string{key}, window.Milliseconds()).Int64()
	if err != nil {
		return 0, err
	}
	return n, nil
}

// RateLimiter is a fixed-window, per-client-IP limiter. It fails open: if
// the counter is unavailable, requests pass.
type RateLimiter struct {
	counter     WindowCounter
	maxRequests int64
	window      time.Duration
	metrics     *Metrics
}

// NewRateLimiter creates a RateLimiter allowing maxRequests per window.
// A nil counter disables limiting; a nil metrics disables recording.
func NewRateLimiter(counter WindowCounter, maxRequests int, window time.Duration, metrics *Metrics) *RateLimiter {
	return &RateLimiter{
		counter:     counter,
		maxRequests: int64(maxRequests),
		window:      window,
		metrics:     metrics,
	}
}

// Limit applies the limiter to next; endpoint labels the metrics.
func (l *RateLimiter) Limit(endpoint string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if l.counter == nil {
				next.ServeHTTP(w, r)
				return
			}

			key := "rl:" + strconv.FormatInt(int64(l.window.Seconds()), 10) + ":" + clientIP(r)
			count, err := l.counter.Incr(r.Context(), key, l.window)
			if err != nil {
				logger.FromContextOrDefault(r.Context(), slog.Default()).
					Warn("rate limiter unavailable, allowing request", "error", redact.Error(err))
				w.Header().Set("X-RateLimit-Error", "counter-error")
				next.ServeHTTP(w, r)
				return
			}

			if count > l.maxRequests {
				if l.metrics != nil {
					l.metrics.rateLimitBlocked.WithLabelValues(endpoint).Inc()
				}
				w.Header().Set("Retry-After", strconv.FormatInt(int64(l.window.Seconds()), 10))
				shared.RespondWithErrorAndLog(w, r, http.StatusTooManyRequests, "Rate limit exceeded", nil)
				return
			}

			if l.metrics != nil {
				l.metrics.rateLimitSeen.WithLabelValues(endpoint).Inc()
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP returns the host part of RemoteAddr, which chi's RealIP
// middleware has already rewritten from proxy headers.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
