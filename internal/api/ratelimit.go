package api

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/toptenapp/topten-server/internal/http/response"
	"github.com/toptenapp/topten-server/internal/ratelimit"
)

// RateLimiter limits inbound requests per client IP.
type RateLimiter = ratelimit.KeyedRateLimiter

// NewRateLimiter allows ratePerInterval requests per interval with the given burst,
// tracking at most maxClients clients at once.
// For example 60 per minute is one request per second.
func NewRateLimiter(ratePerInterval int, interval time.Duration, burst, maxClients int) *RateLimiter {
	rps := float64(ratePerInterval) / interval.Seconds()
	rl := ratelimit.New(rps, burst)
	rl.SetMaxKeys(maxClients)
	return rl
}

// RateLimitMiddleware rate limits requests by client IP.
// Returns 429 Too Many Requests when limit is exceeded.
func RateLimitMiddleware(limiter *RateLimiter, trustProxy bool, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r, trustProxy)

			if !limiter.Allow(key) {
				logger.Warn("Rate limit exceeded",
					"ip", key,
					"path", r.URL.Path,
				)
				w.Header().Set("Retry-After", "1")
				response.TooManyRequests(w, "Too many requests. Please try again later.", logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP returns the peer address of the request. X-Forwarded-For and
// X-Real-IP are only consulted when trustProxy is set, since any client can
// send them.
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			return xri
		}
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
