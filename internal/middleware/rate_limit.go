package middleware

import (
	"net/http"
	"time"

	"github.com/arusops/arus/internal/ratelimit"
	pkghttp "github.com/arusops/arus/pkg/http"
	"github.com/go-chi/httprate"
)

// RateLimitByIP creates a router-level middleware that throttles all requests
// by client IP. This is a coarse backstop above the per-operation buckets.
func RateLimitByIP(requestsPerMinute int) func(next http.Handler) http.Handler {
	return httprate.Limit(
		requestsPerMinute,
		1*time.Minute,
		httprate.WithKeyByRealIP(),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			pkghttp.WriteTooManyRequests(w, "Rate limit exceeded")
		}),
	)
}

// RateLimitByOperation throttles one named operation per client IP using the
// shared token bucket limiter. Keys look like "login:203.0.113.7" so login
// and register attempts drain independent buckets.
func RateLimitByOperation(limiter *ratelimit.Limiter, operation string, ipConfig *pkghttp.IPConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := pkghttp.ExtractClientIP(r, ipConfig)

			if !limiter.Allow(operation + ":" + ip) {
				pkghttp.WriteTooManyRequests(w, "Too many attempts. Please try again later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
