package middleware

import (
	"net"
	"net/http"

	"github.com/careers-intake-api/internal/pkg/ratelimit"
)

const tooManyRequestsBody = `{"success":false,"message":"Too many requests. Please try again later."}`

// LimitByIP enforces a rate-limit tier keyed by the client network address.
// Mount chi's RealIP middleware first so proxied requests key on the
// originating address.
func LimitByIP(tier *ratelimit.Tier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !tier.Allow(clientIP(r)) {
				writeTooMany(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LimitGlobal enforces the shared submission ceiling across all clients.
func LimitGlobal(ceiling *ratelimit.Ceiling) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !ceiling.Allow() {
				writeTooMany(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeTooMany(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_, _ = w.Write([]byte(tooManyRequestsBody))
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
