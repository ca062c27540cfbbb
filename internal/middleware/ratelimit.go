package middleware

import (
	"log"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/calmworks/stillness/backend/pkg/utils"
)

// RateLimit returns a fixed-window per-client limiter backed by Redis,
// applied before any turn work happens. Redis being unreachable fails
// open: losing the limiter must not take the product down.
func RateLimit(client *redis.Client, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "ratelimit:" + clientKey(r)

			count, err := client.Incr(r.Context(), key).Result()
			if err != nil {
				log.Printf("[ratelimit] redis unavailable, failing open: %v", err)
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				if err := client.Expire(r.Context(), key, window).Err(); err != nil {
					log.Printf("[ratelimit] failed to set window on %s: %v", key, err)
				}
			}

			if count > int64(limit) {
				utils.RespondError(w, http.StatusTooManyRequests, "too many requests, slow down")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientKey buckets requests by client IP. RealIP middleware runs first,
// so RemoteAddr already reflects forwarding headers.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
