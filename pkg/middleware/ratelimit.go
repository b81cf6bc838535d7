package middleware

import (
	"net/http"
	"time"

	"opentalk/pkg/utils"

	"github.com/go-chi/httprate"
)

// RateLimit throttles requests per client IP. Keeps unthrottled code
// guessing off the table without a per-phone lockout counter.
func RateLimit(config utils.RateLimitConfig) func(http.Handler) http.Handler {
	limit := config.RequestsPerMinute
	if limit <= 0 {
		limit = 300
	}
	return httprate.LimitByIP(limit, time.Minute)
}
