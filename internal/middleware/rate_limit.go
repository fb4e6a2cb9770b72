package middleware

import (
	"time"

	"personscrud/internal/server"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// RateLimitMiddleware enforces a per-client-IP request rate using
// echo's in-memory token bucket store. For a single-binary deployment
// there is no shared store to coordinate with, so in-memory is exact.
type RateLimitMiddleware struct {
	server *server.Server
}

// NewRateLimitMiddleware constructs the rate limiter component.
func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{server: s}
}

// Limit returns the enforcement middleware. Sustained rate and burst
// come from server config; idle client buckets expire after three
// minutes to bound memory.
func (r *RateLimitMiddleware) Limit() echo.MiddlewareFunc {
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(r.server.Config.Server.RateLimit),
			Burst:     r.server.Config.Server.RateBurst,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			GetLogger(c).Warn().
				Str("identifier", identifier).
				Str("path", c.Path()).
				Msg("rate limit exceeded")
			return echo.ErrTooManyRequests
		},
	})
}
