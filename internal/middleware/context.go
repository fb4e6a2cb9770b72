package middleware

import (
	"context"

	"personscrud/internal/server"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// LoggerKey is the key used to store the request-scoped logger in both
// the echo context and the Go request context.
const LoggerKey = "logger"

// ContextEnhancer enriches each request with a request-scoped logger
// carrying correlation fields:
//   - request_id
//   - method, path (route template, not raw URL), ip
//
// The logger is stored in the echo context for handlers and in the Go
// request context for code that only sees a context.Context.
type ContextEnhancer struct {
	server *server.Server
}

// NewContextEnhancer constructs the enhancer.
func NewContextEnhancer(s *server.Server) *ContextEnhancer {
	return &ContextEnhancer{server: s}
}

// EnhanceContext returns the middleware. It must run after RequestID so
// the correlation ID is available.
func (ce *ContextEnhancer) EnhanceContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := GetRequestID(c)

			contextLogger := ce.server.Logger.With().
				Str("request_id", requestID).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("ip", c.RealIP()).
				Logger()

			c.Set(LoggerKey, &contextLogger)

			ctx := context.WithValue(c.Request().Context(), LoggerKey, &contextLogger)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// GetLogger retrieves the request-scoped logger from the echo context.
// If the enhancer did not run it returns a no-op logger instead of nil,
// so callers never have to guard.
func GetLogger(c echo.Context) *zerolog.Logger {
	if logger, ok := c.Get(LoggerKey).(*zerolog.Logger); ok {
		return logger
	}

	logger := zerolog.Nop()
	return &logger
}
