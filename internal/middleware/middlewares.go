package middleware

import (
	"personscrud/internal/server"
)

// Middlewares groups all middleware components used by the HTTP server,
// so router setup receives one object instead of many.
type Middlewares struct {
	// Global holds common middleware used across the whole API:
	// CORS, request logging, recovery, secure headers, and the global
	// error handler.
	Global *GlobalMiddlewares

	// ContextEnhancer enriches each request with a request-scoped logger
	// (request_id, method, path, ip).
	ContextEnhancer *ContextEnhancer

	// RateLimit enforces a per-client request rate.
	RateLimit *RateLimitMiddleware
}

// NewMiddlewares constructs all middleware components using the
// application container.
func NewMiddlewares(s *server.Server) *Middlewares {
	return &Middlewares{
		Global:          NewGlobalMiddlewares(s),
		ContextEnhancer: NewContextEnhancer(s),
		RateLimit:       NewRateLimitMiddleware(s),
	}
}
