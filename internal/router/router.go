// Package router initializes the HTTP router (using echo).
//
// It registers the middleware stack and defines the API route groups,
// mapping paths to their corresponding handlers.
package router

import (
	"personscrud/internal/handler"
	"personscrud/internal/middleware"
	"personscrud/internal/server"

	"github.com/labstack/echo/v4"
)

// New assembles the echo router: global middleware in order, the global
// error handler, and all route groups.
//
// Middleware order matters: RequestID must run before the context
// enhancer (which stamps the id into the request logger), and the
// request logger before anything that can short-circuit.
func New(s *server.Server, h *handler.Handlers, m *middleware.Middlewares) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = m.Global.GlobalErrorHandler

	e.Use(
		m.Global.Recover(),
		middleware.RequestID(),
		m.ContextEnhancer.EnhanceContext(),
		m.Global.RequestLogger(),
		m.Global.CORS(),
		m.Global.Secure(),
		m.RateLimit.Limit(),
	)

	registerPersonRoutes(e, h)
	registerSystemRoutes(e, h)

	return e
}
