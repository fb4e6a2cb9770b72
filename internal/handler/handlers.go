package handler

import (
	"personscrud/internal/server"
	"personscrud/internal/service"
)

// Handlers is the container that groups all HTTP handlers, so router
// setup passes one object around instead of many.
type Handlers struct {
	Health *HealthHandler // liveness/readiness endpoint
	Person *PersonHandler // person CRUD endpoints
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health: NewHealthHandler(s),
		Person: NewPersonHandler(s, services),
	}
}
