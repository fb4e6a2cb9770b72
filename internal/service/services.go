package service

import (
	"personscrud/internal/repository"
	"personscrud/internal/server"
)

// Services is the container for all service instances.
type Services struct {
	Person *PersonService
}

// NewServices constructs the service container on top of the repository
// container.
func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return &Services{
		Person: NewPersonService(s, repos),
	}, nil
}
