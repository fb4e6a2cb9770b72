package repository

import (
	"personscrud/internal/server"
)

// Repositories is the container for all repository instances. It keeps
// router/service wiring down to a single object.
type Repositories struct {
	Person *PersonRepository
}

// NewRepositories constructs the repository container from the shared
// application container (the database handle lives on s.DB).
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Person: NewPersonRepository(s),
	}
}
