package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"strings"

	"personscrud/internal/errs"
	"personscrud/internal/repository"
	"personscrud/internal/server"
)

// PersonService implements the person business operations on top of the
// person repository.
type PersonService struct {
	server *server.Server
	repos  *repository.Repositories
}

// NewPersonService constructs a PersonService.
func NewPersonService(s *server.Server, repos *repository.Repositories) *PersonService {
	return &PersonService{
		server: s,
		repos:  repos,
	}
}

// normalize trims surrounding whitespace from every writable field so
// " 12345678A" and "12345678A" are the same DNI.
func normalize(input repository.PersonInput) repository.PersonInput {
	return repository.PersonInput{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		DNI:       strings.TrimSpace(input.DNI),
		Address:   strings.TrimSpace(input.Address),
	}
}

// Create inserts a new person and returns its id. Duplicate DNIs bubble
// up as driver constraint errors and are mapped by the global error
// handler.
func (s *PersonService) Create(ctx context.Context, input repository.PersonInput) (int64, error) {
	return s.repos.Person.Create(ctx, normalize(input))
}

// List returns all persons.
func (s *PersonService) List(ctx context.Context) ([]repository.Person, error) {
	return s.repos.Person.List(ctx)
}

// Get returns the person with the given id, or a not-found error.
func (s *PersonService) Get(ctx context.Context, id int64) (repository.Person, error) {
	return s.repos.Person.GetByID(ctx, id)
}

// Update overwrites the person with the given id. Updating a missing id
// is a 404, derived from the rows-affected count.
func (s *PersonService) Update(ctx context.Context, id int64, input repository.PersonInput) error {
	affected, err := s.repos.Person.Update(ctx, id, normalize(input))
	if err != nil {
		return err
	}
	if affected == 0 {
		return errs.NewNotFoundError("Person not found", true, nil)
	}
	return nil
}

// Delete removes the person with the given id. Deleting a missing id is
// a 404.
func (s *PersonService) Delete(ctx context.Context, id int64) error {
	affected, err := s.repos.Person.Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return errs.NewNotFoundError("Person not found", true, nil)
	}
	return nil
}

// ExportCSV renders all persons as a CSV document with a header row,
// in the same column order as the table.
func (s *PersonService) ExportCSV(ctx context.Context) ([]byte, error) {
	persons, err := s.repos.Person.List(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	records := [][]string{{"id", "firstName", "lastName", "dni", "address"}}
	for _, p := range persons {
		records = append(records, []string{
			strconv.FormatInt(p.ID, 10),
			p.FirstName,
			p.LastName,
			p.DNI,
			p.Address,
		})
	}

	if err := w.WriteAll(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
