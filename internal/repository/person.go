package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"personscrud/internal/server"
)

// Person is a row of the person table as it is served to clients.
// The wire format uses camelCase field names.
type Person struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	DNI       string `json:"dni"`
	Address   string `json:"address"`
}

// PersonInput carries the writable person fields for inserts and updates.
type PersonInput struct {
	FirstName string
	LastName  string
	DNI       string
	Address   string
}

// PersonRepository performs person table operations against the shared
// connection pool.
type PersonRepository struct {
	db *sql.DB
}

// NewPersonRepository constructs a PersonRepository from the application
// container.
func NewPersonRepository(s *server.Server) *PersonRepository {
	return &PersonRepository{db: s.DB.DB}
}

// Create inserts a new person and returns its assigned rowid.
// A duplicate DNI surfaces as a driver constraint error for sqlerr to map.
func (r *PersonRepository) Create(ctx context.Context, input PersonInput) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO person (first_name, last_name, dni, address) VALUES (?, ?, ?, ?)`,
		input.FirstName, input.LastName, input.DNI, input.Address,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// List returns all persons ordered by id.
func (r *PersonRepository) List(ctx context.Context) ([]Person, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, first_name, last_name, dni, address FROM person ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Non-nil so an empty table serializes as [] rather than null.
	persons := []Person{}
	for rows.Next() {
		var p Person
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.DNI, &p.Address); err != nil {
			return nil, err
		}
		persons = append(persons, p)
	}
	return persons, rows.Err()
}

// GetByID returns the person with the given id.
//
// A missing row is wrapped with the "table:person:" hint so the global
// error handler can phrase the 404 per-entity.
func (r *PersonRepository) GetByID(ctx context.Context, id int64) (Person, error) {
	var p Person
	err := r.db.QueryRowContext(ctx,
		`SELECT id, first_name, last_name, dni, address FROM person WHERE id = ?`, id,
	).Scan(&p.ID, &p.FirstName, &p.LastName, &p.DNI, &p.Address)
	if errors.Is(err, sql.ErrNoRows) {
		return Person{}, fmt.Errorf("table:person: %w", sql.ErrNoRows)
	}
	return p, err
}

// Update overwrites all writable fields of the person with the given id
// and reports how many rows matched. Zero means the id does not exist.
func (r *PersonRepository) Update(ctx context.Context, id int64, input PersonInput) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE person SET first_name = ?, last_name = ?, dni = ?, address = ? WHERE id = ?`,
		input.FirstName, input.LastName, input.DNI, input.Address, id,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Delete removes the person with the given id and reports how many rows
// were deleted.
func (r *PersonRepository) Delete(ctx context.Context, id int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM person WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
