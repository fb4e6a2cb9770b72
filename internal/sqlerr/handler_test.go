package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"personscrud/internal/errs"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// personDB opens an in-memory database with the person schema, so tests
// can trigger genuine driver errors instead of hand-built ones.
func personDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE person (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		dni TEXT NOT NULL UNIQUE,
		address TEXT NOT NULL
	)`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO person (first_name, last_name, dni, address)
		VALUES ('Ana', 'García', '12345678A', 'Calle Mayor 1')`)
	require.NoError(t, err)

	return db
}

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	return httpErr
}

func TestHandleErrorUniqueViolation(t *testing.T) {
	db := personDB(t)

	_, err := db.Exec(`INSERT INTO person (first_name, last_name, dni, address)
		VALUES ('Luis', 'Pérez', '12345678A', 'Avenida Sur 2')`)
	require.Error(t, err)

	httpErr := asHTTPError(t, HandleError(err))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "PERSON_ALREADY_EXISTS", httpErr.Code)
	assert.Equal(t, "A Person with this Dni already exists", httpErr.Message)
	assert.True(t, httpErr.Override)
}

func TestHandleErrorNotNullViolation(t *testing.T) {
	db := personDB(t)

	_, err := db.Exec(`INSERT INTO person (first_name, last_name, dni, address)
		VALUES (NULL, 'Pérez', '87654321B', 'Avenida Sur 2')`)
	require.Error(t, err)

	httpErr := asHTTPError(t, HandleError(err))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "PERSON_REQUIRED", httpErr.Code)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "first_name", httpErr.Errors[0].Field)
	assert.Equal(t, "is required", httpErr.Errors[0].Error)
}

func TestHandleErrorNoRowsWithTableHint(t *testing.T) {
	err := fmt.Errorf("table:person: %w", sql.ErrNoRows)

	httpErr := asHTTPError(t, HandleError(err))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Person not found", httpErr.Message)
	assert.True(t, httpErr.Override)
}

func TestHandleErrorNoRowsWithoutHint(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(sql.ErrNoRows))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Resource not found", httpErr.Message)
}

func TestHandleErrorPassesThroughHTTPError(t *testing.T) {
	original := errs.NewNotFoundError("Person not found", true, nil)
	assert.Same(t, original, HandleError(original).(*errs.HTTPError))
}

func TestHandleErrorUnknownError(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(errors.New("disk exploded")))
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	// Internal details must not leak to clients.
	assert.NotContains(t, httpErr.Message, "disk")
}

func TestParseConstraintTarget(t *testing.T) {
	tests := []struct {
		message string
		table   string
		column  string
	}{
		{"UNIQUE constraint failed: person.dni", "person", "dni"},
		{"NOT NULL constraint failed: person.first_name", "person", "first_name"},
		{"UNIQUE constraint failed: person.dni, person.id", "person", "dni"},
		{"FOREIGN KEY constraint failed", "", ""},
		{"something else entirely", "", ""},
	}

	for _, tt := range tests {
		table, column := parseConstraintTarget(tt.message)
		assert.Equal(t, tt.table, table, tt.message)
		assert.Equal(t, tt.column, column, tt.message)
	}
}

func TestGenerateErrorCode(t *testing.T) {
	assert.Equal(t, "PERSON_ALREADY_EXISTS", generateErrorCode("person", UniqueViolation))
	assert.Equal(t, "PERSON_REQUIRED", generateErrorCode("person", NotNullViolation))
	assert.Equal(t, "USER_NOT_FOUND", generateErrorCode("users", ForeignKeyViolation))
	assert.Equal(t, "RECORD_ERROR", generateErrorCode("", Other))
}

func TestErrCode(t *testing.T) {
	db := personDB(t)

	_, err := db.Exec(`INSERT INTO person (first_name, last_name, dni, address)
		VALUES ('Luis', 'Pérez', '12345678A', 'Avenida Sur 2')`)
	require.Error(t, err)

	var sqliteErr sqlite3.Error
	require.ErrorAs(t, err, &sqliteErr)

	converted := ConvertSqliteError(sqliteErr)
	assert.Equal(t, UniqueViolation, ErrCode(converted))
	assert.Equal(t, "person", converted.TableName)
	assert.Equal(t, "dni", converted.ColumnName)

	assert.Equal(t, Other, ErrCode(errors.New("plain")))
}
