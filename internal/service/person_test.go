package service

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"personscrud/internal/config"
	"personscrud/internal/database"
	"personscrud/internal/errs"
	"personscrud/internal/repository"
	"personscrud/internal/server"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPersonService(t *testing.T) *PersonService {
	t.Helper()

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Path:            filepath.Join(t.TempDir(), "test.db"),
			BusyTimeout:     5000,
			MaxOpenConns:    5,
			MaxIdleConns:    5,
			ConnMaxLifetime: 3600,
			ConnMaxIdleTime: 600,
		},
	}

	logger := zerolog.Nop()
	db, err := database.New(cfg, &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(context.Background(), &logger, db.DB))

	s := &server.Server{Config: cfg, Logger: &logger, DB: db}
	repos := repository.NewRepositories(s)

	services, err := NewServices(s, repos)
	require.NoError(t, err)
	return services.Person
}

func TestCreateNormalizesInput(t *testing.T) {
	svc := testPersonService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, repository.PersonInput{
		FirstName: "  Ana ",
		LastName:  " García",
		DNI:       " 12345678A ",
		Address:   "Calle Mayor 1  ",
	})
	require.NoError(t, err)

	p, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ana", p.FirstName)
	assert.Equal(t, "García", p.LastName)
	assert.Equal(t, "12345678A", p.DNI)
	assert.Equal(t, "Calle Mayor 1", p.Address)
}

func TestUpdateMissingIsNotFound(t *testing.T) {
	svc := testPersonService(t)

	err := svc.Update(context.Background(), 42, repository.PersonInput{
		FirstName: "Nadie",
		LastName:  "Nadie",
		DNI:       "00000000X",
		Address:   "Ninguna",
	})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Person not found", httpErr.Message)
}

func TestDeleteMissingIsNotFound(t *testing.T) {
	svc := testPersonService(t)

	err := svc.Delete(context.Background(), 42)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
}

func TestExportCSV(t *testing.T) {
	svc := testPersonService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, repository.PersonInput{
		FirstName: "Ana",
		LastName:  "García",
		DNI:       "12345678A",
		Address:   "Calle Mayor 1",
	})
	require.NoError(t, err)

	data, err := svc.ExportCSV(ctx)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id,firstName,lastName,dni,address", lines[0])
	assert.Contains(t, lines[1], "Ana")
	assert.Contains(t, lines[1], "12345678A")
}

func TestExportCSVEmptyTable(t *testing.T) {
	svc := testPersonService(t)

	data, err := svc.ExportCSV(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "id,firstName,lastName,dni,address", strings.TrimSpace(string(data)))
}
