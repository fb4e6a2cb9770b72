package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"personscrud/internal/config"
	"personscrud/internal/database"
	"personscrud/internal/errs"
	"personscrud/internal/handler"
	"personscrud/internal/middleware"
	"personscrud/internal/repository"
	"personscrud/internal/router"
	"personscrud/internal/server"
	"personscrud/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRouter assembles the full HTTP stack (middleware, router,
// handlers, services, repositories) against a throwaway database, so
// tests exercise exactly what production serves.
func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()

	cfg := &config.Config{
		Primary: config.Primary{Env: "local"},
		Server: config.ServerConfig{
			Port:               "0",
			ReadTimeout:        15,
			WriteTimeout:       15,
			IdleTimeout:        60,
			CORSAllowedOrigins: []string{"*"},
			RateLimit:          1000,
			RateBurst:          1000,
		},
		Database: config.DatabaseConfig{
			Path:            filepath.Join(t.TempDir(), "test.db"),
			BusyTimeout:     5000,
			MaxOpenConns:    5,
			MaxIdleConns:    5,
			ConnMaxLifetime: 3600,
			ConnMaxIdleTime: 600,
		},
		Observability: &config.ObservabilityConfig{
			ServiceName: "persons-crud",
			Environment: "local",
			Logging: config.LoggingConfig{
				Level:  "error",
				Format: "json",
			},
			HealthChecks: config.HealthChecksConfig{
				Enabled:  true,
				Interval: 30 * time.Second,
				Timeout:  5 * time.Second,
				Checks:   []string{"database"},
			},
		},
	}

	logger := zerolog.Nop()
	db, err := database.New(cfg, &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(context.Background(), &logger, db.DB))

	s := &server.Server{Config: cfg, Logger: &logger, DB: db}

	repos := repository.NewRepositories(s)
	services, err := service.NewServices(s, repos)
	require.NoError(t, err)

	handlers := handler.NewHandlers(s, services)
	middlewares := middleware.NewMiddlewares(s)

	return router.New(s, handlers, middlewares)
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func createPerson(t *testing.T, e *echo.Echo, dni string) int64 {
	t.Helper()
	body := fmt.Sprintf(`{"firstName":"Ana","lastName":"García","dni":%q,"address":"Calle Mayor 1"}`, dni)
	rec := doJSON(e, http.MethodPost, "/persons", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Positive(t, resp.ID)
	return resp.ID
}

func TestCreatePerson(t *testing.T) {
	e := newTestRouter(t)

	id := createPerson(t, e, "12345678A")
	assert.EqualValues(t, 1, id)
}

func TestCreatePersonValidation(t *testing.T) {
	e := newTestRouter(t)

	rec := doJSON(e, http.MethodPost, "/persons", `{"firstName":"Ana"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Validation failed", resp.Message)

	fields := make([]string, 0, len(resp.Errors))
	for _, fe := range resp.Errors {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"lastname", "dni", "address"}, fields)
}

func TestCreatePersonDuplicateDNI(t *testing.T) {
	e := newTestRouter(t)

	createPerson(t, e, "12345678A")

	body := `{"firstName":"Luis","lastName":"Pérez","dni":"12345678A","address":"Avenida Sur 2"}`
	rec := doJSON(e, http.MethodPost, "/persons", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "PERSON_ALREADY_EXISTS", resp.Code)
	assert.True(t, resp.Override)
}

func TestListPersons(t *testing.T) {
	e := newTestRouter(t)

	rec := doJSON(e, http.MethodGet, "/persons", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))

	createPerson(t, e, "11111111A")
	createPerson(t, e, "22222222B")

	rec = doJSON(e, http.MethodGet, "/persons", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var persons []repository.Person
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &persons))
	require.Len(t, persons, 2)
	assert.Equal(t, "11111111A", persons[0].DNI)
	assert.Equal(t, "22222222B", persons[1].DNI)
}

func TestGetPerson(t *testing.T) {
	e := newTestRouter(t)
	id := createPerson(t, e, "12345678A")

	rec := doJSON(e, http.MethodGet, fmt.Sprintf("/persons/%d", id), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var p repository.Person
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, id, p.ID)
	assert.Equal(t, "Ana", p.FirstName)
	assert.Equal(t, "12345678A", p.DNI)
}

func TestGetPersonNotFound(t *testing.T) {
	e := newTestRouter(t)

	rec := doJSON(e, http.MethodGet, "/persons/42", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Person not found", resp.Message)
}

func TestUpdatePerson(t *testing.T) {
	e := newTestRouter(t)
	id := createPerson(t, e, "12345678A")

	body := `{"firstName":"Ana María","lastName":"García","dni":"12345678A","address":"Calle Nueva 9"}`
	rec := doJSON(e, http.MethodPut, fmt.Sprintf("/persons/%d", id), body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Person updated"}`, rec.Body.String())

	rec = doJSON(e, http.MethodGet, fmt.Sprintf("/persons/%d", id), "")
	var p repository.Person
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "Ana María", p.FirstName)
	assert.Equal(t, "Calle Nueva 9", p.Address)
}

func TestUpdatePersonNotFound(t *testing.T) {
	e := newTestRouter(t)

	body := `{"firstName":"Nadie","lastName":"Nadie","dni":"00000000X","address":"Ninguna"}`
	rec := doJSON(e, http.MethodPut, "/persons/42", body)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeletePerson(t *testing.T) {
	e := newTestRouter(t)
	id := createPerson(t, e, "12345678A")

	rec := doJSON(e, http.MethodDelete, fmt.Sprintf("/persons/%d", id), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Person deleted"}`, rec.Body.String())

	rec = doJSON(e, http.MethodDelete, fmt.Sprintf("/persons/%d", id), "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportPersonsCSV(t *testing.T) {
	e := newTestRouter(t)
	createPerson(t, e, "12345678A")

	rec := doJSON(e, http.MethodGet, "/persons/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "persons.csv")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id,firstName,lastName,dni,address", lines[0])
}

func TestUnknownRoute(t *testing.T) {
	e := newTestRouter(t)

	rec := doJSON(e, http.MethodGet, "/nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Route not found", resp.Message)
}

func TestHealthEndpoint(t *testing.T) {
	e := newTestRouter(t)

	rec := doJSON(e, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
}

func TestRequestIDPropagation(t *testing.T) {
	e := newTestRouter(t)

	// Generated when absent.
	rec := doJSON(e, http.MethodGet, "/persons", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	// Reused when supplied.
	req := httptest.NewRequest(http.MethodGet, "/persons", nil)
	req.Header.Set("X-Request-ID", "test-correlation-id")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "test-correlation-id", rec.Header().Get("X-Request-ID"))
}
