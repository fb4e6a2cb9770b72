package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"personscrud/internal/server"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runMiddleware(t *testing.T, mw echo.MiddlewareFunc, headers map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/persons", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	require.NoError(t, handler(c))
	return c, rec
}

func TestRequestIDGeneratesWhenAbsent(t *testing.T) {
	c, rec := runMiddleware(t, RequestID(), nil)

	id := GetRequestID(c)
	require.NotEmpty(t, id)
	assert.Equal(t, id, rec.Header().Get(RequestIDHeader))

	_, err := uuid.Parse(id)
	assert.NoError(t, err)
}

func TestRequestIDReusesHeader(t *testing.T) {
	c, rec := runMiddleware(t, RequestID(), map[string]string{
		RequestIDHeader: "upstream-id",
	})

	assert.Equal(t, "upstream-id", GetRequestID(c))
	assert.Equal(t, "upstream-id", rec.Header().Get(RequestIDHeader))
}

func TestGetRequestIDWithoutMiddleware(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	assert.Empty(t, GetRequestID(c))
}

func TestEnhanceContextStoresLogger(t *testing.T) {
	logger := zerolog.Nop()
	ce := NewContextEnhancer(&server.Server{Logger: &logger})

	c, _ := runMiddleware(t, ce.EnhanceContext(), nil)

	require.NotNil(t, GetLogger(c))
	assert.NotNil(t, c.Request().Context().Value(LoggerKey))
}

func TestGetLoggerFallsBackToNop(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	assert.NotNil(t, GetLogger(c))
}
