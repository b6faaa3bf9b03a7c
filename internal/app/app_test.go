package app_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclintech/patient-registry/internal/app"
	"github.com/openclintech/patient-registry/internal/storage/memory"
)

func newApp() http.Handler {
	return app.New(app.Deps{
		PatientStore: memory.NewPatientStore(),
		Logger:       zerolog.Nop(),
	})
}

func TestApp_RoutesSmoke(t *testing.T) {
	h := newApp()

	for _, path := range []string{"/", "/ping", "/fhir/metadata", "/fhir/Patient", "/fhir/Patient/_ids"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, "GET %s body=%s", path, rec.Body.String())
		assert.NotEmpty(t, rec.Header().Get("X-Request-Id"), "GET %s", path)
	}
}

func TestApp_UnknownRouteUsesErrorBody(t *testing.T) {
	h := newApp()

	req := httptest.NewRequest(http.MethodGet, "/fhir/Observation", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not Found","details":"Not Found"}`, rec.Body.String())
}

func TestApp_MethodNotAllowed(t *testing.T) {
	h := newApp()

	req := httptest.NewRequest(http.MethodPatch, "/fhir/Patient/1", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"Method Not Allowed"`)
}

func TestApp_CreateThenRead(t *testing.T) {
	h := newApp()

	body := `{"resourceType":"Patient","name":"Ana","gender":"female","birthDate":"1985-07-30"}`
	req := httptest.NewRequest(http.MethodPost, "/fhir/Patient", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/fhir/Patient/1", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t,
		`{"resourceType":"Patient","name":[{"text":"Ana"}],"gender":"female","birthDate":"1985-07-30","identifier":[{"value":"1"}]}`,
		rec.Body.String())
}

func TestApp_BodyLimit(t *testing.T) {
	h := app.New(app.Deps{
		PatientStore: memory.NewPatientStore(),
		Logger:       zerolog.Nop(),
		BodyLimit:    "16B",
	})

	body := `{"resourceType":"Patient","name":"a very long name indeed"}`
	req := httptest.NewRequest(http.MethodPost, "/fhir/Patient", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestApp_PanicIsLoggedAsRequest(t *testing.T) {
	var buf bytes.Buffer
	e := app.New(app.Deps{
		PatientStore: memory.NewPatientStore(),
		Logger:       zerolog.New(&buf),
	})
	e.GET("/boom", func(echo.Context) error { panic("kaboom") })

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set("X-Request-Id", "req-42")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error","details":"internal server error"}`, rec.Body.String())

	var requestLine map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(line, &entry), string(line))
		if entry["message"] == "request" {
			requestLine = entry
		}
	}
	require.NotNil(t, requestLine, "no request line in %s", buf.String())
	assert.Equal(t, float64(http.StatusInternalServerError), requestLine["status"])
	assert.Equal(t, "req-42", requestLine["request_id"])
	assert.Equal(t, "/boom", requestLine["path"])
	assert.Contains(t, requestLine, "latency")
}
