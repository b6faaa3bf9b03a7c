package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestTimeout_SetsDeadline(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/fhir/Patient", nil), rec)

	var deadline time.Time
	var hasDeadline bool
	h := RequestTimeout(5 * time.Second)(func(c echo.Context) error {
		deadline, hasDeadline = c.Request().Context().Deadline()
		return c.String(http.StatusOK, "ok")
	})

	require.NoError(t, h(c))
	assert.True(t, hasDeadline)
	assert.WithinDuration(t, time.Now().Add(5*time.Second), deadline, time.Second)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestTimeout_ExpiredHandlerGets503(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/fhir/Patient", nil), httptest.NewRecorder())

	h := RequestTimeout(20 * time.Millisecond)(func(c echo.Context) error {
		select {
		case <-time.After(2 * time.Second):
			return c.String(http.StatusOK, "late")
		case <-c.Request().Context().Done():
			return c.Request().Context().Err()
		}
	})

	err := h(c)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusServiceUnavailable, he.Code)
}

func TestRequestTimeout_CommittedResponseIsLeftAlone(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	h := RequestTimeout(time.Millisecond)(func(c echo.Context) error {
		<-c.Request().Context().Done()
		return c.String(http.StatusOK, "written anyway")
	})

	require.NoError(t, h(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, context.DeadlineExceeded, c.Request().Context().Err())
}
