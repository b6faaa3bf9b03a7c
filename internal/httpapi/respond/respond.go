package respond

import (
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
)

const MIMEApplicationFHIRJSON = "application/fhir+json"

// FHIR writes v as an application/fhir+json response.
func FHIR(c echo.Context, status int, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	return c.Blob(status, MIMEApplicationFHIRJSON, b)
}

// Error writes a FormatError payload as application/json.
func Error(c echo.Context, status int, message string, details ...string) error {
	e := FormatError(status, message, details...)
	return c.JSON(e.Status, e.Body)
}

// NoContent writes an empty 204.
func NoContent(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}
