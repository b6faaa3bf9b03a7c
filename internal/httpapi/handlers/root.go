package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"ok": true,
		"paths": []string{
			"/ping",
			"/fhir/metadata",
			"/fhir/Patient (POST create, GET search)",
			"/fhir/Patient/_ids (GET list ids)",
			"/fhir/Patient/{id} (GET read, PUT update, DELETE delete)",
		},
	})
}
