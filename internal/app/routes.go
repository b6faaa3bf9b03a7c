package app

import (
	"github.com/labstack/echo/v4"

	"github.com/openclintech/patient-registry/internal/httpapi/handlers"
)

func registerRoutes(e *echo.Echo, d Deps) {
	// Root
	e.GET("/", handlers.Root)

	// Health
	e.GET("/ping", handlers.Ping)

	fhirGroup := e.Group("/fhir")

	patients := handlers.NewPatientHandler(d.PatientStore, d.Validator, d.Logger)

	// FHIR Metadata
	fhirGroup.GET("/metadata", handlers.Metadata(patients.Routes()))

	// FHIR Patient
	patients.RegisterRoutes(fhirGroup)
}
