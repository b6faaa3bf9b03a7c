package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/openclintech/patient-registry/internal/fhir"
	"github.com/openclintech/patient-registry/internal/httpapi/respond"
)

// Metadata serves a CapabilityStatement at GET /fhir/metadata describing the
// given Patient routes. Routes without an interaction code are listed as
// operations.
func Metadata(routes []Route) echo.HandlerFunc {
	interactions := make([]any, 0, len(routes))
	operations := make([]any, 0)
	for _, r := range routes {
		switch {
		case r.Interaction != "":
			interactions = append(interactions, map[string]any{"code": r.Interaction})
		case r.Operation != "":
			operations = append(operations, map[string]any{
				"name":       r.Operation,
				"definition": r.Method + " " + r.Path,
			})
		}
	}

	resource := map[string]any{
		"type":        fhir.ResourceTypePatient,
		"interaction": interactions,
	}
	if len(operations) > 0 {
		resource["operation"] = operations
	}

	return func(c echo.Context) error {
		cs := map[string]any{
			"resourceType": "CapabilityStatement",
			"status":       "active",
			"date":         time.Now().UTC().Format(time.RFC3339),
			"kind":         "instance",
			"fhirVersion":  "4.0.1",
			"format":       []string{"json"},
			"rest": []any{
				map[string]any{
					"mode":     "server",
					"resource": []any{resource},
				},
			},
		}
		return respond.FHIR(c, http.StatusOK, cs)
	}
}
