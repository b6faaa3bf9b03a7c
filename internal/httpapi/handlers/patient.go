package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/openclintech/patient-registry/internal/fhir"
	"github.com/openclintech/patient-registry/internal/httpapi/middleware"
	"github.com/openclintech/patient-registry/internal/httpapi/respond"
	"github.com/openclintech/patient-registry/internal/storage"
)

const patientPath = "/fhir/Patient"

// PatientHandler serves /fhir/Patient. The store never sees a body the
// validator has not accepted.
type PatientHandler struct {
	store     storage.PatientStore
	validator fhir.Validator
	log       zerolog.Logger
}

func NewPatientHandler(store storage.PatientStore, validator fhir.Validator, logger zerolog.Logger) *PatientHandler {
	return &PatientHandler{store: store, validator: validator, log: logger}
}

// Route is one Patient endpoint. Interaction is the FHIR RESTful interaction
// code it implements; Operation names endpoints that have no standard code.
type Route struct {
	Method      string
	Path        string
	Interaction string
	Operation   string
	Handler     echo.HandlerFunc
}

// Routes lists every endpoint RegisterRoutes mounts, in registration order.
func (h *PatientHandler) Routes() []Route {
	return []Route{
		{Method: http.MethodPost, Path: "/Patient", Interaction: "create", Handler: h.Create},
		{Method: http.MethodGet, Path: "/Patient", Interaction: "search-type", Handler: h.Search},
		{Method: http.MethodGet, Path: "/Patient/_ids", Operation: "_ids", Handler: h.ListIDs},
		{Method: http.MethodGet, Path: "/Patient/:id", Interaction: "read", Handler: h.Read},
		{Method: http.MethodPut, Path: "/Patient/:id", Interaction: "update", Handler: h.Update},
		{Method: http.MethodDelete, Path: "/Patient/:id", Interaction: "delete", Handler: h.Delete},
	}
}

func (h *PatientHandler) RegisterRoutes(g *echo.Group) {
	for _, r := range h.Routes() {
		g.Add(r.Method, r.Path, r.Handler)
	}
}

// Create handles POST /fhir/Patient.
func (h *PatientHandler) Create(c echo.Context) error {
	body, err := decodeBody(c)
	if err != nil {
		return respond.Error(c, http.StatusBadRequest, "invalid JSON body", err.Error())
	}

	patient, err := h.validator.ValidateForCreate(body)
	if err != nil {
		return h.rejected(c, err)
	}

	id, record := h.store.Create(patient)
	h.log.Info().Int("id", id).Str("request_id", middleware.GetRequestID(c)).Msg("patient created")

	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("%s/%d", patientPath, id))
	return respond.FHIR(c, http.StatusCreated, record)
}

// Read handles GET /fhir/Patient/:id.
func (h *PatientHandler) Read(c echo.Context) error {
	id, ok := fhir.ParseID(c.Param("id"))
	if !ok {
		return respond.Error(c, http.StatusBadRequest, fhir.MsgURLIDInvalid)
	}

	record, ok := h.store.Read(id)
	if !ok {
		return respond.Error(c, http.StatusNotFound, "not found", fmt.Sprintf("Patient/%d", id))
	}
	return respond.FHIR(c, http.StatusOK, record)
}

// Update handles PUT /fhir/Patient/:id. The body is validated before the
// existence check, so a malformed request gets 400/422 even when the target is
// missing.
func (h *PatientHandler) Update(c echo.Context) error {
	body, err := decodeBody(c)
	if err != nil {
		return respond.Error(c, http.StatusBadRequest, "invalid JSON body", err.Error())
	}

	patient, err := h.validator.ValidateForUpdate(body, c.Param("id"))
	if err != nil {
		return h.rejected(c, err)
	}

	// ValidateForUpdate has already checked the id.
	id, _ := fhir.ParseID(c.Param("id"))
	if _, ok := h.store.Read(id); !ok {
		return respond.Error(c, http.StatusNotFound, "not found", fmt.Sprintf("Patient/%d", id))
	}

	h.store.Update(id, patient)
	h.log.Info().Int("id", id).Str("request_id", middleware.GetRequestID(c)).Msg("patient updated")

	record, ok := h.store.Read(id)
	if !ok {
		// Removed between the update and this read.
		return respond.Error(c, http.StatusNotFound, "not found", fmt.Sprintf("Patient/%d", id))
	}
	return respond.FHIR(c, http.StatusOK, record)
}

// Delete handles DELETE /fhir/Patient/:id.
func (h *PatientHandler) Delete(c echo.Context) error {
	id, ok := fhir.ParseID(c.Param("id"))
	if !ok {
		return respond.Error(c, http.StatusBadRequest, fhir.MsgURLIDInvalid)
	}

	if _, ok := h.store.Read(id); !ok {
		return respond.Error(c, http.StatusNotFound, "not found", fmt.Sprintf("Patient/%d", id))
	}

	h.store.Remove(id)
	h.log.Info().Int("id", id).Str("request_id", middleware.GetRequestID(c)).Msg("patient deleted")
	return respond.NoContent(c)
}

// Search handles GET /fhir/Patient and returns every stored Patient as a
// searchset Bundle in id order.
func (h *PatientHandler) Search(c echo.Context) error {
	ids := h.store.ListIDs()

	entries := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		record, ok := h.store.Read(id)
		if !ok {
			continue
		}
		entries = append(entries, map[string]any{
			"fullUrl":  fmt.Sprintf("%s/%d", patientPath, id),
			"resource": record,
		})
	}

	bundle := map[string]any{
		"resourceType": "Bundle",
		"type":         "searchset",
		"total":        len(entries),
		"entry":        entries,
	}
	return respond.FHIR(c, http.StatusOK, bundle)
}

// ListIDs handles GET /fhir/Patient/_ids.
func (h *PatientHandler) ListIDs(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"ids": h.store.ListIDs()})
}

func (h *PatientHandler) rejected(c echo.Context, err error) error {
	var ve *fhir.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("validate patient: %w", err)
	}
	h.log.Debug().
		Int("status", ve.Status).
		Str("reason", ve.Message).
		Str("request_id", middleware.GetRequestID(c)).
		Msg("patient rejected")
	return respond.Error(c, ve.Status, ve.Message)
}

// decodeBody reads the request body as arbitrary JSON. Shape checks are left
// to the validator so that a non-object body is reported by it.
func decodeBody(c echo.Context) (any, error) {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, err
	}
	return body, nil
}
