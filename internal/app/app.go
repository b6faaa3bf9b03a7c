package app

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/openclintech/patient-registry/internal/fhir"
	"github.com/openclintech/patient-registry/internal/httpapi/middleware"
	"github.com/openclintech/patient-registry/internal/httpapi/respond"
	"github.com/openclintech/patient-registry/internal/storage"
)

type Deps struct {
	PatientStore storage.PatientStore
	Validator    fhir.Validator
	Logger       zerolog.Logger

	// Zero values fall back to 15s and "1M".
	RequestTimeout time.Duration
	BodyLimit      string
}

func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = respond.JSONSerializer{}
	e.HTTPErrorHandler = errorHandler(d.Logger)

	timeout := d.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	limit := d.BodyLimit
	if limit == "" {
		limit = "1M"
	}

	// Middlewares (outermost -> innermost). Logging wraps Recover so a
	// panicking request still gets its request line with status 500.
	e.Use(middleware.RequestID())
	e.Use(middleware.Logging(d.Logger))
	e.Use(middleware.Recover(d.Logger))
	e.Use(middleware.RequestTimeout(timeout))
	e.Use(echomw.BodyLimit(limit))

	e.Server.ReadTimeout = timeout

	registerRoutes(e, d)

	return e
}

// errorHandler renders every error echo surfaces (unknown route, 405, body
// limit, recovered panics) with the same {error, details} body the handlers
// use.
func errorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := http.StatusText(status)
		details := ""

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			message = http.StatusText(status)
			if m, ok := he.Message.(string); ok && m != "" {
				details = m
			} else if he.Message != nil {
				details = fmt.Sprint(he.Message)
			}
		} else {
			logger.Error().Err(err).Str("request_id", middleware.GetRequestID(c)).Msg("unhandled error")
		}

		e := respond.FormatError(status, message, details)
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(e.Status)
		} else {
			err = c.JSON(e.Status, e.Body)
		}
		if err != nil {
			logger.Error().Err(err).Msg("write error response")
		}
	}
}
