package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestTimeout puts a deadline on each request context. The handler runs on
// the calling goroutine, so nothing writes to the response after it returns.
// A handler that gives up because the deadline passed, and has not written a
// response yet, is answered with 503.
func RequestTimeout(timeout time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
			defer cancel()
			c.SetRequest(c.Request().WithContext(ctx))

			err := next(c)
			if c.Response().Committed {
				return err
			}
			if errors.Is(err, context.DeadlineExceeded) || (err == nil && errors.Is(ctx.Err(), context.DeadlineExceeded)) {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "request timed out")
			}
			return err
		}
	}
}
