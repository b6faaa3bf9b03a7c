package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	RequestIDHeader = echo.HeaderXRequestID
	requestIDKey    = "request_id"
)

// RequestID reuses the caller's X-Request-Id or mints a UUID, echoes it on the
// response and stores it on the context.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			c.Response().Header().Set(RequestIDHeader, id)
			c.Set(requestIDKey, id)
			return next(c)
		}
	}
}

// GetRequestID returns the id stored by RequestID, or "".
func GetRequestID(c echo.Context) string {
	id, _ := c.Get(requestIDKey).(string)
	return id
}
