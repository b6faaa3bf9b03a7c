package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Logging writes one line per request. Handler errors are logged at error
// level; echo's error handler still renders them.
func Logging(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			evt := logger.Info()
			if err != nil || res.Status >= 500 {
				evt = logger.Error().Err(err)
			}
			evt.
				Str("request_id", GetRequestID(c)).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Int64("bytes", res.Size).
				Dur("latency", time.Since(start)).
				Msg("request")

			// Already rendered by c.Error above.
			return nil
		}
	}
}
