package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

func Ping(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"pong": true,
		"time": time.Now().UTC().Format(time.RFC3339),
	})
}
