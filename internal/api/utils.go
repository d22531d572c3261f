package api

import (
	"io"

	"github.com/labstack/echo/v4"
)

// readBody drains the request body.
func readBody(c echo.Context) ([]byte, error) {
	return io.ReadAll(c.Request().Body)
}
