package routes

import (
	"net/http"

	"github.com/OFFIS-RIT/compass/pkg/parser"

	"github.com/labstack/echo/v4"
)

func GetSchemaHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, parser.Schema())
}

// GetSupportedHandler lists the diagram types accepted by the parser.
func GetSupportedHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, parser.Supported())
}
