package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Root answers the plain-text liveness probe
func Root(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Health godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
