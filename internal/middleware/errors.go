package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// failure is the error envelope shared with the handlers
type failure struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// unauthorizedError rejects the request before any handler runs
func unauthorizedError(c echo.Context, message string) error {
	return c.JSON(http.StatusUnauthorized, failure{Success: false, Message: message})
}

// tooManyRequestsError rejects a request over its rate limit
func tooManyRequestsError(c echo.Context, message string) error {
	return c.JSON(http.StatusTooManyRequests, failure{Success: false, Message: message})
}
