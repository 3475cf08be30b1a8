package handler

import (
	"errors"
	"net/http"

	"github.com/dafibh/addressbook/addressbook-backend/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// SuccessResponse is the envelope of every successful response
type SuccessResponse struct {
	Success bool        `json:"success"`
	Result  interface{} `json:"result"`
}

// ErrorResponse is the envelope of every failed response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Success writes a 200 envelope around result
func Success(c echo.Context, result interface{}) error {
	return c.JSON(http.StatusOK, SuccessResponse{Success: true, Result: result})
}

// Failure writes a 500 envelope carrying message
func Failure(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Success: false, Message: message})
}

// ErrorHandler converts every error returned by a handler into the failure
// envelope. Errors raised by echo itself (unknown route, bad method) keep their
// status; everything else is a 500 with the error text as message.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if m, ok := httpErr.Message.(string); ok {
			message = m
		}
		if werr := c.JSON(httpErr.Code, ErrorResponse{Success: false, Message: message}); werr != nil {
			log.Error().Err(werr).Msg("Failed to write error response")
		}
		return
	}

	logEvent := log.Warn()
	if errors.Is(err, domain.ErrStorage) {
		logEvent = log.Error()
	}
	logEvent.Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Request().URL.Path).
		Msg("Request failed")

	if werr := Failure(c, err.Error()); werr != nil {
		log.Error().Err(werr).Msg("Failed to write error response")
	}
}
