package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/servicefinder/internal/repository"
)

// APIResponse describes the standard envelope returned by the API.
type APIResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message,omitempty"`
	Data    any               `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// Success sends a successful response using the shared envelope format.
func Success(c echo.Context, status int, message string, data any) error {
	if status == 0 {
		status = http.StatusOK
	}
	payload := APIResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	}
	return c.JSON(status, payload)
}

// Error sends an error response using the shared envelope format.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	payload := APIResponse{
		Status:  "error",
		Message: message,
	}
	return c.JSON(status, payload)
}

// Invalid sends a 400 response listing the rejected fields.
func Invalid(c echo.Context, message string, fields map[string]string) error {
	return c.JSON(http.StatusBadRequest, APIResponse{
		Status:  "error",
		Message: message,
		Errors:  fields,
	})
}

// lookupError maps a read failure to 404 for unknown slugs and 500 otherwise.
func lookupError(c echo.Context, err error, notFound, failed string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return Error(c, http.StatusNotFound, notFound)
	}
	return Error(c, http.StatusInternalServerError, failed)
}
