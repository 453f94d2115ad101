package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/servicefinder/internal/dto"
	"github.com/octobees/servicefinder/internal/middleware"
	"github.com/octobees/servicefinder/internal/service"
)

// ContactHandler accepts contact form submissions.
type ContactHandler struct {
	service *service.ContactService
}

// NewContactHandler creates a new handler instance.
func NewContactHandler(service *service.ContactService) *ContactHandler {
	return &ContactHandler{service: service}
}

// Submit handles POST /contact requests.
func (h *ContactHandler) Submit(c echo.Context) error {
	var req dto.ContactRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid request body")
	}

	msg, err := h.service.Submit(c.Request().Context(), req, middleware.RequestIDFromContext(c))
	if err != nil {
		var validationErr service.ValidationError
		if errors.As(err, &validationErr) {
			return Invalid(c, "invalid contact request", validationErr.Fields)
		}
		return Error(c, http.StatusInternalServerError, "failed to send message")
	}

	return Success(c, http.StatusCreated, "message received", map[string]any{
		"id":         msg.ID,
		"created_at": msg.CreatedAt,
	})
}
