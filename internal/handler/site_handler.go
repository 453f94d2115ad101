package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/servicefinder/internal/service"
)

// SiteHandler serves the live site settings.
type SiteHandler struct {
	service *service.SiteService
}

// NewSiteHandler creates a new handler instance.
func NewSiteHandler(service *service.SiteService) *SiteHandler {
	return &SiteHandler{service: service}
}

// BasicInfo handles GET /api/basic-info requests.
func (h *SiteHandler) BasicInfo(c echo.Context) error {
	info, err := h.service.BasicInfo(c.Request().Context())
	if err != nil {
		return lookupError(c, err, "no live site settings", "failed to load site settings")
	}
	return Success(c, http.StatusOK, "basic info retrieved", info)
}
