package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/servicefinder/internal/service"
)

// CatalogHandler exposes the states, cities and services of the directory.
type CatalogHandler struct {
	catalog  *service.CatalogService
	listings *service.ListingsService
}

// NewCatalogHandler creates a new handler instance.
func NewCatalogHandler(catalog *service.CatalogService, listings *service.ListingsService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, listings: listings}
}

// ListServices handles GET /services requests.
func (h *CatalogHandler) ListServices(c echo.Context) error {
	services, err := h.catalog.ListServices(c.Request().Context(), parseIntDefault(c.QueryParam("limit"), 0))
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list services")
	}
	return Success(c, http.StatusOK, "services retrieved", services)
}

// GetService handles GET /services/:slug requests.
func (h *CatalogHandler) GetService(c echo.Context) error {
	svc, err := h.catalog.GetService(c.Request().Context(), strings.TrimSpace(c.Param("slug")))
	if err != nil {
		return lookupError(c, err, "service not found", "failed to load service")
	}
	return Success(c, http.StatusOK, "service retrieved", svc)
}

// ListStates handles GET /states requests.
func (h *CatalogHandler) ListStates(c echo.Context) error {
	states, err := h.catalog.ListStates(c.Request().Context(), parseIntDefault(c.QueryParam("limit"), 0))
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list states")
	}
	return Success(c, http.StatusOK, "states retrieved", states)
}

// GetState handles GET /states/:slug requests.
func (h *CatalogHandler) GetState(c echo.Context) error {
	state, err := h.catalog.GetState(c.Request().Context(), strings.TrimSpace(c.Param("slug")), parseIntDefault(c.QueryParam("limit"), 0))
	if err != nil {
		return lookupError(c, err, "state not found", "failed to load state")
	}
	return Success(c, http.StatusOK, "state retrieved", state)
}

// ListCities handles GET /cities requests.
func (h *CatalogHandler) ListCities(c echo.Context) error {
	cities, err := h.catalog.ListCities(c.Request().Context(), parseIntDefault(c.QueryParam("limit"), 0))
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list cities")
	}
	return Success(c, http.StatusOK, "cities retrieved", cities)
}

// GetCity handles GET /cities/:slug requests. The city's listings are
// discovered with the same query parameters as /cities/:slug/listings.
func (h *CatalogHandler) GetCity(c echo.Context) error {
	city, err := h.listings.City(c.Request().Context(), strings.TrimSpace(c.Param("slug")), parseDiscoverQuery(c))
	if err != nil {
		return lookupError(c, err, "city not found", "failed to load city")
	}
	return Success(c, http.StatusOK, "city retrieved", city)
}
