package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/servicefinder/internal/discovery"
	"github.com/octobees/servicefinder/internal/dto"
	"github.com/octobees/servicefinder/internal/service"
)

// ListingsHandler exposes listing discovery endpoints.
type ListingsHandler struct {
	service *service.ListingsService
}

// NewListingsHandler creates a new handler instance.
func NewListingsHandler(service *service.ListingsService) *ListingsHandler {
	return &ListingsHandler{service: service}
}

// List handles GET /listings requests. The optional city and state query
// parameters narrow the listings that are loaded before filtering.
func (h *ListingsHandler) List(c echo.Context) error {
	q := parseDiscoverQuery(c)
	q.CitySlug = strings.TrimSpace(c.QueryParam("city"))
	if q.CitySlug == "" {
		q.StateSlug = strings.TrimSpace(c.QueryParam("state"))
	}

	page, err := h.service.Discover(c.Request().Context(), q)
	if err != nil {
		return lookupError(c, err, "location not found", "failed to list listings")
	}
	return Success(c, http.StatusOK, "listings retrieved", page)
}

// ListByCity handles GET /cities/:slug/listings requests.
func (h *ListingsHandler) ListByCity(c echo.Context) error {
	q := parseDiscoverQuery(c)
	q.CitySlug = strings.TrimSpace(c.Param("slug"))

	page, err := h.service.Discover(c.Request().Context(), q)
	if err != nil {
		return lookupError(c, err, "city not found", "failed to list listings")
	}
	return Success(c, http.StatusOK, "listings retrieved", page)
}

// Get handles GET /listings/:slug requests.
func (h *ListingsHandler) Get(c echo.Context) error {
	detail, err := h.service.Listing(c.Request().Context(), strings.TrimSpace(c.Param("slug")))
	if err != nil {
		return lookupError(c, err, "listing not found", "failed to load listing")
	}
	return Success(c, http.StatusOK, "listing retrieved", detail)
}

// GetInCity handles GET /cities/:slug/listings/:listing requests. Listings of
// other cities are reported as not found.
func (h *ListingsHandler) GetInCity(c echo.Context) error {
	detail, err := h.service.Detail(c.Request().Context(), strings.TrimSpace(c.Param("slug")), strings.TrimSpace(c.Param("listing")))
	if err != nil {
		return lookupError(c, err, "listing not found", "failed to load listing")
	}
	return Success(c, http.StatusOK, "listing retrieved", detail)
}

// Resolve handles GET /:citySlug/:slug requests, serving either a service
// within the city or a listing detail page.
func (h *ListingsHandler) Resolve(c echo.Context) error {
	citySlug := strings.TrimSpace(c.Param("citySlug"))
	slug := strings.TrimSpace(c.Param("slug"))

	page, err := h.service.Resolve(c.Request().Context(), citySlug, slug, parseDiscoverQuery(c))
	if err != nil {
		return lookupError(c, err, "page not found", "failed to load page")
	}
	return Success(c, http.StatusOK, page.Kind+" retrieved", page)
}

// parseDiscoverQuery reads the filter and sort query parameters. Values that
// do not parse are ignored and leave their filter unset.
func parseDiscoverQuery(c echo.Context) dto.DiscoverQuery {
	q := dto.DiscoverQuery{
		Sort:  strings.TrimSpace(c.QueryParam("sort")),
		Limit: parseIntDefault(c.QueryParam("limit"), 0),
	}

	if minRatingStr := strings.TrimSpace(c.QueryParam("min_rating")); minRatingStr != "" {
		if minRating, err := strconv.ParseFloat(minRatingStr, 64); err == nil && minRating >= 0 && minRating <= 5 {
			q.Filters.MinRating = &minRating
		}
	}
	q.Filters.Verified = parseFlag(c.QueryParam("verified"))
	q.Filters.Featured = parseFlag(c.QueryParam("featured"))
	q.Filters.OpenNow = parseFlag(c.QueryParam("open_now"))

	for _, raw := range c.QueryParams()["type"] {
		if t := strings.TrimSpace(raw); t != "" {
			q.Filters.Types = append(q.Filters.Types, t)
		}
	}

	if _, ok := discovery.ParseSortKey(q.Sort); !ok {
		q.Sort = ""
	}
	return q
}

// parseFlag returns a set flag only for true values; false and garbage both
// leave the filter inactive.
func parseFlag(input string) *bool {
	v, err := strconv.ParseBool(strings.TrimSpace(input))
	if err != nil || !v {
		return nil
	}
	return &v
}

func parseIntDefault(input string, fallback int) int {
	if input == "" {
		return fallback
	}
	v, err := strconv.Atoi(input)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
