package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/servicefinder/internal/config"
	"github.com/octobees/servicefinder/internal/handler"
	middlewarepkg "github.com/octobees/servicefinder/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Catalog  *handler.CatalogHandler
	Listings *handler.ListingsHandler
	Site     *handler.SiteHandler
	Contact  *handler.ContactHandler
}

// Register wires all HTTP routes for the API. Static prefixes win over the
// catch-all /:citySlug/:slug route in echo's router.
func Register(e *echo.Echo, cfg *config.Config, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})

	e.GET("/api/basic-info", handlers.Site.BasicInfo)

	e.GET("/services", handlers.Catalog.ListServices)
	e.GET("/services/:slug", handlers.Catalog.GetService)
	e.GET("/states", handlers.Catalog.ListStates)
	e.GET("/states/:slug", handlers.Catalog.GetState)
	e.GET("/cities", handlers.Catalog.ListCities)
	e.GET("/cities/:slug", handlers.Catalog.GetCity)

	e.GET("/cities/:slug/listings", handlers.Listings.ListByCity)
	e.GET("/cities/:slug/listings/:listing", handlers.Listings.GetInCity)
	e.GET("/listings", handlers.Listings.List)
	e.GET("/listings/:slug", handlers.Listings.Get)

	e.POST("/contact", handlers.Contact.Submit, middlewarepkg.RateLimiter(cfg.RateLimitContact, "contact rate limit exceeded"))

	e.GET("/:citySlug/:slug", handlers.Listings.Resolve)
}
