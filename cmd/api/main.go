package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/octobees/servicefinder/internal/cache"
	"github.com/octobees/servicefinder/internal/config"
	"github.com/octobees/servicefinder/internal/database"
	"github.com/octobees/servicefinder/internal/handler"
	middlewarepkg "github.com/octobees/servicefinder/internal/middleware"
	"github.com/octobees/servicefinder/internal/repository"
	"github.com/octobees/servicefinder/internal/router"
	"github.com/octobees/servicefinder/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	theme, err := config.LoadTheme(cfg.SiteConfigFile, service.DefaultTheme)
	if err != nil {
		log.Printf("theme_fallback err=%v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer pool.Close()

	contentCache, err := cache.New(cache.Options{RedisURL: cfg.RedisURL, Disabled: cfg.CacheDisabled})
	if err != nil {
		log.Fatalf("failed to connect cache: %v", err)
	}
	defer contentCache.Close()

	fallback := repository.NewFallbackStore(cfg.ContentFallbackDir)

	catalogService := service.NewCatalogService(repository.NewPGXCatalogRepository(pool), fallback, contentCache, cfg.CacheTTL)
	siteService := service.NewSiteService(repository.NewPGXSiteRepository(pool), contentCache, cfg.CacheTTL, theme)
	listingsService := service.NewListingsService(repository.NewPGXListingsRepository(pool), catalogService, siteService,
		service.WithSiteLocation(cfg.SiteTimezone),
		service.WithFetchLimit(cfg.CityListingsLimit),
		service.WithListingsFallback(fallback),
		service.WithListingsCache(contentCache, cfg.CacheTTL),
	)
	contactService := service.NewContactService(repository.NewPGXContactRepository(pool), cfg.DefaultPhoneRegion)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging())
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, router.Handlers{
		Catalog:  handler.NewCatalogHandler(catalogService, listingsService),
		Listings: handler.NewListingsHandler(listingsService),
		Site:     handler.NewSiteHandler(siteService),
		Contact:  handler.NewContactHandler(contactService),
	})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
