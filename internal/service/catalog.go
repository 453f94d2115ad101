package service

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/octobees/servicefinder/internal/cache"
	"github.com/octobees/servicefinder/internal/dto"
	"github.com/octobees/servicefinder/internal/entity"
	"github.com/octobees/servicefinder/internal/repository"
)

// CatalogService exposes the states, cities and services of the directory.
type CatalogService struct {
	repo     repository.CatalogRepository
	fallback ContentFallback
	cache    cache.Cache
	ttl      time.Duration
}

// NewCatalogService builds a CatalogService. fallback may be nil.
func NewCatalogService(repo repository.CatalogRepository, fallback ContentFallback, c cache.Cache, ttl time.Duration) *CatalogService {
	if c == nil {
		c = cache.NewNoOpCache()
	}
	return &CatalogService{repo: repo, fallback: fallback, cache: c, ttl: ttl}
}

// ListStates returns up to limit states.
func (s *CatalogService) ListStates(ctx context.Context, limit int) ([]entity.State, error) {
	var fb func(context.Context) ([]entity.State, error)
	if s.fallback != nil {
		fb = func(ctx context.Context) ([]entity.State, error) { return s.fallback.States(ctx, limit) }
	}
	return fetch(ctx, s.cache, s.ttl, cache.Key(cache.KeyPrefixStates, strconv.Itoa(limit)),
		func(ctx context.Context) ([]entity.State, error) { return s.repo.ListStates(ctx, limit) }, fb)
}

// GetState returns a state with its cities.
func (s *CatalogService) GetState(ctx context.Context, slug string, cityLimit int) (*dto.StateDetail, error) {
	var fb func(context.Context) (*entity.State, error)
	if s.fallback != nil {
		fb = func(ctx context.Context) (*entity.State, error) { return s.fallback.StateBySlug(ctx, slug) }
	}
	state, err := fetch(ctx, s.cache, s.ttl, cache.Key(cache.KeyPrefixState, slug),
		func(ctx context.Context) (*entity.State, error) { return s.repo.GetStateBySlug(ctx, slug) }, fb)
	if err != nil {
		return nil, err
	}

	cities, err := s.ListCitiesByState(ctx, state.ID, cityLimit)
	if err != nil {
		return nil, err
	}
	return &dto.StateDetail{State: *state, Cities: cities, Service: s.featuredService(ctx)}, nil
}

// ListCitiesByState returns the cities of a state.
func (s *CatalogService) ListCitiesByState(ctx context.Context, stateID uuid.UUID, limit int) ([]entity.City, error) {
	var fb func(context.Context) ([]entity.City, error)
	if s.fallback != nil {
		fb = func(ctx context.Context) ([]entity.City, error) { return s.fallback.CitiesByState(ctx, stateID, limit) }
	}
	return fetch(ctx, s.cache, s.ttl, cache.Key(cache.KeyPrefixCities, "state", stateID.String(), strconv.Itoa(limit)),
		func(ctx context.Context) ([]entity.City, error) { return s.repo.ListCitiesByState(ctx, stateID, limit) }, fb)
}

// ListCities returns up to limit cities.
func (s *CatalogService) ListCities(ctx context.Context, limit int) ([]entity.City, error) {
	var fb func(context.Context) ([]entity.City, error)
	if s.fallback != nil {
		fb = func(ctx context.Context) ([]entity.City, error) { return s.fallback.Cities(ctx, limit) }
	}
	return fetch(ctx, s.cache, s.ttl, cache.Key(cache.KeyPrefixCities, strconv.Itoa(limit)),
		func(ctx context.Context) ([]entity.City, error) { return s.repo.ListCities(ctx, limit) }, fb)
}

// GetCity returns a city by slug.
func (s *CatalogService) GetCity(ctx context.Context, slug string) (*entity.City, error) {
	var fb func(context.Context) (*entity.City, error)
	if s.fallback != nil {
		fb = func(ctx context.Context) (*entity.City, error) { return s.fallback.CityBySlug(ctx, slug) }
	}
	return fetch(ctx, s.cache, s.ttl, cache.Key(cache.KeyPrefixCity, slug),
		func(ctx context.Context) (*entity.City, error) { return s.repo.GetCityBySlug(ctx, slug) }, fb)
}

// GetCityByID returns a city by identifier.
func (s *CatalogService) GetCityByID(ctx context.Context, id uuid.UUID) (*entity.City, error) {
	return fetch(ctx, s.cache, s.ttl, cache.Key(cache.KeyPrefixCity, "id", id.String()),
		func(ctx context.Context) (*entity.City, error) { return s.repo.GetCityByID(ctx, id) }, nil)
}

// ListServices returns up to limit services.
func (s *CatalogService) ListServices(ctx context.Context, limit int) ([]entity.Service, error) {
	return fetch(ctx, s.cache, s.ttl, cache.Key(cache.KeyPrefixServices, strconv.Itoa(limit)),
		func(ctx context.Context) ([]entity.Service, error) { return s.repo.ListServices(ctx, limit) }, nil)
}

// GetService returns a service by slug.
func (s *CatalogService) GetService(ctx context.Context, slug string) (*entity.Service, error) {
	return fetch(ctx, s.cache, s.ttl, cache.Key(cache.KeyPrefixService, slug),
		func(ctx context.Context) (*entity.Service, error) { return s.repo.GetServiceBySlug(ctx, slug) }, nil)
}

// DefaultService returns the first service in editorial order.
func (s *CatalogService) DefaultService(ctx context.Context) (*entity.Service, error) {
	return fetch(ctx, s.cache, s.ttl, cache.Key(cache.KeyPrefixFeatured, "default"),
		func(ctx context.Context) (*entity.Service, error) { return s.repo.GetSingleService(ctx) }, nil)
}

// featuredService is the service shown on state and city pages. The pages
// render without it, so failures only get logged.
func (s *CatalogService) featuredService(ctx context.Context) *entity.Service {
	svc, err := s.DefaultService(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Printf("featured_service_error err=%v", err)
		}
		return nil
	}
	return svc
}

// InvalidateAll drops every cached catalogue and listing entry. The importer
// calls it after writing.
func (s *CatalogService) InvalidateAll(ctx context.Context) error {
	return s.cache.DeleteByPattern(ctx, "cache:*")
}
