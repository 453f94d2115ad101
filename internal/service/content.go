package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/octobees/servicefinder/internal/cache"
	"github.com/octobees/servicefinder/internal/entity"
	"github.com/octobees/servicefinder/internal/repository"
)

// ContentFallback serves catalogue reads when the database is unavailable.
// *repository.FallbackStore satisfies it.
type ContentFallback interface {
	States(ctx context.Context, limit int) ([]entity.State, error)
	StateBySlug(ctx context.Context, slug string) (*entity.State, error)
	Cities(ctx context.Context, limit int) ([]entity.City, error)
	CitiesByState(ctx context.Context, stateID uuid.UUID, limit int) ([]entity.City, error)
	CityBySlug(ctx context.Context, slug string) (*entity.City, error)
	Listings(ctx context.Context, limit int) ([]entity.Listing, error)
	ListingsByCity(ctx context.Context, cityID uuid.UUID, limit int) ([]entity.Listing, error)
	ListingsByState(ctx context.Context, stateID uuid.UUID, limit int) ([]entity.Listing, error)
	ListingBySlug(ctx context.Context, slug string) (*entity.Listing, error)
}

var _ ContentFallback = (*repository.FallbackStore)(nil)

// fetch reads key from the cache, then from primary. Only primary results are
// cached. When primary fails with anything but repository.ErrNotFound and a
// fallback is given, the fallback result is returned instead; if that fails
// too the primary error wins.
func fetch[T any](ctx context.Context, c cache.Cache, ttl time.Duration, key string,
	primary func(context.Context) (T, error), fallback func(context.Context) (T, error)) (T, error) {
	var out T
	if err := cache.GetJSON(ctx, c, key, &out); err == nil {
		return out, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		log.Printf("cache_error key=%s err=%v", key, err)
	}

	out, err := primary(ctx)
	if err == nil {
		if setErr := cache.SetJSON(ctx, c, key, out, ttl); setErr != nil {
			log.Printf("cache_error key=%s err=%v", key, setErr)
		}
		return out, nil
	}
	if errors.Is(err, repository.ErrNotFound) || fallback == nil {
		return out, err
	}

	log.Printf("content_fallback key=%s err=%v", key, err)
	alt, altErr := fallback(ctx)
	if altErr != nil {
		if errors.Is(altErr, repository.ErrNotFound) {
			return alt, altErr
		}
		log.Printf("content_fallback_failed key=%s err=%v", key, altErr)
		return out, err
	}
	return alt, nil
}
