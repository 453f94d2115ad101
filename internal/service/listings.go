package service

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/octobees/servicefinder/internal/cache"
	"github.com/octobees/servicefinder/internal/discovery"
	"github.com/octobees/servicefinder/internal/dto"
	"github.com/octobees/servicefinder/internal/entity"
	"github.com/octobees/servicefinder/internal/repository"
)

const (
	defaultDiscoverLimit = 50
	relatedFetchLimit    = 6
	relatedMaxResults    = 5
)

var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// ListingsService runs discovery over the listings of the directory.
type ListingsService struct {
	repo     repository.ListingsRepository
	catalog  *CatalogService
	site     *SiteService
	fallback ContentFallback
	cache    cache.Cache
	ttl      time.Duration
	loc      *time.Location
	limit    int
	now      func() time.Time
}

// ListingsOption customises a ListingsService.
type ListingsOption func(*ListingsService)

// WithListingsClock overrides the wall clock used for open-now decisions.
func WithListingsClock(now func() time.Time) ListingsOption {
	return func(s *ListingsService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSiteLocation sets the timezone in which opening hours are evaluated.
func WithSiteLocation(loc *time.Location) ListingsOption {
	return func(s *ListingsService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithFetchLimit caps how many listings are loaded per discovery request.
func WithFetchLimit(limit int) ListingsOption {
	return func(s *ListingsService) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

// WithListingsFallback enables reads from the JSON content export on database failure.
func WithListingsFallback(fallback ContentFallback) ListingsOption {
	return func(s *ListingsService) {
		s.fallback = fallback
	}
}

// WithListingsCache caches fetched listings for ttl.
func WithListingsCache(c cache.Cache, ttl time.Duration) ListingsOption {
	return func(s *ListingsService) {
		if c != nil {
			s.cache = c
			s.ttl = ttl
		}
	}
}

// NewListingsService wires the discovery service.
func NewListingsService(repo repository.ListingsRepository, catalog *CatalogService, site *SiteService, opts ...ListingsOption) *ListingsService {
	s := &ListingsService{
		repo:    repo,
		catalog: catalog,
		site:    site,
		cache:   cache.NewNoOpCache(),
		loc:     time.UTC,
		limit:   defaultDiscoverLimit,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Discover loads the listings selected by q and applies its filters and sort.
func (s *ListingsService) Discover(ctx context.Context, q dto.DiscoverQuery) (*dto.ListingsPage, error) {
	listings, err := s.load(ctx, q)
	if err != nil {
		return nil, err
	}
	page := s.page(ctx, listings, q.Filters, q.Sort)
	return &page, nil
}

// City returns a city page: the city, its discovered listings and the
// featured service.
func (s *ListingsService) City(ctx context.Context, slug string, q dto.DiscoverQuery) (*dto.CityDetail, error) {
	city, err := s.catalog.GetCity(ctx, slug)
	if err != nil {
		return nil, err
	}
	q.CitySlug, q.StateSlug = city.Slug, ""
	page, err := s.Discover(ctx, q)
	if err != nil {
		return nil, err
	}
	return &dto.CityDetail{City: *city, Listings: *page, Service: s.catalog.featuredService(ctx)}, nil
}

// Resolve serves the city-scoped page at slug: a service page when slug names
// a service, otherwise the detail page of a listing that belongs to the city.
func (s *ListingsService) Resolve(ctx context.Context, citySlug, slug string, q dto.DiscoverQuery) (*dto.CityPage, error) {
	city, err := s.catalog.GetCity(ctx, citySlug)
	if err != nil {
		return nil, err
	}

	svc, err := s.catalog.GetService(ctx, slug)
	switch {
	case err == nil:
		q.CitySlug, q.StateSlug = city.Slug, ""
		page, err := s.Discover(ctx, q)
		if err != nil {
			return nil, err
		}
		return &dto.CityPage{Kind: dto.CityPageService, Service: &dto.ServiceInCity{Service: *svc, City: *city, Listings: *page}}, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	detail, err := s.detail(ctx, city, slug)
	if err != nil {
		return nil, err
	}
	return &dto.CityPage{Kind: dto.CityPageListing, Listing: detail}, nil
}

// Detail returns one listing of a city with its weekly hours and related listings.
func (s *ListingsService) Detail(ctx context.Context, citySlug, slug string) (*dto.ListingDetail, error) {
	city, err := s.catalog.GetCity(ctx, citySlug)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, city, slug)
}

// Listing returns a listing page by slug alone, resolving its city from the
// listing's city id. Listings without a known city have no related listings.
func (s *ListingsService) Listing(ctx context.Context, slug string) (*dto.ListingDetail, error) {
	listing, err := s.bySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	var city *entity.City
	if listing.CityID != nil {
		city, err = s.catalog.GetCityByID(ctx, *listing.CityID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}
	return s.build(ctx, listing, city)
}

func (s *ListingsService) detail(ctx context.Context, city *entity.City, slug string) (*dto.ListingDetail, error) {
	listing, err := s.bySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if listing.CityID == nil || *listing.CityID != city.ID {
		return nil, repository.ErrNotFound
	}
	return s.build(ctx, listing, city)
}

func (s *ListingsService) build(ctx context.Context, listing *entity.Listing, city *entity.City) (*dto.ListingDetail, error) {
	now := s.now().In(s.loc)
	detail := &dto.ListingDetail{
		Listing: view(*listing, now),
		City:    city,
		Related: make([]dto.ListingView, 0, relatedMaxResults),
		Theme:   s.theme(ctx),
	}
	if listing.OpeningHours != nil {
		if hours, ok := discovery.ParseOpeningHours(*listing.OpeningHours); ok {
			detail.Hours = orderedHours(hours)
		}
	}
	if city == nil {
		return detail, nil
	}

	related, err := s.byCity(ctx, city, relatedFetchLimit)
	if err != nil {
		return nil, err
	}
	for _, r := range related {
		if r.Slug == listing.Slug {
			continue
		}
		if len(detail.Related) == relatedMaxResults {
			break
		}
		detail.Related = append(detail.Related, view(r, now))
	}
	return detail, nil
}

func (s *ListingsService) page(ctx context.Context, listings []entity.Listing, filters discovery.FilterState, sortValue string) dto.ListingsPage {
	now := s.now().In(s.loc)
	engine := discovery.NewEngine(discovery.WithClock(func() time.Time { return now }))
	sortKey, _ := discovery.ParseSortKey(sortValue)

	ctrl := discovery.NewController(engine, listings, sortKey, nil)
	applyFilters(ctrl, filters)
	result := ctrl.Result()

	views := make([]dto.ListingView, 0, len(result.Listings))
	for _, l := range result.Listings {
		views = append(views, view(l, now))
	}
	return dto.ListingsPage{
		Listings:         views,
		Showing:          result.Showing,
		Total:            result.Total,
		HasActiveFilters: ctrl.HasActiveFilters(),
		Filters:          result.Filters,
		Sort:             result.Sort,
		Types:            typeFacets(listings),
		Theme:            s.theme(ctx),
	}
}

// applyFilters copies the requested state into the controller one field at a
// time. Every value has the type its key expects, so SetFilter cannot fail.
func applyFilters(ctrl *discovery.Controller, f discovery.FilterState) {
	if f.MinRating != nil {
		_ = ctrl.SetFilter(discovery.FilterMinRating, *f.MinRating)
	}
	if f.Verified != nil {
		_ = ctrl.SetFilter(discovery.FilterVerified, *f.Verified)
	}
	if f.Featured != nil {
		_ = ctrl.SetFilter(discovery.FilterFeatured, *f.Featured)
	}
	if f.OpenNow != nil {
		_ = ctrl.SetFilter(discovery.FilterOpenNow, *f.OpenNow)
	}
	for _, t := range f.Types {
		if !slices.Contains(ctrl.State().Types, t) {
			ctrl.ToggleType(t)
		}
	}
}

func (s *ListingsService) theme(ctx context.Context) entity.Theme {
	if s.site == nil {
		return DefaultTheme
	}
	return s.site.Theme(ctx)
}

func (s *ListingsService) load(ctx context.Context, q dto.DiscoverQuery) ([]entity.Listing, error) {
	limit := s.limit
	if q.Limit > 0 && q.Limit < limit {
		limit = q.Limit
	}

	switch {
	case q.CitySlug != "":
		city, err := s.catalog.GetCity(ctx, q.CitySlug)
		if err != nil {
			return nil, err
		}
		return s.byCity(ctx, city, limit)
	case q.StateSlug != "":
		state, err := s.catalog.GetState(ctx, q.StateSlug, 0)
		if err != nil {
			return nil, err
		}
		id := state.State.ID
		var fb func(context.Context) ([]entity.Listing, error)
		if s.fallback != nil {
			fb = func(ctx context.Context) ([]entity.Listing, error) { return s.fallback.ListingsByState(ctx, id, limit) }
		}
		return fetch(ctx, s.cache, s.ttl, cache.Key(cache.KeyPrefixListings, "state", id.String(), strconv.Itoa(limit)),
			func(ctx context.Context) ([]entity.Listing, error) { return s.repo.ListByState(ctx, id, limit) }, fb)
	default:
		var fb func(context.Context) ([]entity.Listing, error)
		if s.fallback != nil {
			fb = func(ctx context.Context) ([]entity.Listing, error) { return s.fallback.Listings(ctx, limit) }
		}
		return fetch(ctx, s.cache, s.ttl, cache.Key(cache.KeyPrefixListings, "all", strconv.Itoa(limit)),
			func(ctx context.Context) ([]entity.Listing, error) { return s.repo.List(ctx, limit) }, fb)
	}
}

func (s *ListingsService) byCity(ctx context.Context, city *entity.City, limit int) ([]entity.Listing, error) {
	id := city.ID
	var fb func(context.Context) ([]entity.Listing, error)
	if s.fallback != nil {
		fb = func(ctx context.Context) ([]entity.Listing, error) { return s.fallback.ListingsByCity(ctx, id, limit) }
	}
	return fetch(ctx, s.cache, s.ttl, cache.Key(cache.KeyPrefixListings, "city", id.String(), strconv.Itoa(limit)),
		func(ctx context.Context) ([]entity.Listing, error) { return s.repo.ListByCity(ctx, id, limit) }, fb)
}

func (s *ListingsService) bySlug(ctx context.Context, slug string) (*entity.Listing, error) {
	var fb func(context.Context) (*entity.Listing, error)
	if s.fallback != nil {
		fb = func(ctx context.Context) (*entity.Listing, error) { return s.fallback.ListingBySlug(ctx, slug) }
	}
	return fetch(ctx, s.cache, s.ttl, cache.Key(cache.KeyPrefixListing, slug),
		func(ctx context.Context) (*entity.Listing, error) { return s.repo.GetBySlug(ctx, slug) }, fb)
}

func view(l entity.Listing, now time.Time) dto.ListingView {
	status := discovery.StatusUnknown
	if l.OpeningHours != nil {
		status = discovery.Status(*l.OpeningHours, now)
	}
	return dto.ListingView{Listing: l, OpenStatus: status}
}

// orderedHours lists the weekdays Monday first, then any other keys alphabetically.
func orderedHours(hours discovery.WeeklyHours) []dto.DayHours {
	out := make([]dto.DayHours, 0, len(hours))
	for _, day := range weekdays {
		if h, ok := hours[day]; ok {
			out = append(out, dto.DayHours{Day: day, Hours: h})
		}
	}
	extra := make([]string, 0)
	for day := range hours {
		if !slices.Contains(weekdays, day) {
			extra = append(extra, day)
		}
	}
	slices.Sort(extra)
	for _, day := range extra {
		out = append(out, dto.DayHours{Day: day, Hours: hours[day]})
	}
	return out
}

// typeFacets splits each listing's type descriptor on commas and counts, for
// every distinct type, how many listings a filter on it would keep.
func typeFacets(listings []entity.Listing) []dto.TypeFacet {
	seen := make(map[string]struct{})
	types := make([]string, 0)
	for _, l := range listings {
		descriptor, ok := l.TypeDescriptor()
		if !ok {
			continue
		}
		for _, part := range strings.Split(descriptor, ",") {
			t := strings.TrimSpace(part)
			if t == "" {
				continue
			}
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			types = append(types, t)
		}
	}

	facets := make([]dto.TypeFacet, 0, len(types))
	for _, t := range types {
		count := 0
		for _, l := range listings {
			if descriptor, ok := l.TypeDescriptor(); ok && strings.Contains(descriptor, t) {
				count++
			}
		}
		facets = append(facets, dto.TypeFacet{Type: t, Count: count})
	}
	slices.SortStableFunc(facets, func(a, b dto.TypeFacet) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return strings.Compare(a.Type, b.Type)
	})
	return facets
}
