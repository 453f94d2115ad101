package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/octobees/servicefinder/internal/entity"
)

// Content export file names, as produced by the CMS export.
const (
	StatesFile   = "states.json"
	CitiesFile   = "cities.json"
	ListingsFile = "Listings.json"
)

// externalIDNamespace derives stable UUIDs for CMS document ids that are not UUIDs.
var externalIDNamespace = uuid.MustParse("6f1c2d0e-8a55-4a5b-9a61-2f1f2a4c7b10")

// FallbackStore serves catalogue reads from the JSON content export. Services
// consult it only when the database read itself fails.
type FallbackStore struct {
	dir string
}

// NewFallbackStore returns a store reading files from dir.
func NewFallbackStore(dir string) *FallbackStore {
	return &FallbackStore{dir: dir}
}

// States returns up to limit states from the export.
func (s *FallbackStore) States(ctx context.Context, limit int) ([]entity.State, error) {
	var docs []stateDocument
	if err := s.load(ctx, StatesFile, &docs); err != nil {
		return nil, err
	}
	states := make([]entity.State, 0, len(docs))
	for _, d := range docs {
		states = append(states, d.toEntity())
	}
	return truncate(states, limit), nil
}

// StateBySlug finds a state in the export.
func (s *FallbackStore) StateBySlug(ctx context.Context, slug string) (*entity.State, error) {
	states, err := s.States(ctx, 0)
	if err != nil {
		return nil, err
	}
	for i := range states {
		if states[i].Slug == slug {
			return &states[i], nil
		}
	}
	return nil, ErrNotFound
}

// Cities returns up to limit cities from the export.
func (s *FallbackStore) Cities(ctx context.Context, limit int) ([]entity.City, error) {
	var docs []cityDocument
	if err := s.load(ctx, CitiesFile, &docs); err != nil {
		return nil, err
	}
	cities := make([]entity.City, 0, len(docs))
	for _, d := range docs {
		cities = append(cities, d.toEntity())
	}
	return truncate(cities, limit), nil
}

// CitiesByState returns the cities of a state from the export.
func (s *FallbackStore) CitiesByState(ctx context.Context, stateID uuid.UUID, limit int) ([]entity.City, error) {
	cities, err := s.Cities(ctx, 0)
	if err != nil {
		return nil, err
	}
	out := make([]entity.City, 0)
	for _, c := range cities {
		if c.StateID != nil && *c.StateID == stateID {
			out = append(out, c)
		}
	}
	return truncate(out, limit), nil
}

// CityBySlug finds a city in the export.
func (s *FallbackStore) CityBySlug(ctx context.Context, slug string) (*entity.City, error) {
	cities, err := s.Cities(ctx, 0)
	if err != nil {
		return nil, err
	}
	for i := range cities {
		if cities[i].Slug == slug {
			return &cities[i], nil
		}
	}
	return nil, ErrNotFound
}

// Listings returns up to limit listings from the export.
func (s *FallbackStore) Listings(ctx context.Context, limit int) ([]entity.Listing, error) {
	f, err := s.open(ctx, ListingsFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	listings, err := DecodeListingsJSON(f)
	if err != nil {
		return nil, err
	}
	return truncate(listings, limit), nil
}

// ListingsByCity returns the listings of a city from the export.
func (s *FallbackStore) ListingsByCity(ctx context.Context, cityID uuid.UUID, limit int) ([]entity.Listing, error) {
	listings, err := s.Listings(ctx, 0)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Listing, 0)
	for _, l := range listings {
		if l.CityID != nil && *l.CityID == cityID {
			out = append(out, l)
		}
	}
	return truncate(out, limit), nil
}

// ListingsByState returns the listings of a state from the export.
func (s *FallbackStore) ListingsByState(ctx context.Context, stateID uuid.UUID, limit int) ([]entity.Listing, error) {
	listings, err := s.Listings(ctx, 0)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Listing, 0)
	for _, l := range listings {
		if l.StateID != nil && *l.StateID == stateID {
			out = append(out, l)
		}
	}
	return truncate(out, limit), nil
}

// ListingBySlug finds a listing in the export.
func (s *FallbackStore) ListingBySlug(ctx context.Context, slug string) (*entity.Listing, error) {
	listings, err := s.Listings(ctx, 0)
	if err != nil {
		return nil, err
	}
	for i := range listings {
		if listings[i].Slug == slug {
			return &listings[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *FallbackStore) open(ctx context.Context, name string) (*os.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.dir == "" {
		return nil, fmt.Errorf("fallback store not configured")
	}
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return f, nil
}

func (s *FallbackStore) load(ctx context.Context, name string, dest any) error {
	f, err := s.open(ctx, name)
	if err != nil {
		return err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := unmarshalOneOrMany(data, dest); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// DecodeListingsJSON parses the listings export. The document may be a single
// object or an array of objects.
func DecodeListingsJSON(r io.Reader) ([]entity.Listing, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read listings: %w", err)
	}
	var docs []listingDocument
	if err := unmarshalOneOrMany(data, &docs); err != nil {
		return nil, fmt.Errorf("decode listings: %w", err)
	}
	listings := make([]entity.Listing, 0, len(docs))
	for _, d := range docs {
		listings = append(listings, d.toEntity())
	}
	return listings, nil
}

// ExternalID maps a CMS document id to a UUID. Ids that already are UUIDs are
// returned unchanged.
func ExternalID(raw string) *uuid.UUID {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if parsed, err := uuid.Parse(raw); err == nil {
		return &parsed
	}
	derived := uuid.NewSHA1(externalIDNamespace, []byte(raw))
	return &derived
}

func unmarshalOneOrMany(data []byte, dest any) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		wrapped := make([]byte, 0, len(trimmed)+2)
		wrapped = append(wrapped, '[')
		wrapped = append(wrapped, trimmed...)
		wrapped = append(wrapped, ']')
		trimmed = wrapped
	}
	return json.Unmarshal(trimmed, dest)
}

func truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

// stringList accepts either a JSON string or an array of strings.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*l = nil
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []string
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}
	var single string
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return err
	}
	*l = []string{single}
	return nil
}

type documentMeta struct {
	ID        string    `json:"$id"`
	Sequence  int       `json:"$sequence"`
	CreatedAt time.Time `json:"$createdAt"`
	UpdatedAt time.Time `json:"$updatedAt"`
}

func (m documentMeta) id() uuid.UUID {
	if id := ExternalID(m.ID); id != nil {
		return *id
	}
	return uuid.Nil
}

type stateDocument struct {
	documentMeta
	Name           string   `json:"name"`
	Slug           string   `json:"slug"`
	Image          *string  `json:"image"`
	Description    string   `json:"description"`
	SEOTitle       string   `json:"seoTitle"`
	SEODescription string   `json:"seoDescription"`
	H1Title        string   `json:"h1Title"`
	IntroText      string   `json:"introText"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
}

func (d stateDocument) toEntity() entity.State {
	return entity.State{
		ID:             d.id(),
		Name:           d.Name,
		Slug:           d.Slug,
		Image:          d.Image,
		Description:    d.Description,
		SEOTitle:       d.SEOTitle,
		SEODescription: d.SEODescription,
		H1Title:        d.H1Title,
		IntroText:      d.IntroText,
		Latitude:       d.Latitude,
		Longitude:      d.Longitude,
		Sequence:       d.Sequence,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

type cityDocument struct {
	stateDocument
	StateID string `json:"stateId"`
}

func (d cityDocument) toEntity() entity.City {
	s := d.stateDocument.toEntity()
	return entity.City{
		ID:             s.ID,
		Name:           s.Name,
		Slug:           s.Slug,
		Image:          s.Image,
		Description:    s.Description,
		SEOTitle:       s.SEOTitle,
		SEODescription: s.SEODescription,
		H1Title:        s.H1Title,
		IntroText:      s.IntroText,
		Latitude:       s.Latitude,
		Longitude:      s.Longitude,
		StateID:        ExternalID(d.StateID),
		Sequence:       s.Sequence,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

type listingDocument struct {
	documentMeta
	Title        string     `json:"title"`
	Slug         string     `json:"slug"`
	Address      *string    `json:"address"`
	Website      *string    `json:"website"`
	Phone        *string    `json:"phone"`
	Thumbnail    *string    `json:"thumbnail"`
	PlaceID      *string    `json:"placeId"`
	OpeningHours *string    `json:"openingHours"`
	BookingLinks *string    `json:"bookingLinks"`
	Latitude     *float64   `json:"latitude"`
	Longitude    *float64   `json:"longitude"`
	Rating       *float64   `json:"rating"`
	RatingCount  *int       `json:"ratingCount"`
	Verified     *bool      `json:"verified"`
	Featured     *bool      `json:"featured"`
	Types        stringList `json:"types"`
	Category     *string    `json:"category"`
	CityID       *string    `json:"cityId"`
	StateID      *string    `json:"stateId"`
}

func (d listingDocument) toEntity() entity.Listing {
	l := entity.Listing{
		ID:           d.id(),
		Slug:         d.Slug,
		Title:        d.Title,
		Address:      d.Address,
		Website:      d.Website,
		Phone:        d.Phone,
		Thumbnail:    d.Thumbnail,
		PlaceID:      d.PlaceID,
		OpeningHours: d.OpeningHours,
		BookingLinks: d.BookingLinks,
		Latitude:     d.Latitude,
		Longitude:    d.Longitude,
		Rating:       d.Rating,
		RatingCount:  d.RatingCount,
		Verified:     d.Verified,
		Featured:     d.Featured,
		Category:     d.Category,
		Sequence:     d.Sequence,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	if d.Types != nil {
		joined := strings.Join(d.Types, ", ")
		l.Types = &joined
	}
	if d.CityID != nil {
		l.CityID = ExternalID(*d.CityID)
	}
	if d.StateID != nil {
		l.StateID = ExternalID(*d.StateID)
	}
	return l
}
