package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/octobees/servicefinder/internal/entity"
	"github.com/octobees/servicefinder/internal/repository"
)

// CSVValidationError indicates that the provided CSV payload is invalid.
type CSVValidationError struct {
	Message string
}

// Error implements the error interface.
func (e CSVValidationError) Error() string {
	return e.Message
}

// UploadSummary reports how many rows were inserted or updated during import.
type UploadSummary struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Total    int `json:"total"`
}

// ExportSummary reports the outcome of importing a full content export.
type ExportSummary struct {
	States   int           `json:"states"`
	Cities   int           `json:"cities"`
	Listings UploadSummary `json:"listings"`
}

// ImportService loads listings and catalogue content into the database.
type ImportService struct {
	listings repository.ListingsRepository
	catalog  repository.CatalogRepository
	region   string
}

// NewImportService creates a new instance of ImportService.
func NewImportService(listings repository.ListingsRepository, catalog repository.CatalogRepository, region string) *ImportService {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		region = defaultPhoneRegion
	}
	return &ImportService{listings: listings, catalog: catalog, region: region}
}

var requiredCSVHeaders = []string{"title", "address", "rating", "reviews", "city"}

// ImportListingsCSV ingests listings from a CSV reader. The city column holds a
// city slug or name that must already exist.
func (s *ImportService) ImportListingsCSV(ctx context.Context, r io.Reader) (UploadSummary, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return UploadSummary{}, CSVValidationError{Message: "csv file is empty"}
		}
		return UploadSummary{}, fmt.Errorf("read csv header: %w", err)
	}

	index, valErr := buildHeaderIndex(header)
	if valErr != nil {
		return UploadSummary{}, valErr
	}
	col := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	cities := make(map[string]*entity.City)
	var (
		records []entity.Listing
		rowNum  = 1
	)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return UploadSummary{}, fmt.Errorf("read csv row: %w", err)
		}
		rowNum++

		title := col(row, "title")
		address := col(row, "address")
		if title == "" || address == "" {
			continue
		}

		rating, err := parseOptionalFloat(col(row, "rating"))
		if err != nil || (rating != nil && (*rating < 0 || *rating > 5)) {
			return UploadSummary{}, CSVValidationError{Message: fmt.Sprintf("invalid rating value on row %d", rowNum)}
		}
		reviews, err := parseOptionalInt(col(row, "reviews"))
		if err != nil || (reviews != nil && *reviews < 0) {
			return UploadSummary{}, CSVValidationError{Message: fmt.Sprintf("invalid reviews value on row %d", rowNum)}
		}
		latitude, err := parseOptionalFloat(col(row, "latitude"))
		if err != nil {
			return UploadSummary{}, CSVValidationError{Message: fmt.Sprintf("invalid latitude value on row %d", rowNum)}
		}
		longitude, err := parseOptionalFloat(col(row, "longitude"))
		if err != nil {
			return UploadSummary{}, CSVValidationError{Message: fmt.Sprintf("invalid longitude value on row %d", rowNum)}
		}
		verified, err := parseOptionalBool(col(row, "verified"))
		if err != nil {
			return UploadSummary{}, CSVValidationError{Message: fmt.Sprintf("invalid verified value on row %d", rowNum)}
		}
		featured, err := parseOptionalBool(col(row, "featured"))
		if err != nil {
			return UploadSummary{}, CSVValidationError{Message: fmt.Sprintf("invalid featured value on row %d", rowNum)}
		}

		city, err := s.resolveCity(ctx, cities, col(row, "city"))
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return UploadSummary{}, CSVValidationError{Message: fmt.Sprintf("unknown city %q on row %d", col(row, "city"), rowNum)}
			}
			return UploadSummary{}, err
		}

		listing := entity.Listing{
			Slug:         col(row, "slug"),
			Title:        title,
			Address:      normalizeString(address),
			Website:      normalizeString(col(row, "website")),
			Phone:        normalizeString(col(row, "phone")),
			Thumbnail:    normalizeString(col(row, "thumbnail")),
			PlaceID:      normalizeString(col(row, "place_id")),
			OpeningHours: normalizeString(col(row, "opening_hours")),
			BookingLinks: normalizeString(col(row, "booking_links")),
			Latitude:     latitude,
			Longitude:    longitude,
			Rating:       rating,
			RatingCount:  reviews,
			Verified:     verified,
			Featured:     featured,
			Types:        normalizeString(col(row, "types")),
			Category:     normalizeString(col(row, "category")),
			Sequence:     rowNum - 1,
		}
		if city != nil {
			listing.CityID = &city.ID
			listing.StateID = city.StateID
		}
		if normalized, ok := s.normalizeListing(listing); ok {
			records = append(records, normalized)
		}
	}

	return s.upsert(ctx, records)
}

// ImportExport loads states, cities and listings from a content export
// directory, remapping the export's document ids to database ids.
func (s *ImportService) ImportExport(ctx context.Context, dir string) (ExportSummary, error) {
	store := repository.NewFallbackStore(dir)
	var summary ExportSummary

	states, err := store.States(ctx, 0)
	if err != nil {
		return summary, err
	}
	stateIDs := make(map[uuid.UUID]uuid.UUID, len(states))
	for _, st := range states {
		id, err := s.catalog.UpsertState(ctx, &st)
		if err != nil {
			return summary, err
		}
		stateIDs[st.ID] = id
		summary.States++
	}

	cities, err := store.Cities(ctx, 0)
	if err != nil {
		return summary, err
	}
	cityIDs := make(map[uuid.UUID]uuid.UUID, len(cities))
	cityStates := make(map[uuid.UUID]*uuid.UUID, len(cities))
	for _, c := range cities {
		c.StateID = remap(stateIDs, c.StateID)
		id, err := s.catalog.UpsertCity(ctx, &c)
		if err != nil {
			return summary, err
		}
		cityIDs[c.ID] = id
		cityStates[id] = c.StateID
		summary.Cities++
	}

	listings, err := store.Listings(ctx, 0)
	if err != nil {
		return summary, err
	}
	records := make([]entity.Listing, 0, len(listings))
	for i, l := range listings {
		l.CityID = remap(cityIDs, l.CityID)
		l.StateID = remap(stateIDs, l.StateID)
		if l.StateID == nil && l.CityID != nil {
			l.StateID = cityStates[*l.CityID]
		}
		if l.Sequence == 0 {
			l.Sequence = i + 1
		}
		if normalized, ok := s.normalizeListing(l); ok {
			records = append(records, normalized)
		}
	}

	summary.Listings, err = s.upsert(ctx, records)
	return summary, err
}

func (s *ImportService) upsert(ctx context.Context, records []entity.Listing) (UploadSummary, error) {
	result, err := s.listings.BulkUpsert(ctx, records)
	if err != nil {
		return UploadSummary{}, err
	}
	return UploadSummary{
		Inserted: result.Inserted,
		Updated:  result.Updated,
		Total:    result.Total,
	}, nil
}

// normalizeListing fills the slug and rewrites phone and website into their
// canonical forms. Values that cannot be normalised are dropped. Listings
// whose slug normalises to nothing are skipped.
func (s *ImportService) normalizeListing(l entity.Listing) (entity.Listing, bool) {
	l.Title = strings.TrimSpace(l.Title)
	if strings.TrimSpace(l.Slug) == "" {
		l.Slug = Slugify(l.Title)
	} else {
		l.Slug = Slugify(l.Slug)
	}
	if l.Slug == "" {
		return l, false
	}
	if l.Phone != nil {
		l.Phone = normalizeString(normalizePhone(*l.Phone, s.region))
	}
	if l.Website != nil {
		l.Website = normalizeString(normalizeWebsite(*l.Website))
	}
	return l, true
}

func (s *ImportService) resolveCity(ctx context.Context, cache map[string]*entity.City, raw string) (*entity.City, error) {
	slug := Slugify(raw)
	if slug == "" {
		return nil, nil
	}
	if city, ok := cache[slug]; ok {
		return city, nil
	}
	city, err := s.catalog.GetCityBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	cache[slug] = city
	return city, nil
}

func remap(ids map[uuid.UUID]uuid.UUID, id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	mapped, ok := ids[*id]
	if !ok {
		return nil
	}
	return &mapped
}

func buildHeaderIndex(header []string) (map[string]int, error) {
	index := make(map[string]int)
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}

	missing := make([]string, 0)
	for _, required := range requiredCSVHeaders {
		if _, ok := index[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, CSVValidationError{Message: fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", "))}
	}
	return index, nil
}

func parseOptionalFloat(value string) (*float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(strings.Replace(value, ",", ".", 1), 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func parseOptionalInt(value string) (*int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	i, err := strconv.Atoi(strings.ReplaceAll(value, ".", ""))
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func parseOptionalBool(value string) (*bool, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	switch value {
	case "":
		return nil, nil
	case "sim", "yes", "y":
		b := true
		return &b, nil
	case "não", "nao", "no", "n":
		b := false
		return &b, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func normalizeString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
