package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/servicefinder/internal/entity"
)

// ListingsRepository describes read and ingestion operations for listings.
type ListingsRepository interface {
	List(ctx context.Context, limit int) ([]entity.Listing, error)
	ListByCity(ctx context.Context, cityID uuid.UUID, limit int) ([]entity.Listing, error)
	ListByState(ctx context.Context, stateID uuid.UUID, limit int) ([]entity.Listing, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Listing, error)
	BulkUpsert(ctx context.Context, records []entity.Listing) (BulkUpsertResult, error)
}

// BulkUpsertResult summarises the number of rows inserted or updated.
type BulkUpsertResult struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Total    int `json:"total"`
}

// PGXListingsRepository implements ListingsRepository using pgx.
type PGXListingsRepository struct {
	pool pgxPool
}

// NewPGXListingsRepository wires a pgx backed repository.
func NewPGXListingsRepository(pool *pgxpool.Pool) *PGXListingsRepository {
	return &PGXListingsRepository{pool: pool}
}

const listingColumns = `
            id,
            slug,
            title,
            address,
            website,
            phone,
            thumbnail,
            place_id,
            opening_hours,
            booking_links,
            latitude,
            longitude,
            rating,
            rating_count,
            verified,
            featured,
            types,
            category,
            city_id,
            state_id,
            sequence,
            created_at,
            updated_at
`

const defaultListingsLimit = 12

// List returns the first listings of the directory in editorial order.
func (r *PGXListingsRepository) List(ctx context.Context, limit int) ([]entity.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings ORDER BY sequence ASC, title ASC LIMIT $1`
	rows, err := r.pool.Query(ctx, query, clampLimit(limit, defaultListingsLimit))
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()
	return scanListings(rows)
}

// ListByCity returns the listings attached to a city.
func (r *PGXListingsRepository) ListByCity(ctx context.Context, cityID uuid.UUID, limit int) ([]entity.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE city_id = $1 ORDER BY sequence ASC, title ASC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, cityID, clampLimit(limit, 20))
	if err != nil {
		return nil, fmt.Errorf("list listings by city: %w", err)
	}
	defer rows.Close()
	return scanListings(rows)
}

// ListByState returns the listings attached to a state.
func (r *PGXListingsRepository) ListByState(ctx context.Context, stateID uuid.UUID, limit int) ([]entity.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE state_id = $1 ORDER BY sequence ASC, title ASC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, stateID, clampLimit(limit, 20))
	if err != nil {
		return nil, fmt.Errorf("list listings by state: %w", err)
	}
	defer rows.Close()
	return scanListings(rows)
}

// GetBySlug fetches a single listing.
func (r *PGXListingsRepository) GetBySlug(ctx context.Context, slug string) (*entity.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE slug = $1 LIMIT 1`
	rows, err := r.pool.Query(ctx, query, slug)
	if err != nil {
		return nil, fmt.Errorf("get listing by slug: %w", err)
	}
	defer rows.Close()

	listings, err := scanListings(rows)
	if err != nil {
		return nil, err
	}
	if len(listings) == 0 {
		return nil, ErrNotFound
	}
	return &listings[0], nil
}

const bulkUpsertListingSQL = `
        INSERT INTO listings (
            slug, title, address, website, phone, thumbnail, place_id, opening_hours,
            booking_links, latitude, longitude, rating, rating_count, verified, featured,
            types, category, city_id, state_id, sequence, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,NOW())
        ON CONFLICT (slug) DO UPDATE SET
            title = EXCLUDED.title,
            address = EXCLUDED.address,
            website = EXCLUDED.website,
            phone = EXCLUDED.phone,
            thumbnail = EXCLUDED.thumbnail,
            place_id = EXCLUDED.place_id,
            opening_hours = EXCLUDED.opening_hours,
            booking_links = EXCLUDED.booking_links,
            latitude = EXCLUDED.latitude,
            longitude = EXCLUDED.longitude,
            rating = EXCLUDED.rating,
            rating_count = EXCLUDED.rating_count,
            verified = EXCLUDED.verified,
            featured = EXCLUDED.featured,
            types = EXCLUDED.types,
            category = EXCLUDED.category,
            city_id = COALESCE(EXCLUDED.city_id, listings.city_id),
            state_id = COALESCE(EXCLUDED.state_id, listings.state_id),
            sequence = EXCLUDED.sequence,
            updated_at = NOW()
        RETURNING xmax = 0;
    `

// BulkUpsert persists a batch of listings keyed by slug in a single transaction.
func (r *PGXListingsRepository) BulkUpsert(ctx context.Context, records []entity.Listing) (BulkUpsertResult, error) {
	var result BulkUpsertResult
	if len(records) == 0 {
		return result, nil
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return result, fmt.Errorf("start bulk upsert tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, record := range records {
		var inserted bool
		err := tx.QueryRow(ctx, bulkUpsertListingSQL,
			record.Slug,
			record.Title,
			stringOrNil(record.Address),
			stringOrNil(record.Website),
			stringOrNil(record.Phone),
			stringOrNil(record.Thumbnail),
			stringOrNil(record.PlaceID),
			stringOrNil(record.OpeningHours),
			stringOrNil(record.BookingLinks),
			floatOrNil(record.Latitude),
			floatOrNil(record.Longitude),
			floatOrNil(record.Rating),
			intOrNil(record.RatingCount),
			boolOrNil(record.Verified),
			boolOrNil(record.Featured),
			stringOrNil(record.Types),
			stringOrNil(record.Category),
			uuidOrNil(record.CityID),
			uuidOrNil(record.StateID),
			record.Sequence,
		).Scan(&inserted)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return result, fmt.Errorf("bulk upsert listing %q: no result returned", record.Slug)
			}
			return result, fmt.Errorf("bulk upsert listing %q: %w", record.Slug, err)
		}

		if inserted {
			result.Inserted++
		} else {
			result.Updated++
		}
		result.Total++
	}

	if err := tx.Commit(ctx); err != nil {
		return result, fmt.Errorf("commit bulk upsert tx: %w", err)
	}

	return result, nil
}

func scanListings(rows pgx.Rows) ([]entity.Listing, error) {
	listings := make([]entity.Listing, 0)
	for rows.Next() {
		var (
			l            entity.Listing
			address      sql.NullString
			website      sql.NullString
			phone        sql.NullString
			thumbnail    sql.NullString
			placeID      sql.NullString
			openingHours sql.NullString
			bookingLinks sql.NullString
			latitude     sql.NullFloat64
			longitude    sql.NullFloat64
			rating       sql.NullFloat64
			ratingCount  sql.NullInt64
			verified     sql.NullBool
			featured     sql.NullBool
			types        sql.NullString
			category     sql.NullString
			cityID       sql.NullString
			stateID      sql.NullString
		)

		err := rows.Scan(
			&l.ID,
			&l.Slug,
			&l.Title,
			&address,
			&website,
			&phone,
			&thumbnail,
			&placeID,
			&openingHours,
			&bookingLinks,
			&latitude,
			&longitude,
			&rating,
			&ratingCount,
			&verified,
			&featured,
			&types,
			&category,
			&cityID,
			&stateID,
			&l.Sequence,
			&l.CreatedAt,
			&l.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}

		l.Address = nullStringToPtr(address)
		l.Website = nullStringToPtr(website)
		l.Phone = nullStringToPtr(phone)
		l.Thumbnail = nullStringToPtr(thumbnail)
		l.PlaceID = nullStringToPtr(placeID)
		l.OpeningHours = nullStringToPtr(openingHours)
		l.BookingLinks = nullStringToPtr(bookingLinks)
		l.Latitude = nullFloatToPtr(latitude)
		l.Longitude = nullFloatToPtr(longitude)
		l.Rating = nullFloatToPtr(rating)
		l.Types = nullStringToPtr(types)
		l.Category = nullStringToPtr(category)
		if ratingCount.Valid {
			cast := int(ratingCount.Int64)
			l.RatingCount = &cast
		}
		if verified.Valid {
			val := verified.Bool
			l.Verified = &val
		}
		if featured.Valid {
			val := featured.Bool
			l.Featured = &val
		}
		if l.CityID, err = parseNullUUID(cityID, "city_id"); err != nil {
			return nil, err
		}
		if l.StateID, err = parseNullUUID(stateID, "state_id"); err != nil {
			return nil, err
		}

		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}
	return listings, nil
}

func parseNullUUID(value sql.NullString, column string) (*uuid.UUID, error) {
	if !value.Valid {
		return nil, nil
	}
	parsed, err := uuid.Parse(value.String)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", column, err)
	}
	return &parsed, nil
}

func uuidOrNil(value *uuid.UUID) any {
	if value == nil || *value == uuid.Nil {
		return nil
	}
	return *value
}
