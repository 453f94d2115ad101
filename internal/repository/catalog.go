package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/servicefinder/internal/entity"
)

// CatalogRepository describes the geographic and service catalogue.
type CatalogRepository interface {
	ListStates(ctx context.Context, limit int) ([]entity.State, error)
	GetStateBySlug(ctx context.Context, slug string) (*entity.State, error)
	ListCities(ctx context.Context, limit int) ([]entity.City, error)
	ListCitiesByState(ctx context.Context, stateID uuid.UUID, limit int) ([]entity.City, error)
	GetCityBySlug(ctx context.Context, slug string) (*entity.City, error)
	GetCityByID(ctx context.Context, id uuid.UUID) (*entity.City, error)
	ListServices(ctx context.Context, limit int) ([]entity.Service, error)
	GetServiceBySlug(ctx context.Context, slug string) (*entity.Service, error)
	GetSingleService(ctx context.Context) (*entity.Service, error)
	UpsertState(ctx context.Context, state *entity.State) (uuid.UUID, error)
	UpsertCity(ctx context.Context, city *entity.City) (uuid.UUID, error)
}

// PGXCatalogRepository implements CatalogRepository using pgx.
type PGXCatalogRepository struct {
	pool pgxPool
}

// NewPGXCatalogRepository wires a pgx backed repository.
func NewPGXCatalogRepository(pool *pgxpool.Pool) *PGXCatalogRepository {
	return &PGXCatalogRepository{pool: pool}
}

const stateColumns = `id, name, slug, image, description, seo_title, seo_description, h1_title, intro_text, latitude, longitude, sequence, created_at, updated_at`

const cityColumns = `id, name, slug, image, description, seo_title, seo_description, h1_title, intro_text, latitude, longitude, state_id, sequence, created_at, updated_at`

const serviceColumns = `id, name, slug, category, image_url, description, seo_title, seo_description, h1_title, intro_text, icon, types, types_intro, types_conclusion, sequence, created_at, updated_at`

// ListStates returns states in editorial order.
func (r *PGXCatalogRepository) ListStates(ctx context.Context, limit int) ([]entity.State, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+stateColumns+` FROM states ORDER BY sequence ASC, name ASC LIMIT $1`, clampLimit(limit, 20))
	if err != nil {
		return nil, fmt.Errorf("list states: %w", err)
	}
	defer rows.Close()
	return scanStates(rows)
}

// GetStateBySlug fetches a single state.
func (r *PGXCatalogRepository) GetStateBySlug(ctx context.Context, slug string) (*entity.State, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+stateColumns+` FROM states WHERE slug = $1 LIMIT 1`, slug)
	if err != nil {
		return nil, fmt.Errorf("get state by slug: %w", err)
	}
	defer rows.Close()
	states, err := scanStates(rows)
	if err != nil {
		return nil, err
	}
	if len(states) == 0 {
		return nil, ErrNotFound
	}
	return &states[0], nil
}

// ListCities returns cities in editorial order.
func (r *PGXCatalogRepository) ListCities(ctx context.Context, limit int) ([]entity.City, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+cityColumns+` FROM cities ORDER BY sequence ASC, name ASC LIMIT $1`, clampLimit(limit, 12))
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	defer rows.Close()
	return scanCities(rows)
}

// ListCitiesByState returns the cities of a state.
func (r *PGXCatalogRepository) ListCitiesByState(ctx context.Context, stateID uuid.UUID, limit int) ([]entity.City, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+cityColumns+` FROM cities WHERE state_id = $1 ORDER BY sequence ASC, name ASC LIMIT $2`, stateID, clampLimit(limit, 20))
	if err != nil {
		return nil, fmt.Errorf("list cities by state: %w", err)
	}
	defer rows.Close()
	return scanCities(rows)
}

// GetCityBySlug fetches a single city.
func (r *PGXCatalogRepository) GetCityBySlug(ctx context.Context, slug string) (*entity.City, error) {
	return r.getCity(ctx, `SELECT `+cityColumns+` FROM cities WHERE slug = $1 LIMIT 1`, slug)
}

// GetCityByID fetches a single city by identifier.
func (r *PGXCatalogRepository) GetCityByID(ctx context.Context, id uuid.UUID) (*entity.City, error) {
	return r.getCity(ctx, `SELECT `+cityColumns+` FROM cities WHERE id = $1 LIMIT 1`, id)
}

func (r *PGXCatalogRepository) getCity(ctx context.Context, query string, arg any) (*entity.City, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("get city: %w", err)
	}
	defer rows.Close()
	cities, err := scanCities(rows)
	if err != nil {
		return nil, err
	}
	if len(cities) == 0 {
		return nil, ErrNotFound
	}
	return &cities[0], nil
}

// ListServices returns services in editorial order.
func (r *PGXCatalogRepository) ListServices(ctx context.Context, limit int) ([]entity.Service, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+serviceColumns+` FROM services ORDER BY sequence ASC, name ASC LIMIT $1`, clampLimit(limit, 12))
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()
	return scanServices(rows)
}

// GetServiceBySlug fetches a single service.
func (r *PGXCatalogRepository) GetServiceBySlug(ctx context.Context, slug string) (*entity.Service, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+serviceColumns+` FROM services WHERE slug = $1 LIMIT 1`, slug)
	if err != nil {
		return nil, fmt.Errorf("get service by slug: %w", err)
	}
	defer rows.Close()
	services, err := scanServices(rows)
	if err != nil {
		return nil, err
	}
	if len(services) == 0 {
		return nil, ErrNotFound
	}
	return &services[0], nil
}

// GetSingleService returns the first service in editorial order. The home page
// uses it as the default service.
func (r *PGXCatalogRepository) GetSingleService(ctx context.Context) (*entity.Service, error) {
	services, err := r.ListServices(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(services) == 0 {
		return nil, ErrNotFound
	}
	return &services[0], nil
}

// UpsertState inserts or updates a state keyed by slug and returns its id.
func (r *PGXCatalogRepository) UpsertState(ctx context.Context, state *entity.State) (uuid.UUID, error) {
	if state == nil {
		return uuid.Nil, fmt.Errorf("state payload is nil")
	}
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `
        INSERT INTO states (name, slug, image, description, seo_title, seo_description, h1_title, intro_text, latitude, longitude, sequence, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,NOW())
        ON CONFLICT (slug) DO UPDATE SET
            name = EXCLUDED.name,
            image = EXCLUDED.image,
            description = EXCLUDED.description,
            seo_title = EXCLUDED.seo_title,
            seo_description = EXCLUDED.seo_description,
            h1_title = EXCLUDED.h1_title,
            intro_text = EXCLUDED.intro_text,
            latitude = EXCLUDED.latitude,
            longitude = EXCLUDED.longitude,
            sequence = EXCLUDED.sequence,
            updated_at = NOW()
        RETURNING id
    `,
		state.Name, state.Slug, stringOrNil(state.Image), state.Description, state.SEOTitle,
		state.SEODescription, state.H1Title, state.IntroText,
		floatOrNil(state.Latitude), floatOrNil(state.Longitude), state.Sequence,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("upsert state %q: %w", state.Slug, err)
	}
	return id, nil
}

// UpsertCity inserts or updates a city keyed by slug and returns its id.
func (r *PGXCatalogRepository) UpsertCity(ctx context.Context, city *entity.City) (uuid.UUID, error) {
	if city == nil {
		return uuid.Nil, fmt.Errorf("city payload is nil")
	}
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `
        INSERT INTO cities (name, slug, image, description, seo_title, seo_description, h1_title, intro_text, latitude, longitude, state_id, sequence, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,NOW())
        ON CONFLICT (slug) DO UPDATE SET
            name = EXCLUDED.name,
            image = EXCLUDED.image,
            description = EXCLUDED.description,
            seo_title = EXCLUDED.seo_title,
            seo_description = EXCLUDED.seo_description,
            h1_title = EXCLUDED.h1_title,
            intro_text = EXCLUDED.intro_text,
            latitude = EXCLUDED.latitude,
            longitude = EXCLUDED.longitude,
            state_id = COALESCE(EXCLUDED.state_id, cities.state_id),
            sequence = EXCLUDED.sequence,
            updated_at = NOW()
        RETURNING id
    `,
		city.Name, city.Slug, stringOrNil(city.Image), city.Description, city.SEOTitle,
		city.SEODescription, city.H1Title, city.IntroText,
		floatOrNil(city.Latitude), floatOrNil(city.Longitude), uuidOrNil(city.StateID), city.Sequence,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("upsert city %q: %w", city.Slug, err)
	}
	return id, nil
}

func scanStates(rows pgx.Rows) ([]entity.State, error) {
	states := make([]entity.State, 0)
	for rows.Next() {
		var (
			s         entity.State
			image     sql.NullString
			latitude  sql.NullFloat64
			longitude sql.NullFloat64
		)
		if err := rows.Scan(
			&s.ID, &s.Name, &s.Slug, &image, &s.Description, &s.SEOTitle, &s.SEODescription,
			&s.H1Title, &s.IntroText, &latitude, &longitude, &s.Sequence, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan state: %w", err)
		}
		s.Image = nullStringToPtr(image)
		s.Latitude = nullFloatToPtr(latitude)
		s.Longitude = nullFloatToPtr(longitude)
		states = append(states, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate states: %w", err)
	}
	return states, nil
}

func scanCities(rows pgx.Rows) ([]entity.City, error) {
	cities := make([]entity.City, 0)
	for rows.Next() {
		var (
			c         entity.City
			image     sql.NullString
			latitude  sql.NullFloat64
			longitude sql.NullFloat64
			stateID   sql.NullString
		)
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Slug, &image, &c.Description, &c.SEOTitle, &c.SEODescription,
			&c.H1Title, &c.IntroText, &latitude, &longitude, &stateID, &c.Sequence, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan city: %w", err)
		}
		c.Image = nullStringToPtr(image)
		c.Latitude = nullFloatToPtr(latitude)
		c.Longitude = nullFloatToPtr(longitude)
		parsed, err := parseNullUUID(stateID, "state_id")
		if err != nil {
			return nil, err
		}
		c.StateID = parsed
		cities = append(cities, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cities: %w", err)
	}
	return cities, nil
}

func scanServices(rows pgx.Rows) ([]entity.Service, error) {
	services := make([]entity.Service, 0)
	for rows.Next() {
		var (
			s               entity.Service
			category        sql.NullString
			icon            sql.NullString
			typesIntro      sql.NullString
			typesConclusion sql.NullString
			types           []string
		)
		if err := rows.Scan(
			&s.ID, &s.Name, &s.Slug, &category, &s.ImageURL, &s.Description, &s.SEOTitle,
			&s.SEODescription, &s.H1Title, &s.IntroText, &icon, &types, &typesIntro,
			&typesConclusion, &s.Sequence, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		s.Category = nullStringToPtr(category)
		s.Icon = nullStringToPtr(icon)
		s.TypesIntro = nullStringToPtr(typesIntro)
		s.TypesConclusion = nullStringToPtr(typesConclusion)
		if len(types) > 0 {
			s.Types = append([]string(nil), types...)
		}
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate services: %w", err)
	}
	return services, nil
}
