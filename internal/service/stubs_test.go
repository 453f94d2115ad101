package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/octobees/servicefinder/internal/entity"
	"github.com/octobees/servicefinder/internal/repository"
)

type mockListingsRepository struct {
	list        func(ctx context.Context, limit int) ([]entity.Listing, error)
	listByCity  func(ctx context.Context, cityID uuid.UUID, limit int) ([]entity.Listing, error)
	listByState func(ctx context.Context, stateID uuid.UUID, limit int) ([]entity.Listing, error)
	getBySlug   func(ctx context.Context, slug string) (*entity.Listing, error)
	bulk        func(ctx context.Context, records []entity.Listing) (repository.BulkUpsertResult, error)
}

func (m *mockListingsRepository) List(ctx context.Context, limit int) ([]entity.Listing, error) {
	if m.list != nil {
		return m.list(ctx, limit)
	}
	return nil, errors.New("list not implemented")
}

func (m *mockListingsRepository) ListByCity(ctx context.Context, cityID uuid.UUID, limit int) ([]entity.Listing, error) {
	if m.listByCity != nil {
		return m.listByCity(ctx, cityID, limit)
	}
	return nil, errors.New("list by city not implemented")
}

func (m *mockListingsRepository) ListByState(ctx context.Context, stateID uuid.UUID, limit int) ([]entity.Listing, error) {
	if m.listByState != nil {
		return m.listByState(ctx, stateID, limit)
	}
	return nil, errors.New("list by state not implemented")
}

func (m *mockListingsRepository) GetBySlug(ctx context.Context, slug string) (*entity.Listing, error) {
	if m.getBySlug != nil {
		return m.getBySlug(ctx, slug)
	}
	return nil, errors.New("get by slug not implemented")
}

func (m *mockListingsRepository) BulkUpsert(ctx context.Context, records []entity.Listing) (repository.BulkUpsertResult, error) {
	if m.bulk != nil {
		return m.bulk(ctx, records)
	}
	return repository.BulkUpsertResult{}, errors.New("bulk not implemented")
}

// mockCatalogRepository serves fixed slices; err, when set, fails every read.
type mockCatalogRepository struct {
	states   []entity.State
	cities   []entity.City
	services []entity.Service
	err      error
	calls    int

	upsertState func(ctx context.Context, state *entity.State) (uuid.UUID, error)
	upsertCity  func(ctx context.Context, city *entity.City) (uuid.UUID, error)
}

func (m *mockCatalogRepository) ListStates(ctx context.Context, limit int) ([]entity.State, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.states, nil
}

func (m *mockCatalogRepository) GetStateBySlug(ctx context.Context, slug string) (*entity.State, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.states {
		if m.states[i].Slug == slug {
			return &m.states[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockCatalogRepository) ListCities(ctx context.Context, limit int) ([]entity.City, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.cities, nil
}

func (m *mockCatalogRepository) ListCitiesByState(ctx context.Context, stateID uuid.UUID, limit int) ([]entity.City, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := make([]entity.City, 0)
	for _, c := range m.cities {
		if c.StateID != nil && *c.StateID == stateID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCatalogRepository) GetCityBySlug(ctx context.Context, slug string) (*entity.City, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.cities {
		if m.cities[i].Slug == slug {
			return &m.cities[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockCatalogRepository) GetCityByID(ctx context.Context, id uuid.UUID) (*entity.City, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.cities {
		if m.cities[i].ID == id {
			return &m.cities[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockCatalogRepository) ListServices(ctx context.Context, limit int) ([]entity.Service, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.services, nil
}

func (m *mockCatalogRepository) GetServiceBySlug(ctx context.Context, slug string) (*entity.Service, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.services {
		if m.services[i].Slug == slug {
			return &m.services[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockCatalogRepository) GetSingleService(ctx context.Context) (*entity.Service, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.services) == 0 {
		return nil, repository.ErrNotFound
	}
	return &m.services[0], nil
}

func (m *mockCatalogRepository) UpsertState(ctx context.Context, state *entity.State) (uuid.UUID, error) {
	if m.upsertState != nil {
		return m.upsertState(ctx, state)
	}
	return uuid.Nil, errors.New("upsert state not implemented")
}

func (m *mockCatalogRepository) UpsertCity(ctx context.Context, city *entity.City) (uuid.UUID, error) {
	if m.upsertCity != nil {
		return m.upsertCity(ctx, city)
	}
	return uuid.Nil, errors.New("upsert city not implemented")
}

type mockSiteRepository struct {
	info  *entity.BasicInfo
	err   error
	calls int
}

func (m *mockSiteRepository) GetLiveBasicInfo(ctx context.Context) (*entity.BasicInfo, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if m.info == nil {
		return nil, repository.ErrNotFound
	}
	return m.info, nil
}

type mockContactRepository struct {
	create func(ctx context.Context, msg *entity.ContactMessage) (*entity.ContactMessage, error)
}

func (m *mockContactRepository) Create(ctx context.Context, msg *entity.ContactMessage) (*entity.ContactMessage, error) {
	if m.create != nil {
		return m.create(ctx, msg)
	}
	return nil, errors.New("create not implemented")
}

func ptr[T any](v T) *T { return &v }
