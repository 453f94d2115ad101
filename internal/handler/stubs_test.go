package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/octobees/servicefinder/internal/entity"
	"github.com/octobees/servicefinder/internal/repository"
	"github.com/octobees/servicefinder/internal/service"
)

var (
	campinasID = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	spID       = uuid.MustParse("33333333-3333-3333-3333-333333333333")
	// Monday 2024-01-01 10:00 in São Paulo.
	mondayMorning = time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC)
)

// fakeDirectory serves every repository interface from in-memory slices.
type fakeDirectory struct {
	states   []entity.State
	cities   []entity.City
	services []entity.Service
	listings []entity.Listing
	info     *entity.BasicInfo
	err      error
	created  *entity.ContactMessage
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		states:   []entity.State{{ID: spID, Name: "São Paulo", Slug: "sao-paulo"}},
		cities:   []entity.City{{ID: campinasID, Name: "Campinas", Slug: "campinas", StateID: ptr(spID)}},
		services: []entity.Service{{ID: uuid.New(), Name: "Ar-condicionado", Slug: "ar-condicionado"}},
		listings: []entity.Listing{
			{
				ID: uuid.New(), Slug: "refrigeracao-sul", Title: "Refrigeração Sul",
				Rating: ptr(4.8), RatingCount: ptr(120), Verified: ptr(true),
				Types:        ptr("HVAC contractor"),
				OpeningHours: ptr(`{"Monday":"8:00 AM–6:00 PM"}`),
				CityID:       ptr(campinasID), StateID: ptr(spID),
			},
			{
				ID: uuid.New(), Slug: "eletro-centro", Title: "Eletro Centro",
				Rating: ptr(3.9), RatingCount: ptr(300),
				Types:        ptr("Electrical contractor"),
				OpeningHours: ptr(`{"Monday":"Closed"}`),
				CityID:       ptr(campinasID), StateID: ptr(spID),
			},
		},
	}
}

func (f *fakeDirectory) List(ctx context.Context, limit int) ([]entity.Listing, error) {
	return f.listings, f.err
}

func (f *fakeDirectory) ListByCity(ctx context.Context, cityID uuid.UUID, limit int) ([]entity.Listing, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]entity.Listing, 0)
	for _, l := range f.listings {
		if l.CityID != nil && *l.CityID == cityID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeDirectory) ListByState(ctx context.Context, stateID uuid.UUID, limit int) ([]entity.Listing, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]entity.Listing, 0)
	for _, l := range f.listings {
		if l.StateID != nil && *l.StateID == stateID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeDirectory) GetBySlug(ctx context.Context, slug string) (*entity.Listing, error) {
	return find(f, f.listings, func(l entity.Listing) bool { return l.Slug == slug })
}

func (f *fakeDirectory) BulkUpsert(ctx context.Context, records []entity.Listing) (repository.BulkUpsertResult, error) {
	return repository.BulkUpsertResult{}, nil
}

func (f *fakeDirectory) ListStates(ctx context.Context, limit int) ([]entity.State, error) {
	return f.states, f.err
}

func (f *fakeDirectory) GetStateBySlug(ctx context.Context, slug string) (*entity.State, error) {
	return find(f, f.states, func(s entity.State) bool { return s.Slug == slug })
}

func (f *fakeDirectory) ListCities(ctx context.Context, limit int) ([]entity.City, error) {
	return f.cities, f.err
}

func (f *fakeDirectory) ListCitiesByState(ctx context.Context, stateID uuid.UUID, limit int) ([]entity.City, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]entity.City, 0)
	for _, c := range f.cities {
		if c.StateID != nil && *c.StateID == stateID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeDirectory) GetCityBySlug(ctx context.Context, slug string) (*entity.City, error) {
	return find(f, f.cities, func(c entity.City) bool { return c.Slug == slug })
}

func (f *fakeDirectory) GetCityByID(ctx context.Context, id uuid.UUID) (*entity.City, error) {
	return find(f, f.cities, func(c entity.City) bool { return c.ID == id })
}

func (f *fakeDirectory) ListServices(ctx context.Context, limit int) ([]entity.Service, error) {
	return f.services, f.err
}

func (f *fakeDirectory) GetServiceBySlug(ctx context.Context, slug string) (*entity.Service, error) {
	return find(f, f.services, func(s entity.Service) bool { return s.Slug == slug })
}

func (f *fakeDirectory) GetSingleService(ctx context.Context) (*entity.Service, error) {
	return find(f, f.services, func(entity.Service) bool { return true })
}

func (f *fakeDirectory) UpsertState(ctx context.Context, state *entity.State) (uuid.UUID, error) {
	return state.ID, nil
}

func (f *fakeDirectory) UpsertCity(ctx context.Context, city *entity.City) (uuid.UUID, error) {
	return city.ID, nil
}

func (f *fakeDirectory) GetLiveBasicInfo(ctx context.Context) (*entity.BasicInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.info == nil {
		return nil, repository.ErrNotFound
	}
	return f.info, nil
}

func (f *fakeDirectory) Create(ctx context.Context, msg *entity.ContactMessage) (*entity.ContactMessage, error) {
	if f.err != nil {
		return nil, f.err
	}
	stored := *msg
	stored.ID = uuid.New()
	stored.CreatedAt = mondayMorning
	f.created = &stored
	return &stored, nil
}

func find[T any](f *fakeDirectory, items []T, match func(T) bool) (*T, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, item := range items {
		if match(item) {
			return &item, nil
		}
	}
	return nil, repository.ErrNotFound
}

type testServices struct {
	catalog  *service.CatalogService
	site     *service.SiteService
	listings *service.ListingsService
	contact  *service.ContactService
}

func newTestServices(dir *fakeDirectory) testServices {
	catalog := service.NewCatalogService(dir, nil, nil, 0)
	site := service.NewSiteService(dir, nil, 0, service.DefaultTheme)
	return testServices{
		catalog: catalog,
		site:    site,
		listings: service.NewListingsService(dir, catalog, site,
			service.WithListingsClock(func() time.Time { return mondayMorning }),
			service.WithSiteLocation(time.FixedZone("BRT", -3*60*60)),
		),
		contact: service.NewContactService(dir, "BR"),
	}
}

// serve runs h against a request whose path parameters are given as
// name/value pairs and decodes the envelope.
func serve(t *testing.T, h echo.HandlerFunc, method, target, body string, params ...string) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if len(params) > 0 {
		names := make([]string, 0, len(params)/2)
		values := make([]string, 0, len(params)/2)
		for i := 0; i+1 < len(params); i += 2 {
			names = append(names, params[i])
			values = append(values, params[i+1])
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}

	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var payload APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return rec, payload
}

// decodeData re-decodes the envelope data into out.
func decodeData(t *testing.T, payload APIResponse, out any) {
	t.Helper()
	raw, err := json.Marshal(payload.Data)
	if err != nil {
		t.Fatalf("failed to encode data: %v", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("failed to decode data: %v", err)
	}
}

func ptr[T any](v T) *T { return &v }
