package dto

import (
	"github.com/octobees/servicefinder/internal/discovery"
	"github.com/octobees/servicefinder/internal/entity"
)

// DiscoverQuery selects the listings to load and the filter state applied to them.
// At most one of CitySlug and StateSlug is expected; neither means all listings.
type DiscoverQuery struct {
	CitySlug  string
	StateSlug string
	Filters   discovery.FilterState
	Sort      string
	Limit     int
}

// ListingView is a listing with its derived open status.
type ListingView struct {
	entity.Listing
	OpenStatus discovery.OpenStatus `json:"open_status"`
}

// TypeFacet counts the loaded listings whose type descriptor contains Type.
type TypeFacet struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// ListingsPage is the output of a discovery request.
type ListingsPage struct {
	Listings         []ListingView         `json:"listings"`
	Showing          int                   `json:"showing"`
	Total            int                   `json:"total"`
	HasActiveFilters bool                  `json:"has_active_filters"`
	Filters          discovery.FilterState `json:"filters"`
	Sort             discovery.SortKey     `json:"sort"`
	Types            []TypeFacet           `json:"types"`
	Theme            entity.Theme          `json:"theme"`
}

// DayHours is one row of a listing's weekly schedule.
type DayHours struct {
	Day   string `json:"day"`
	Hours string `json:"hours"`
}

// ListingDetail is a single listing page.
type ListingDetail struct {
	Listing ListingView   `json:"listing"`
	City    *entity.City  `json:"city,omitempty"`
	Hours   []DayHours    `json:"hours,omitempty"`
	Related []ListingView `json:"related"`
	Theme   entity.Theme  `json:"theme"`
}

// ServiceInCity is a service page scoped to one city.
type ServiceInCity struct {
	Service  entity.Service `json:"service"`
	City     entity.City    `json:"city"`
	Listings ListingsPage   `json:"listings"`
}

// StateDetail is a state page with its cities and the featured service.
type StateDetail struct {
	State   entity.State    `json:"state"`
	Cities  []entity.City   `json:"cities"`
	Service *entity.Service `json:"service,omitempty"`
}

// CityDetail is a city page with its discovered listings and the featured service.
type CityDetail struct {
	City     entity.City     `json:"city"`
	Listings ListingsPage    `json:"listings"`
	Service  *entity.Service `json:"service,omitempty"`
}

// City page kinds.
const (
	CityPageService = "service"
	CityPageListing = "listing"
)

// CityPage is whatever lives at /:citySlug/:slug.
type CityPage struct {
	Kind    string         `json:"kind"`
	Service *ServiceInCity `json:"service,omitempty"`
	Listing *ListingDetail `json:"listing,omitempty"`
}
