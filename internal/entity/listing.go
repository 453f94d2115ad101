package entity

import (
	"time"

	"github.com/google/uuid"
)

// Listing represents a business or service provider shown in the directory.
type Listing struct {
	ID           uuid.UUID  `json:"id"`
	Slug         string     `json:"slug"`
	Title        string     `json:"title"`
	Address      *string    `json:"address,omitempty"`
	Website      *string    `json:"website,omitempty"`
	Phone        *string    `json:"phone,omitempty"`
	Thumbnail    *string    `json:"thumbnail,omitempty"`
	PlaceID      *string    `json:"place_id,omitempty"`
	OpeningHours *string    `json:"opening_hours,omitempty"`
	BookingLinks *string    `json:"booking_links,omitempty"`
	Latitude     *float64   `json:"latitude,omitempty"`
	Longitude    *float64   `json:"longitude,omitempty"`
	Rating       *float64   `json:"rating,omitempty"`
	RatingCount  *int       `json:"rating_count,omitempty"`
	Verified     *bool      `json:"verified,omitempty"`
	Featured     *bool      `json:"featured,omitempty"`
	Types        *string    `json:"types,omitempty"`
	Category     *string    `json:"category,omitempty"`
	CityID       *uuid.UUID `json:"city_id,omitempty"`
	StateID      *uuid.UUID `json:"state_id,omitempty"`
	Sequence     int        `json:"sequence"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Key returns the stable identity of the listing, falling back to the slug
// for records that were never assigned an id.
func (l Listing) Key() string {
	if l.ID != uuid.Nil {
		return l.ID.String()
	}
	return l.Slug
}

// IsVerified reports whether the listing carries an explicit verified flag.
func (l Listing) IsVerified() bool {
	return l.Verified != nil && *l.Verified
}

// IsFeatured reports whether the listing carries an explicit featured flag.
func (l Listing) IsFeatured() bool {
	return l.Featured != nil && *l.Featured
}

// TypeDescriptor returns the free-text category descriptor, preferring the
// multi-valued types field over the single category.
func (l Listing) TypeDescriptor() (string, bool) {
	if l.Types != nil {
		return *l.Types, *l.Types != ""
	}
	if l.Category != nil {
		return *l.Category, *l.Category != ""
	}
	return "", false
}
