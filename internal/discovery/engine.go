// Package discovery filters and sorts an already-fetched set of listings and
// derives their open-now status from weekly opening hours.
package discovery

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/octobees/servicefinder/internal/entity"
)

// SortKey selects the ordering of discovered listings.
type SortKey string

const (
	SortRating  SortKey = "rating"
	SortName    SortKey = "name"
	SortReviews SortKey = "reviews"
)

// DefaultSort is used when no sort key is selected.
const DefaultSort = SortRating

// ParseSortKey resolves a user supplied sort key. Unknown values fall back to
// DefaultSort and report false.
func ParseSortKey(value string) (SortKey, bool) {
	switch SortKey(strings.ToLower(strings.TrimSpace(value))) {
	case SortRating:
		return SortRating, true
	case SortName:
		return SortName, true
	case SortReviews:
		return SortReviews, true
	default:
		return DefaultSort, false
	}
}

// FilterState is the set of user-selected predicates. The zero value has
// every filter unset.
type FilterState struct {
	MinRating *float64 `json:"min_rating,omitempty"`
	Verified  *bool    `json:"verified,omitempty"`
	Featured  *bool    `json:"featured,omitempty"`
	Types     []string `json:"types,omitempty"`
	OpenNow   *bool    `json:"open_now,omitempty"`
}

// HasActive reports whether any field differs from its default.
func (f FilterState) HasActive() bool {
	return f.MinRating != nil ||
		f.Verified != nil ||
		f.Featured != nil ||
		len(f.Types) > 0 ||
		f.OpenNow != nil
}

// Clone returns a copy that shares no memory with f.
func (f FilterState) Clone() FilterState {
	out := FilterState{Types: slices.Clone(f.Types)}
	if f.MinRating != nil {
		v := *f.MinRating
		out.MinRating = &v
	}
	if f.Verified != nil {
		v := *f.Verified
		out.Verified = &v
	}
	if f.Featured != nil {
		v := *f.Featured
		out.Featured = &v
	}
	if f.OpenNow != nil {
		v := *f.OpenNow
		out.OpenNow = &v
	}
	return out
}

// Engine runs the filter/sort pipeline.
type Engine struct {
	now    func() time.Time
	locale language.Tag
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source used by the open-now predicate.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLocale sets the collation locale used when sorting by name.
func WithLocale(tag language.Tag) Option {
	return func(e *Engine) {
		e.locale = tag
	}
}

// NewEngine builds an engine collating names in Brazilian Portuguese.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		now:    time.Now,
		locale: language.BrazilianPortuguese,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply returns the listings that satisfy filters, ordered by sortKey. The
// input slice is left untouched.
func (e *Engine) Apply(listings []entity.Listing, filters FilterState, sortKey SortKey) []entity.Listing {
	filtered := slices.Clone(listings)
	if filtered == nil {
		filtered = []entity.Listing{}
	}

	if filters.MinRating != nil {
		minRating := *filters.MinRating
		filtered = slices.DeleteFunc(filtered, func(l entity.Listing) bool {
			return l.Rating == nil || *l.Rating < minRating
		})
	}

	if filters.Verified != nil && *filters.Verified {
		filtered = slices.DeleteFunc(filtered, func(l entity.Listing) bool {
			return !l.IsVerified()
		})
	}

	if filters.Featured != nil && *filters.Featured {
		filtered = slices.DeleteFunc(filtered, func(l entity.Listing) bool {
			return !l.IsFeatured()
		})
	}

	if len(filters.Types) > 0 {
		filtered = slices.DeleteFunc(filtered, func(l entity.Listing) bool {
			return !matchesAnyType(l, filters.Types)
		})
	}

	if filters.OpenNow != nil && *filters.OpenNow {
		now := e.now()
		filtered = slices.DeleteFunc(filtered, func(l entity.Listing) bool {
			return l.OpeningHours == nil || !IsOpenNow(*l.OpeningHours, now)
		})
	}

	e.sort(filtered, sortKey)
	return filtered
}

func (e *Engine) sort(listings []entity.Listing, sortKey SortKey) {
	switch sortKey {
	case SortReviews:
		slices.SortStableFunc(listings, func(a, b entity.Listing) int {
			return cmp.Compare(intOrZero(b.RatingCount), intOrZero(a.RatingCount))
		})
	case SortName:
		// A collator keeps internal buffers, so each sort gets its own.
		collator := collate.New(e.locale)
		slices.SortStableFunc(listings, func(a, b entity.Listing) int {
			return collator.CompareString(a.Title, b.Title)
		})
	default:
		slices.SortStableFunc(listings, func(a, b entity.Listing) int {
			return cmp.Compare(floatOrZero(b.Rating), floatOrZero(a.Rating))
		})
	}
}

func matchesAnyType(l entity.Listing, selected []string) bool {
	descriptor, ok := l.TypeDescriptor()
	if !ok {
		return false
	}
	for _, t := range selected {
		if strings.Contains(descriptor, t) {
			return true
		}
	}
	return false
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
