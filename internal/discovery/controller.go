package discovery

import (
	"errors"
	"fmt"
	"slices"

	"github.com/octobees/servicefinder/internal/entity"
)

// ErrInvalidFilterValue is returned when a filter value does not fit its key.
var ErrInvalidFilterValue = errors.New("invalid filter value")

// FilterKey names a single field of FilterState.
type FilterKey string

const (
	FilterMinRating FilterKey = "min_rating"
	FilterVerified  FilterKey = "verified"
	FilterFeatured  FilterKey = "featured"
	FilterTypes     FilterKey = "types"
	FilterOpenNow   FilterKey = "open_now"
)

// Result is the output of one recomputation.
type Result struct {
	Listings []entity.Listing
	Showing  int
	Total    int
	Filters  FilterState
	Sort     SortKey
}

// Controller holds the filter state of one page view and recomputes the
// discovered listings every time the state changes. It is not safe for
// concurrent use.
type Controller struct {
	engine   *Engine
	listings []entity.Listing
	state    FilterState
	sortKey  SortKey
	result   Result
	onChange func(Result)
}

// NewController computes the initial, unfiltered result. onChange may be nil.
func NewController(engine *Engine, listings []entity.Listing, sortKey SortKey, onChange func(Result)) *Controller {
	if engine == nil {
		engine = NewEngine()
	}
	c := &Controller{
		engine:   engine,
		listings: listings,
		sortKey:  normalizeSort(sortKey),
		onChange: onChange,
	}
	c.result = c.compute()
	return c
}

// SetFilter replaces exactly one field. A nil value unsets it.
func (c *Controller) SetFilter(key FilterKey, value any) error {
	next := c.state.Clone()

	switch key {
	case FilterMinRating:
		v, err := optionalFloat(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		next.MinRating = v
	case FilterVerified:
		v, err := optionalBool(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		next.Verified = v
	case FilterFeatured:
		v, err := optionalBool(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		next.Featured = v
	case FilterOpenNow:
		v, err := optionalBool(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		next.OpenNow = v
	case FilterTypes:
		switch v := value.(type) {
		case nil:
			next.Types = nil
		case []string:
			next.Types = slices.Clone(v)
		default:
			return fmt.Errorf("%s: %w", key, ErrInvalidFilterValue)
		}
	default:
		return fmt.Errorf("unknown filter %q: %w", key, ErrInvalidFilterValue)
	}

	c.state = next
	c.recompute()
	return nil
}

// ToggleType adds t to the selected types, or removes it if already selected.
func (c *Controller) ToggleType(t string) {
	if idx := slices.Index(c.state.Types, t); idx >= 0 {
		c.state.Types = slices.Delete(slices.Clone(c.state.Types), idx, idx+1)
	} else {
		c.state.Types = append(slices.Clone(c.state.Types), t)
	}
	c.recompute()
}

// SetSort changes the ordering of the result.
func (c *Controller) SetSort(key SortKey) {
	c.sortKey = normalizeSort(key)
	c.recompute()
}

// normalizeSort maps empty and unknown keys to DefaultSort so the reported
// sort matches the ordering applied.
func normalizeSort(key SortKey) SortKey {
	parsed, _ := ParseSortKey(string(key))
	return parsed
}

// Clear resets every filter in a single step.
func (c *Controller) Clear() {
	c.state = FilterState{}
	c.recompute()
}

// HasActiveFilters reports whether any filter differs from its default.
func (c *Controller) HasActiveFilters() bool {
	return c.state.HasActive()
}

// State returns a copy of the current filter state.
func (c *Controller) State() FilterState {
	return c.state.Clone()
}

// Result returns the output of the latest recomputation.
func (c *Controller) Result() Result {
	return c.result
}

func (c *Controller) recompute() {
	c.result = c.compute()
	if c.onChange != nil {
		c.onChange(c.result)
	}
}

func (c *Controller) compute() Result {
	filtered := c.engine.Apply(c.listings, c.state, c.sortKey)
	return Result{
		Listings: filtered,
		Showing:  len(filtered),
		Total:    len(c.listings),
		Filters:  c.state.Clone(),
		Sort:     c.sortKey,
	}
}

func optionalFloat(value any) (*float64, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case float64:
		return &v, nil
	case *float64:
		if v == nil {
			return nil, nil
		}
		out := *v
		return &out, nil
	case int:
		f := float64(v)
		return &f, nil
	default:
		return nil, ErrInvalidFilterValue
	}
}

func optionalBool(value any) (*bool, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case bool:
		return &v, nil
	case *bool:
		if v == nil {
			return nil, nil
		}
		out := *v
		return &out, nil
	default:
		return nil, ErrInvalidFilterValue
	}
}
