package discovery

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_InitialResultIsUnfiltered(t *testing.T) {
	c := NewController(fixedEngine(monday(10, 0)), sampleListings(), "", nil)

	res := c.Result()
	assert.Equal(t, 4, res.Showing)
	assert.Equal(t, 4, res.Total)
	assert.Equal(t, SortRating, res.Sort)
	assert.False(t, c.HasActiveFilters())
}

func TestController_SetFilterRecomputesOnce(t *testing.T) {
	calls := 0
	c := NewController(fixedEngine(monday(10, 0)), sampleListings(), SortRating, func(Result) { calls++ })

	require.NoError(t, c.SetFilter(FilterMinRating, 4.0))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, c.Result().Showing)
	assert.Equal(t, 4, c.Result().Total)
	assert.True(t, c.HasActiveFilters())

	require.NoError(t, c.SetFilter(FilterMinRating, nil))
	assert.Equal(t, 2, calls)
	assert.Equal(t, 4, c.Result().Showing)
	assert.False(t, c.HasActiveFilters())
}

func TestController_SetFilterRejectsWrongType(t *testing.T) {
	calls := 0
	c := NewController(fixedEngine(monday(10, 0)), sampleListings(), SortRating, func(Result) { calls++ })

	err := c.SetFilter(FilterVerified, "yes")
	assert.True(t, errors.Is(err, ErrInvalidFilterValue))

	err = c.SetFilter(FilterKey("distance"), 3)
	assert.True(t, errors.Is(err, ErrInvalidFilterValue))

	assert.Equal(t, 0, calls)
	assert.False(t, c.HasActiveFilters())
}

func TestController_ToggleType(t *testing.T) {
	c := NewController(fixedEngine(monday(10, 0)), sampleListings(), SortRating, nil)

	c.ToggleType("HVAC contractor")
	assert.Equal(t, []string{"HVAC contractor"}, c.State().Types)
	assert.Equal(t, []string{"Refrigeração Sul"}, titles(c.Result().Listings))

	c.ToggleType("Electrical contractor")
	assert.Equal(t, 2, c.Result().Showing)

	c.ToggleType("HVAC contractor")
	assert.Equal(t, []string{"Electrical contractor"}, c.State().Types)
	assert.Equal(t, []string{"Eletro Centro"}, titles(c.Result().Listings))

	c.ToggleType("Electrical contractor")
	assert.False(t, c.HasActiveFilters())
}

func TestController_ClearResetsInOneStep(t *testing.T) {
	calls := 0
	c := NewController(fixedEngine(monday(10, 0)), sampleListings(), SortRating, func(Result) { calls++ })

	require.NoError(t, c.SetFilter(FilterMinRating, 4.0))
	require.NoError(t, c.SetFilter(FilterVerified, true))
	assert.True(t, c.HasActiveFilters())
	calls = 0

	c.Clear()

	assert.Equal(t, 1, calls)
	assert.False(t, c.HasActiveFilters())
	unfiltered := NewEngine().Apply(sampleListings(), FilterState{}, DefaultSort)
	assert.Equal(t, titles(unfiltered), titles(c.Result().Listings))
}

func TestController_StateIsACopy(t *testing.T) {
	c := NewController(fixedEngine(monday(10, 0)), sampleListings(), SortRating, nil)
	require.NoError(t, c.SetFilter(FilterTypes, []string{"HVAC contractor"}))

	state := c.State()
	state.Types[0] = "mutated"

	assert.Equal(t, []string{"HVAC contractor"}, c.State().Types)
}

func TestController_SetSort(t *testing.T) {
	c := NewController(fixedEngine(monday(10, 0)), sampleListings(), SortRating, nil)
	c.SetSort(SortReviews)
	assert.Equal(t, SortReviews, c.Result().Sort)
	assert.Equal(t, "Eletro Centro", c.Result().Listings[0].Title)
}

func TestController_SetSortNormalisesUnknownKeys(t *testing.T) {
	c := NewController(fixedEngine(monday(10, 0)), sampleListings(), SortReviews, nil)
	rated := NewController(fixedEngine(monday(10, 0)), sampleListings(), SortRating, nil).Result()

	for _, key := range []SortKey{"", "foo", " Name "} {
		c.SetSort(key)
		if key == " Name " {
			assert.Equal(t, SortName, c.Result().Sort)
			continue
		}
		assert.Equal(t, SortRating, c.Result().Sort, "key %q", key)
		assert.Equal(t, titles(rated.Listings), titles(c.Result().Listings), "key %q", key)
	}

	assert.Equal(t, SortRating, NewController(nil, sampleListings(), "distance", nil).Result().Sort)
}

func TestController_BoolPointerValues(t *testing.T) {
	c := NewController(fixedEngine(monday(10, 0)), sampleListings(), SortRating, nil)
	open := true
	require.NoError(t, c.SetFilter(FilterOpenNow, &open))
	assert.Equal(t, 2, c.Result().Showing)

	var unset *bool
	require.NoError(t, c.SetFilter(FilterOpenNow, unset))
	assert.Equal(t, 4, c.Result().Showing)
}
