package discovery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/octobees/servicefinder/internal/entity"
)

func ptr[T any](v T) *T { return &v }

func titles(listings []entity.Listing) []string {
	out := make([]string, 0, len(listings))
	for _, l := range listings {
		out = append(out, l.Title)
	}
	return out
}

func fixedEngine(now time.Time) *Engine {
	return NewEngine(WithClock(func() time.Time { return now }))
}

func sampleListings() []entity.Listing {
	return []entity.Listing{
		{
			Slug:         "refrigeracao-sul",
			Title:        "Refrigeração Sul",
			Rating:       ptr(4.8),
			RatingCount:  ptr(120),
			Verified:     ptr(true),
			Types:        ptr("HVAC contractor, Appliance repair service"),
			OpeningHours: ptr(`{"Monday":"8:00 AM–6:00 PM"}`),
		},
		{
			Slug:        "eletro-centro",
			Title:       "Eletro Centro",
			Rating:      ptr(3.9),
			RatingCount: ptr(300),
			Featured:    ptr(true),
			Types:       ptr("Electrical contractor"),
		},
		{
			Slug:         "assistencia-norte",
			Title:        "Assistência Norte",
			Verified:     ptr(false),
			Category:     ptr("Appliance repair service"),
			OpeningHours: ptr(`{"Monday":"Closed"}`),
		},
		{
			Slug:         "ar-frio",
			Title:        "Ar Frio",
			Rating:       ptr(4.2),
			Verified:     ptr(true),
			Featured:     ptr(true),
			Types:        ptr("Air conditioning system supplier"),
			OpeningHours: ptr(`{"Monday":"9:00 AM–11:00 AM"}`),
		},
	}
}

func TestApply_DefaultSortByRating(t *testing.T) {
	engine := fixedEngine(monday(10, 0))
	result := engine.Apply(sampleListings(), FilterState{}, SortRating)
	assert.Equal(t, []string{"Refrigeração Sul", "Ar Frio", "Eletro Centro", "Assistência Norte"}, titles(result))
}

func TestApply_RatingTiesKeepInputOrder(t *testing.T) {
	listings := []entity.Listing{
		{Title: "B", Rating: ptr(4.0)},
		{Title: "A", Rating: ptr(4.0)},
		{Title: "C", Rating: ptr(5.0)},
	}
	result := NewEngine().Apply(listings, FilterState{}, SortRating)
	assert.Equal(t, []string{"C", "B", "A"}, titles(result))
}

func TestApply_SortByReviews(t *testing.T) {
	result := fixedEngine(monday(10, 0)).Apply(sampleListings(), FilterState{}, SortReviews)
	// Listings without a review count tie at zero and keep their input order.
	assert.Equal(t, []string{"Eletro Centro", "Refrigeração Sul", "Assistência Norte", "Ar Frio"}, titles(result))
}

func TestApply_SortByNameIsLocaleAware(t *testing.T) {
	listings := []entity.Listing{
		{Title: "Élite Consertos"},
		{Title: "zeta"},
		{Title: "Eletro Centro"},
		{Title: "assistência"},
	}
	result := NewEngine().Apply(listings, FilterState{}, SortName)
	assert.Equal(t, []string{"assistência", "Eletro Centro", "Élite Consertos", "zeta"}, titles(result))
}

func TestApply_MinRatingExcludesUnrated(t *testing.T) {
	result := fixedEngine(monday(10, 0)).Apply(sampleListings(), FilterState{MinRating: ptr(4.0)}, SortRating)
	assert.Equal(t, []string{"Refrigeração Sul", "Ar Frio"}, titles(result))

	zero := fixedEngine(monday(10, 0)).Apply(sampleListings(), FilterState{MinRating: ptr(0.0)}, SortRating)
	assert.NotContains(t, titles(zero), "Assistência Norte")
}

func TestApply_VerifiedAndFeatured(t *testing.T) {
	engine := fixedEngine(monday(10, 0))

	verified := engine.Apply(sampleListings(), FilterState{Verified: ptr(true)}, SortRating)
	assert.Equal(t, []string{"Refrigeração Sul", "Ar Frio"}, titles(verified))

	featured := engine.Apply(sampleListings(), FilterState{Featured: ptr(true)}, SortRating)
	assert.Equal(t, []string{"Ar Frio", "Eletro Centro"}, titles(featured))

	// A false flag selects nothing; it is the same as leaving the filter unset.
	unset := engine.Apply(sampleListings(), FilterState{Verified: ptr(false)}, SortRating)
	assert.Len(t, unset, 4)
}

func TestApply_TypesSubstringMatch(t *testing.T) {
	listings := []entity.Listing{
		{Title: "first", Types: ptr("Plumbing, Electrical")},
		{Title: "second", Types: ptr("Electrical")},
	}
	result := NewEngine().Apply(listings, FilterState{Types: []string{"Plumbing"}}, SortRating)
	assert.Equal(t, []string{"first"}, titles(result))
}

func TestApply_TypesFallsBackToCategory(t *testing.T) {
	engine := fixedEngine(monday(10, 0))
	result := engine.Apply(sampleListings(), FilterState{Types: []string{"Appliance repair service"}}, SortRating)
	assert.Equal(t, []string{"Refrigeração Sul", "Assistência Norte"}, titles(result))

	caseSensitive := engine.Apply(sampleListings(), FilterState{Types: []string{"hvac contractor"}}, SortRating)
	assert.Empty(t, caseSensitive)

	anyOf := engine.Apply(sampleListings(), FilterState{Types: []string{"HVAC contractor", "Electrical contractor"}}, SortRating)
	assert.Equal(t, []string{"Refrigeração Sul", "Eletro Centro"}, titles(anyOf))
}

func TestApply_OpenNow(t *testing.T) {
	result := fixedEngine(monday(10, 0)).Apply(sampleListings(), FilterState{OpenNow: ptr(true)}, SortRating)
	assert.Equal(t, []string{"Refrigeração Sul", "Ar Frio"}, titles(result))

	later := fixedEngine(monday(12, 0)).Apply(sampleListings(), FilterState{OpenNow: ptr(true)}, SortRating)
	assert.Equal(t, []string{"Refrigeração Sul"}, titles(later))

	sunday := fixedEngine(monday(10, 0).AddDate(0, 0, 6)).Apply(sampleListings(), FilterState{OpenNow: ptr(true)}, SortRating)
	assert.Empty(t, sunday)
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	input := sampleListings()
	before := titles(input)

	_ = fixedEngine(monday(10, 0)).Apply(input, FilterState{MinRating: ptr(4.0), Types: []string{"HVAC"}}, SortName)

	assert.Equal(t, before, titles(input))
}

func TestApply_EmptyInput(t *testing.T) {
	result := NewEngine().Apply(nil, FilterState{Verified: ptr(true)}, SortName)
	require.NotNil(t, result)
	assert.Empty(t, result)
}

func TestApply_Properties(t *testing.T) {
	engine := fixedEngine(monday(10, 0))
	input := sampleListings()

	states := []FilterState{
		{},
		{MinRating: ptr(4.0)},
		{Verified: ptr(true)},
		{Featured: ptr(true)},
		{Types: []string{"contractor"}},
		{OpenNow: ptr(true)},
		{MinRating: ptr(3.0), Verified: ptr(true), OpenNow: ptr(true)},
	}

	inInput := make(map[string]bool, len(input))
	for _, l := range input {
		inInput[l.Key()] = true
	}

	for _, state := range states {
		for _, key := range []SortKey{SortRating, SortName, SortReviews} {
			once := engine.Apply(input, state, key)

			seen := map[string]bool{}
			for _, l := range once {
				assert.True(t, inInput[l.Key()], "fabricated listing %q", l.Key())
				assert.False(t, seen[l.Key()], "duplicated listing %q", l.Key())
				seen[l.Key()] = true
			}

			twice := engine.Apply(once, state, key)
			assert.Equal(t, titles(once), titles(twice), "apply is not idempotent for %+v/%s", state, key)
		}
	}

	// Enabling one more predicate never grows the result.
	base := FilterState{MinRating: ptr(3.0)}
	narrowed := []FilterState{
		{MinRating: ptr(3.0), Verified: ptr(true)},
		{MinRating: ptr(3.0), Featured: ptr(true)},
		{MinRating: ptr(3.0), Types: []string{"HVAC"}},
		{MinRating: ptr(3.0), OpenNow: ptr(true)},
	}
	baseLen := len(engine.Apply(input, base, SortRating))
	for _, state := range narrowed {
		assert.LessOrEqual(t, len(engine.Apply(input, state, SortRating)), baseLen)
	}
}

func TestParseSortKey(t *testing.T) {
	key, ok := ParseSortKey(" Name ")
	assert.True(t, ok)
	assert.Equal(t, SortName, key)

	key, ok = ParseSortKey("reviews")
	assert.True(t, ok)
	assert.Equal(t, SortReviews, key)

	key, ok = ParseSortKey("distance")
	assert.False(t, ok)
	assert.Equal(t, SortRating, key)

	key, ok = ParseSortKey("")
	assert.False(t, ok)
	assert.Equal(t, DefaultSort, key)
}

func TestListingKey(t *testing.T) {
	l := entity.Listing{Slug: "ar-frio"}
	assert.Equal(t, "ar-frio", l.Key())
}
