package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopassist/internal/model"
)

func TestEntityExtractor_Budget(t *testing.T) {
	extractor := NewEntityExtractor()

	tests := []struct {
		name  string
		query string
		want  model.Budget
	}{
		{name: "upper bound", query: "phone under 1500", want: model.Budget{Max: intPtr(1500)}},
		{name: "currency prefix", query: "laptop below GHS 3,500", want: model.Budget{Max: intPtr(3500)}},
		{name: "between range", query: "between 1000 and 3000", want: model.Budget{Min: intPtr(1000), Max: intPtr(3000)}},
		{name: "dash range", query: "tv 2,000-4,000", want: model.Budget{Min: intPtr(2000), Max: intPtr(4000)}},
		{name: "budget of", query: "my budget is ghs 2500", want: model.Budget{Max: intPtr(2500)}},
		{name: "no budget", query: "samsung galaxy s21", want: model.Budget{}},
		{
			// the range pattern runs after the upper-bound pattern and overwrites max
			name:  "last write wins",
			query: "under 5000, ideally 1000 to 2000",
			want:  model.Budget{Min: intPtr(1000), Max: intPtr(2000)},
		},
		{
			name:  "budget phrase overrides earlier range",
			query: "500 to 900 but budget of 700",
			want:  model.Budget{Min: intPtr(500), Max: intPtr(700)},
		},
		{
			name:  "overflowing number is omitted",
			query: "under 99999999999999999999999",
			want:  model.Budget{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractor.Extract(tt.query).Budget
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEntityExtractor_UnderRoundTrip(t *testing.T) {
	extractor := NewEntityExtractor()
	for _, n := range []int{0, 1, 7, 42, 999, 1000, 25000, 1234567} {
		budget := extractor.Extract(fmt.Sprintf("under %d", n)).Budget
		require.NotNil(t, budget.Max, "n=%d", n)
		assert.Equal(t, n, *budget.Max)
		assert.Nil(t, budget.Min, "n=%d", n)
	}
}

func TestEntityExtractor_Specifications(t *testing.T) {
	extractor := NewEntityExtractor()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "storage", query: "8gb 128gb storage", want: []string{"8 gb", "128 gb"}},
		{name: "unit order then match order", query: "48MP camera, 6 inch, 1TB, 8 core, 4 GB", want: []string{"4 gb", "1 tb", "6 inch", "48 mp", "8 core"}},
		{name: "duplicates kept", query: "128gb or 128 gb", want: []string{"128 gb", "128 gb"}},
		{name: "none", query: "cheap phone", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractor.Extract(tt.query).Specifications)
		})
	}
}

func TestEntityExtractor_KeywordsFollowListOrder(t *testing.T) {
	entities := NewEntityExtractor().Extract("Dell or Samsung galaxy phone?")

	assert.Equal(t, []string{"phone", "samsung", "galaxy", "dell"}, entities.ProductTypes)
	assert.Equal(t, []string{"samsung", "dell"}, entities.Brands)
}

func TestEntityExtractor_SubstringMatching(t *testing.T) {
	entities := NewEntityExtractor().Extract("iPhone headphones")

	// "phone" is found inside both words but reported once per keyword
	assert.Equal(t, []string{"phone", "iphone", "headphone"}, entities.ProductTypes)
	assert.Equal(t, []string{"iphone"}, entities.Brands)
}

func TestEntityExtractor_Locations(t *testing.T) {
	extractor := NewEntityExtractor()

	assert.Equal(t, []string{"Kumasi"}, extractor.Extract("laptop in Kumasi").Locations)
	assert.Equal(t, []string{"Accra", "Cape Coast"}, extractor.Extract("deliver from CAPE COAST to accra").Locations)
	assert.Equal(t, []string{}, extractor.Extract("laptop in Lagos").Locations)
}

func TestEntityBundle_Deduplicated(t *testing.T) {
	bundle := model.EntityBundle{
		ProductTypes:   []string{"phone", "samsung", "phone"},
		Brands:         []string{"samsung", "samsung"},
		Budget:         model.Budget{Max: intPtr(10)},
		Specifications: []string{"128 gb", "8 gb", "128 gb"},
		Locations:      []string{"Accra"},
	}

	dedup := bundle.Deduplicated()

	assert.Equal(t, []string{"phone", "samsung"}, dedup.ProductTypes)
	assert.Equal(t, []string{"samsung"}, dedup.Brands)
	assert.Equal(t, []string{"128 gb", "8 gb"}, dedup.Specifications)
	assert.Equal(t, bundle.Budget, dedup.Budget)
	// the raw bundle is untouched
	assert.Len(t, bundle.ProductTypes, 3)
}
