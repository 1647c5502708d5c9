package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopassist/internal/model"
)

func TestBudgetTier(t *testing.T) {
	tests := []struct {
		name   string
		budget model.Budget
		want   string
	}{
		{"no budget", model.Budget{}, TierMidRange},
		{"cheap", model.Budget{Max: intPtr(1500)}, TierBudget},
		{"mid", model.Budget{Max: intPtr(5000)}, TierMidRange},
		{"premium", model.Budget{Max: intPtr(5001)}, TierPremium},
		{"min only", model.Budget{Min: intPtr(800)}, TierBudget},
		{"max takes precedence", model.Budget{Min: intPtr(100), Max: intPtr(9000)}, TierPremium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BudgetTier(tt.budget))
		})
	}
}

func TestCategoryFromQuery(t *testing.T) {
	assert.Equal(t, "smartphones", CategoryFromQuery("best android under 1000"))
	assert.Equal(t, "laptops", CategoryFromQuery("recommend a macbook"))
	assert.Equal(t, "smartphones", CategoryFromQuery("recommend something nice"))
}

func TestRecommender_Recommend(t *testing.T) {
	recommender := NewRecommender()
	query := "Recommend the best laptop under 1500"

	msg, products := recommender.Recommend(query, NewEntityExtractor().Extract(query))

	require.Len(t, products, 3)
	assert.Equal(t, "HP Pavilion 15", products[0].Title)
	assert.Equal(t, "Laptops", products[0].Category)
	assert.Equal(t, "https://jiji.com.gh/search?query=HP+Pavilion+15", products[0].Link)
	assert.Contains(t, msg, "**Recommended Laptops** under GHS 1,500")

	msg, _ = recommender.Recommend("phones between 1000 and 3000", NewEntityExtractor().Extract("phones between 1000 and 3000"))
	assert.Contains(t, msg, "within your GHS 1,000 - GHS 3,000 budget")
}

func TestRecommender_Trending(t *testing.T) {
	msg, products := NewRecommender().Trending()

	assert.Contains(t, msg, "Trending Products")
	require.Len(t, products, 5)
	assert.Equal(t, "AirPods Pro 2nd Gen", products[0].Title)
	assert.Equal(t, "Audio", products[0].Category)
}
