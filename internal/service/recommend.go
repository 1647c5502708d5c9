package service

import (
	"fmt"
	"net/url"

	"github.com/dustin/go-humanize"

	"shopassist/internal/model"
	"shopassist/internal/utils"
)

// Budget tiers
const (
	TierBudget   = "budget"
	TierMidRange = "mid_range"
	TierPremium  = "premium"
)

type catalogItem struct {
	title string
	price string
	specs string
}

// catalog holds curated picks per category and budget tier
var catalog = map[string]map[string][]catalogItem{
	"smartphones": {
		TierBudget: {
			{"Tecno Spark 8", "GH₵ 800", "4GB RAM, 64GB Storage"},
			{"Infinix Hot 11", "GH₵ 900", "4GB RAM, 128GB Storage"},
			{"Samsung Galaxy A12", "GH₵ 1,200", "4GB RAM, 128GB Storage"},
		},
		TierMidRange: {
			{"Samsung Galaxy A52", "GH₵ 2,500", "6GB RAM, 128GB Storage"},
			{"iPhone 11", "GH₵ 3,800", "4GB RAM, 128GB Storage"},
			{"Xiaomi Redmi Note 11", "GH₵ 2,200", "6GB RAM, 128GB Storage"},
		},
		TierPremium: {
			{"Samsung Galaxy S21", "GH₵ 5,500", "8GB RAM, 256GB Storage"},
			{"iPhone 13", "GH₵ 6,800", "6GB RAM, 128GB Storage"},
			{"Google Pixel 6", "GH₵ 4,500", "8GB RAM, 128GB Storage"},
		},
	},
	"laptops": {
		TierBudget: {
			{"HP Pavilion 15", "GH₵ 2,800", "Intel i3, 8GB RAM, 256GB SSD"},
			{"Lenovo IdeaPad 3", "GH₵ 3,200", "AMD Ryzen 5, 8GB RAM"},
			{"Dell Inspiron 15", "GH₵ 3,500", "Intel i5, 8GB RAM, 512GB SSD"},
		},
		TierMidRange: {
			{"MacBook Air M1", "GH₵ 6,500", "M1 Chip, 8GB RAM, 256GB SSD"},
			{"HP Envy x360", "GH₵ 5,200", "AMD Ryzen 7, 16GB RAM"},
			{"Lenovo ThinkPad E15", "GH₵ 4,800", "Intel i7, 16GB RAM"},
		},
		TierPremium: {
			{"MacBook Pro 14\"", "GH₵ 12,000", "M1 Pro, 16GB RAM, 512GB SSD"},
			{"Dell XPS 13", "GH₵ 8,500", "Intel i7, 16GB RAM, 1TB SSD"},
			{"HP Spectre x360", "GH₵ 9,200", "Intel i7, 16GB RAM, 512GB SSD"},
		},
	},
}

var trending = []struct {
	title    string
	price    string
	category string
}{
	{"AirPods Pro 2nd Gen", "GH₵ 1,800", "Audio"},
	{"Samsung Galaxy Watch 4", "GH₵ 1,200", "Wearables"},
	{"iPad Air 5th Gen", "GH₵ 4,500", "Tablets"},
	{"Sony WH-1000XM4", "GH₵ 2,200", "Headphones"},
	{"Nintendo Switch OLED", "GH₵ 2,800", "Gaming"},
}

// Recommender suggests products from a curated catalogue
type Recommender struct{}

// NewRecommender creates a new recommender
func NewRecommender() *Recommender {
	return &Recommender{}
}

// BudgetTier buckets a budget by its max, or its min when only a min is set
func BudgetTier(budget model.Budget) string {
	var limit int
	switch {
	case budget.Max != nil:
		limit = *budget.Max
	case budget.Min != nil:
		limit = *budget.Min
	default:
		return TierMidRange
	}

	switch {
	case limit <= 1500:
		return TierBudget
	case limit <= 5000:
		return TierMidRange
	default:
		return TierPremium
	}
}

// CategoryFromQuery picks the catalogue category for a query, defaulting to smartphones
func CategoryFromQuery(query string) string {
	if c := utils.MatchCategory(query, "smartphones", "laptops"); c != "" {
		return c
	}
	return "smartphones"
}

// Recommend returns curated products for the query's category and budget tier
func (r *Recommender) Recommend(query string, entities model.EntityBundle) (string, []model.Product) {
	category := CategoryFromQuery(query)
	tier := BudgetTier(entities.Budget)

	items := catalog[category][tier]
	products := make([]model.Product, 0, len(items))
	for _, item := range items {
		products = append(products, model.Product{
			Title:    item.title,
			Price:    item.price,
			Link:     searchLink(item.title),
			Location: "Accra, Greater Accra",
			Category: utils.NormalizeCategory(category),
			Specs:    item.specs,
		})
	}

	budgetText := BudgetPhrase(entities.Budget)
	if b := entities.Budget; b.Min != nil && b.Max != nil {
		budgetText = fmt.Sprintf(" within your GHS %s - GHS %s budget", humanize.Comma(int64(*b.Min)), humanize.Comma(int64(*b.Max)))
	}

	msg := fmt.Sprintf(`**Recommended %s**%s

Based on your preferences, here are my top recommendations:

These products offer great value for money and are popular choices in Ghana!`,
		utils.NormalizeCategory(category), budgetText)

	return msg, products
}

// Trending returns the currently popular products
func (r *Recommender) Trending() (string, []model.Product) {
	products := make([]model.Product, 0, len(trending))
	for _, item := range trending {
		products = append(products, model.Product{
			Title:    item.title,
			Price:    item.price,
			Link:     searchLink(item.title),
			Location: "Accra, Greater Accra",
			Category: item.category,
		})
	}
	return "**Trending Products Right Now** 🔥\n\nHere are the most popular items on Jiji.com.gh:", products
}

func searchLink(title string) string {
	return "https://jiji.com.gh/search?query=" + url.QueryEscape(title)
}
