package service

import (
	"math"
	"sort"
	"strings"

	"shopassist/internal/model"
)

// Match reason constants
const (
	ReasonBrandMatch      = "Brand match"
	ReasonSpecMatch       = "Specification match"
	ReasonLocationMatch   = "Location match"
	ReasonPriceMatch      = "Price within budget"
	ReasonContentRelevant = "Content relevant"
	ReasonGeneralMatch    = "General match"
)

// Ranker handles ranking and scoring of scraped products
type Ranker struct {
	weightRelevance float64
	weightPrice     float64
}

// NewRanker creates a new ranker with specified weights
func NewRanker(weightRelevance, weightPrice float64) *Ranker {
	return &Ranker{
		weightRelevance: weightRelevance,
		weightPrice:     weightPrice,
	}
}

// RankResults scores products and orders them best first. Products keep
// their marketplace order when scores tie.
func (r *Ranker) RankResults(products []model.Product, entities model.EntityBundle) []model.ProductSearchResult {
	results := make([]model.ProductSearchResult, 0, len(products))

	for i, product := range products {
		// Marketplace order is the only relevance signal we get
		relevance := 1.0 - float64(i)/float64(len(products))

		var price *float64
		if p, ok := ParsePrice(product.Price); ok {
			v := float64(p)
			price = &v
		}
		priceScore := r.calculatePriceScore(price, entities.Budget)

		results = append(results, model.ProductSearchResult{
			Product:        product,
			Score:          r.weightRelevance*relevance + r.weightPrice*priceScore,
			MatchedReasons: r.generateMatchedReasons(product, entities, relevance, priceScore),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results
}

// calculatePriceScore calculates how well the price matches the budget
func (r *Ranker) calculatePriceScore(price *float64, budget model.Budget) float64 {
	if price == nil {
		return 0.5 // Neutral score if no price
	}

	if budget.IsEmpty() {
		return 1.0
	}

	actual := *price

	// Within a range, prefer prices near the midpoint
	if budget.Min != nil && budget.Max != nil {
		minPrice := float64(*budget.Min)
		maxPrice := float64(*budget.Max)

		if actual < minPrice || actual > maxPrice {
			return 0.0
		}

		midpoint := (minPrice + maxPrice) / 2
		priceRange := maxPrice - minPrice
		if priceRange == 0 {
			return 1.0
		}

		score := 1.0 - math.Abs(actual-midpoint)/(priceRange/2)
		if score < 0 {
			score = 0
		}
		return score
	}

	if budget.Min != nil {
		if actual < float64(*budget.Min) {
			return 0.0
		}
		return 1.0
	}

	maxPrice := float64(*budget.Max)
	if actual > maxPrice {
		return 0.0
	}
	if maxPrice == 0 {
		return 1.0
	}
	// Closer to max is better
	return math.Min(actual/maxPrice, 1.0)
}

// generateMatchedReasons explains why a product was ranked where it was
func (r *Ranker) generateMatchedReasons(
	product model.Product,
	entities model.EntityBundle,
	relevance float64,
	priceScore float64,
) []string {
	reasons := []string{}
	title := strings.ToLower(product.Title)
	compactTitle := strings.ReplaceAll(title, " ", "")

	for _, brand := range entities.Brands {
		if strings.Contains(title, brand) {
			reasons = append(reasons, ReasonBrandMatch)
			break
		}
	}

	for _, spec := range entities.Specifications {
		if strings.Contains(compactTitle, strings.ReplaceAll(spec, " ", "")) {
			reasons = append(reasons, ReasonSpecMatch)
			break
		}
	}

	location := strings.ToLower(product.Location)
	for _, loc := range entities.Locations {
		if strings.Contains(location, strings.ToLower(loc)) {
			reasons = append(reasons, ReasonLocationMatch)
			break
		}
	}

	if !entities.Budget.IsEmpty() && priceScore > 0.8 {
		reasons = append(reasons, ReasonPriceMatch)
	}

	if relevance > 0.1 {
		reasons = append(reasons, ReasonContentRelevant)
	}

	if len(reasons) == 0 {
		reasons = append(reasons, ReasonGeneralMatch)
	}

	return reasons
}
