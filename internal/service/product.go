package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"shopassist/internal/model"
	"shopassist/internal/utils"
)

// ProductSource finds marketplace listings for a search string
type ProductSource interface {
	Search(ctx context.Context, query string, maxResults int) ([]model.Product, error)
}

// SearchOutcome is the result of one product search turn
type SearchOutcome struct {
	Query    string                      `json:"query"`
	Products []model.ProductSearchResult `json:"products"`
	Message  string                      `json:"message"`
}

// ProductSearcher turns extracted entities into a marketplace search,
// filters the listings by budget and ranks them
type ProductSearcher struct {
	source     ProductSource
	ranker     *Ranker
	maxResults int
	logger     zerolog.Logger
}

// NewProductSearcher creates a new product searcher
func NewProductSearcher(source ProductSource, ranker *Ranker, maxResults int, logger zerolog.Logger) *ProductSearcher {
	if ranker == nil {
		ranker = NewRanker(0.6, 0.4)
	}
	if maxResults <= 0 {
		maxResults = 10
	}
	return &ProductSearcher{
		source:     source,
		ranker:     ranker,
		maxResults: maxResults,
		logger:     logger,
	}
}

// Search runs a marketplace search for the user's query
func (p *ProductSearcher) Search(ctx context.Context, query string, entities model.EntityBundle) (*SearchOutcome, error) {
	searchQuery := BuildSearchQuery(query, entities)

	products, err := p.source.Search(ctx, searchQuery, p.maxResults)
	if err != nil {
		return nil, fmt.Errorf("product search failed: %w", err)
	}

	found := len(products)
	products = FilterByBudget(products, entities.Budget)
	for i := range products {
		if products[i].Category == "" {
			products[i].Category = utils.NormalizeCategory(utils.MatchCategory(products[i].Title))
		}
	}

	p.logger.Debug().
		Str("query", searchQuery).
		Int("found", found).
		Int("in_budget", len(products)).
		Msg("product search")

	results := p.ranker.RankResults(products, entities)
	return &SearchOutcome{
		Query:    searchQuery,
		Products: results,
		Message:  searchMessage(query, len(results), entities.Budget),
	}, nil
}

// BuildSearchQuery joins the extracted product types, brands and
// specifications, falling back to the raw query when none were found
func BuildSearchQuery(query string, entities model.EntityBundle) string {
	dedup := entities.Deduplicated()

	var terms []string
	seen := map[string]bool{}
	for _, group := range [][]string{dedup.ProductTypes, dedup.Brands, dedup.Specifications} {
		for _, term := range group {
			if !seen[term] {
				seen[term] = true
				terms = append(terms, term)
			}
		}
	}

	if len(terms) == 0 {
		return strings.TrimSpace(query)
	}
	return strings.Join(terms, " ")
}

var pricePattern = regexp.MustCompile(`\d[\d,]*`)

// ParsePrice reads the first number out of a display price such as "GH₵ 4,200"
func ParsePrice(price string) (int, bool) {
	price = strings.NewReplacer("GH₵", "", "₵", "").Replace(price)
	raw := pricePattern.FindString(price)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.ReplaceAll(raw, ",", ""))
	if err != nil {
		return 0, false
	}
	return n, true
}

// FilterByBudget keeps products whose price lies inside budget. When a budget
// is set, products without a readable price are dropped.
func FilterByBudget(products []model.Product, budget model.Budget) []model.Product {
	if budget.IsEmpty() {
		return products
	}

	filtered := make([]model.Product, 0, len(products))
	for _, product := range products {
		price, ok := ParsePrice(product.Price)
		if ok && budget.Contains(price) {
			filtered = append(filtered, product)
		}
	}
	return filtered
}

// BudgetPhrase renders a budget for chat replies, e.g. " under GHS 2,000"
func BudgetPhrase(budget model.Budget) string {
	switch {
	case budget.Min != nil && budget.Max != nil:
		return fmt.Sprintf(" within GHS %s - GHS %s", humanize.Comma(int64(*budget.Min)), humanize.Comma(int64(*budget.Max)))
	case budget.Max != nil:
		return fmt.Sprintf(" under GHS %s", humanize.Comma(int64(*budget.Max)))
	default:
		return ""
	}
}

func searchMessage(query string, count int, budget model.Budget) string {
	if count == 0 {
		return fmt.Sprintf(`Sorry, I couldn't find any products matching "%s" on Jiji.com.gh.

**Suggestions:**
• Try different keywords (e.g., "Galaxy" instead of "Samsung Galaxy")
• Check your budget range
• Try a broader search term
• Visit [Jiji.com.gh](https://jiji.com.gh) directly`, query)
	}

	noun := "products"
	if count == 1 {
		noun = "product"
	}
	return fmt.Sprintf(`Great! I found **%d %s** matching "%s"%s on Jiji.com.gh:

Here are the best matches for you:`, count, noun, query, BudgetPhrase(budget))
}
