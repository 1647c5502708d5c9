package service

import (
	"regexp"
	"strconv"
	"strings"

	"shopassist/internal/model"
)

// Keyword tables are matched by substring containment on the lower-cased query,
// so "phone" also matches "phones" and "headphone". Order is significant: it is
// the order entities are reported in.
var (
	productKeywords = []string{
		"phone", "smartphone", "iphone", "samsung", "galaxy", "android",
		"laptop", "computer", "macbook", "hp", "dell", "lenovo",
		"tablet", "ipad", "headphone", "airpods", "speaker",
		"camera", "watch", "smartwatch", "tv", "monitor",
		"gaming", "console", "playstation", "xbox",
		"car", "vehicle", "toyota", "honda", "mercedes",
	}

	brandKeywords = []string{
		"samsung", "apple", "iphone", "hp", "dell", "lenovo", "sony", "lg", "tecno", "infinix",
	}

	cityKeywords = []string{
		"accra", "kumasi", "tamale", "cape coast", "tema", "sekondi", "koforidua",
	}
)

const amount = `(\d+(?:,\d{3})*)`

// budgetPattern captures either a single upper bound or a min/max pair
type budgetPattern struct {
	re    *regexp.Regexp
	isMax bool // single capture sets Max; otherwise two captures set Min and Max
}

// Budget patterns run in this order and later matches overwrite earlier ones.
var budgetPatterns = []budgetPattern{
	{re: regexp.MustCompile(`(?:under|below|less than|maximum|max)\s*(?:ghs?\s*)?` + amount), isMax: true},
	{re: regexp.MustCompile(`(?:ghs?\s*)?` + amount + `\s*(?:to|and|-|or)\s*(?:ghs?\s*)?` + amount)},
	{re: regexp.MustCompile(`budget\s*(?:of|is)?\s*(?:ghs?\s*)?` + amount), isMax: true},
	{re: regexp.MustCompile(`between\s*(?:ghs?\s*)?` + amount + `\s*(?:and|to|-)\s*(?:ghs?\s*)?` + amount)},
}

type specPattern struct {
	re   *regexp.Regexp
	unit string
}

var specPatterns = []specPattern{
	{re: regexp.MustCompile(`(\d+)\s*gb`), unit: "gb"},
	{re: regexp.MustCompile(`(\d+)\s*tb`), unit: "tb"},
	{re: regexp.MustCompile(`(\d+)\s*inch`), unit: "inch"},
	{re: regexp.MustCompile(`(\d+)\s*mp`), unit: "mp"},
	{re: regexp.MustCompile(`(\d+)\s*core`), unit: "core"},
}

// EntityExtractor mines product types, brands, budget, specifications and
// locations from free text. It holds no mutable state and is safe for
// concurrent use.
type EntityExtractor struct{}

// NewEntityExtractor creates a new entity extractor
func NewEntityExtractor() *EntityExtractor {
	return &EntityExtractor{}
}

// Extract never fails: fragments that cannot be parsed are left out of the bundle.
func (x *EntityExtractor) Extract(text string) model.EntityBundle {
	entities := model.NewEntityBundle()
	lower := strings.ToLower(text)

	entities.ProductTypes = appendContained(entities.ProductTypes, lower, productKeywords)
	entities.Brands = appendContained(entities.Brands, lower, brandKeywords)
	entities.Budget = extractBudget(lower)
	entities.Specifications = extractSpecifications(lower)

	for _, city := range cityKeywords {
		if strings.Contains(lower, city) {
			entities.Locations = append(entities.Locations, titleCase(city))
		}
	}

	return entities
}

func appendContained(dst []string, text string, keywords []string) []string {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			dst = append(dst, kw)
		}
	}
	return dst
}

func extractBudget(lower string) model.Budget {
	var budget model.Budget
	for _, p := range budgetPatterns {
		for _, m := range p.re.FindAllStringSubmatch(lower, -1) {
			if p.isMax {
				setAmount(&budget.Max, m[1])
				continue
			}
			setAmount(&budget.Min, m[1])
			setAmount(&budget.Max, m[2])
		}
	}
	return budget
}

// setAmount overwrites dst only when raw converts to an int
func setAmount(dst **int, raw string) {
	n, err := strconv.Atoi(strings.ReplaceAll(raw, ",", ""))
	if err != nil {
		return
	}
	*dst = &n
}

func extractSpecifications(lower string) []string {
	specs := []string{}
	for _, p := range specPatterns {
		for _, m := range p.re.FindAllStringSubmatch(lower, -1) {
			specs = append(specs, m[1]+" "+p.unit)
		}
	}
	return specs
}

// titleCase upper-cases the first letter of every space separated word
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
