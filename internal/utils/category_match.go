package utils

import (
	"strings"
)

// categoryAliases maps a product category to the words that identify it.
// Categories are checked in declaration order.
var categoryAliases = []struct {
	name    string
	aliases []string
}{
	{"smartphones", []string{"phone", "smartphone", "mobile", "iphone", "samsung", "galaxy", "android"}},
	{"laptops", []string{"laptop", "computer", "macbook", "notebook", "pc"}},
	{"tablets", []string{"tablet", "ipad", "android tablet", "tab"}},
	{"audio", []string{"headphone", "earphone", "speaker", "airpods", "bluetooth"}},
	{"cameras", []string{"camera", "dslr", "gopro", "camcorder"}},
	{"gaming", []string{"playstation", "xbox", "nintendo", "gaming console", "ps5", "ps4"}},
	{"accessories", []string{"charger", "cable", "case", "screen protector", "power bank"}},
	{"cars", []string{"car", "vehicle", "auto", "sedan", "suv", "truck"}},
}

// MatchCategory returns the first of the candidate categories whose aliases
// occur in text, or "" when none do. An empty candidate list checks every
// known category.
func MatchCategory(text string, candidates ...string) string {
	textLower := strings.ToLower(text)

	for _, c := range categoryAliases {
		if len(candidates) > 0 && !containsFold(candidates, c.name) {
			continue
		}
		for _, alias := range c.aliases {
			if strings.Contains(textLower, alias) {
				return c.name
			}
		}
	}

	return ""
}

// FuzzyMatchCategory reports whether a search term refers to category,
// either by name or through one of its aliases
func FuzzyMatchCategory(term, category string) bool {
	termLower := strings.ToLower(strings.TrimSpace(term))
	categoryLower := strings.ToLower(strings.TrimSpace(category))
	if termLower == "" {
		return false
	}

	// Exact or contains match on the name
	if termLower == categoryLower || strings.Contains(categoryLower, termLower) {
		return true
	}

	return MatchCategory(termLower, categoryLower) == categoryLower
}

// NormalizeCategory maps free-form category names to their display form
func NormalizeCategory(category string) string {
	normalizations := map[string]string{
		"smartphones": "Smartphones",
		"phones":      "Smartphones",
		"laptops":     "Laptops",
		"computers":   "Laptops",
		"tablets":     "Tablets",
		"audio":       "Audio",
		"headphones":  "Audio",
		"cameras":     "Cameras",
		"gaming":      "Gaming",
		"accessories": "Accessories",
		"cars":        "Cars",
		"vehicles":    "Cars",
	}

	lower := strings.ToLower(strings.TrimSpace(category))
	if normalized, ok := normalizations[lower]; ok {
		return normalized
	}
	if lower == "" {
		return ""
	}
	return strings.ToUpper(lower[:1]) + lower[1:]
}

func containsFold(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}
