package utils

import (
	"testing"
)

func TestMatchCategory(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		candidates []string
		want       string
	}{
		{name: "phone", text: "Samsung Galaxy A52", want: "smartphones"},
		{name: "laptop", text: "HP Pavilion laptop", want: "laptops"},
		{name: "declaration order wins", text: "laptop with phone charger", want: "smartphones"},
		{name: "restricted candidates", text: "laptop with phone charger", candidates: []string{"laptops"}, want: "laptops"},
		{name: "audio", text: "Sony speaker", want: "audio"},
		{name: "no match", text: "wooden wardrobe", want: ""},
		{name: "candidate without match", text: "sony headphones", candidates: []string{"laptops"}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchCategory(tt.text, tt.candidates...)
			if got != tt.want {
				t.Errorf("MatchCategory(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestFuzzyMatchCategory(t *testing.T) {
	tests := []struct {
		term     string
		category string
		want     bool
	}{
		{"laptops", "laptops", true},
		{"laptop", "laptops", true},
		{"MacBook", "laptops", true},
		{"iphone", "smartphones", true},
		{"iphone", "laptops", false},
		{"", "laptops", false},
	}

	for _, tt := range tests {
		if got := FuzzyMatchCategory(tt.term, tt.category); got != tt.want {
			t.Errorf("FuzzyMatchCategory(%q, %q) = %v, want %v", tt.term, tt.category, got, tt.want)
		}
	}
}

func TestNormalizeCategory(t *testing.T) {
	tests := map[string]string{
		"phones":     "Smartphones",
		" Laptops ":  "Laptops",
		"headphones": "Audio",
		"wearables":  "Wearables",
		"":           "",
	}

	for in, want := range tests {
		if got := NormalizeCategory(in); got != want {
			t.Errorf("NormalizeCategory(%q) = %q, want %q", in, got, want)
		}
	}
}
