package service

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"shopassist/internal/model"
)

// DefaultMaxQueryLength bounds how many runes of a query are scored
const DefaultMaxQueryLength = 2000

// intentRule pairs an intent with the patterns that vote for it
type intentRule struct {
	intent   model.Intent
	patterns []string
}

// intentTable is scored in declaration order; on equal scores the earlier intent wins.
// general_chat is the fallback and has no patterns.
var intentTable = []intentRule{
	{
		intent: model.IntentSearchProduct,
		patterns: []string{
			`\b(find|search|look for|want|need|buy|purchase|shopping for)\b`,
			`\b(phone|laptop|computer|headphone|tablet|camera|watch)\b`,
			`\b(samsung|iphone|apple|hp|dell|sony|lg|tecno|infinix)\b`,
			`\b(under|below|within|budget|price|cost|ghs|₵)\b`,
		},
	},
	{
		intent: model.IntentTrackOrder,
		patterns: []string{
			`\b(track|order|delivery|shipment|status)\b`,
			`\b(order number|tracking|delivered|shipped)\b`,
		},
	},
	{
		intent: model.IntentFAQInquiry,
		patterns: []string{
			`\b(help|how|what|why|when|where|support|question)\b`,
			`\b(return|refund|warranty|payment|shipping|policy)\b`,
		},
	},
	{
		intent: model.IntentGetRecommendations,
		patterns: []string{
			`\b(recommend|suggest|advice|best|top|popular|similar)\b`,
			`\b(what should|which one|alternatives)\b`,
		},
	},
	{
		intent: model.IntentCompareProducts,
		patterns: []string{
			`\b(compare|vs|versus|difference|better|between)\b`,
			`\b(which is better|what's the difference)\b`,
		},
	},
	{
		intent: model.IntentPriceAlert,
		patterns: []string{
			`\b(alert|notify|watch|monitor|price drop|when price)\b`,
			`\b(let me know|tell me when|notification)\b`,
		},
	},
}

var intentExplanations = map[model.Intent]string{
	model.IntentSearchProduct:      "I'll help you search for products on Jiji.com.gh",
	model.IntentTrackOrder:         "I'll help you track your order status",
	model.IntentFAQInquiry:         "I'll answer your question or help with support",
	model.IntentGetRecommendations: "I'll provide personalized product recommendations",
	model.IntentCompareProducts:    "I'll help you compare different products",
	model.IntentPriceAlert:         "I'll set up a price alert for you",
	model.IntentGeneralChat:        "I'm here to help with your shopping needs",
}

type compiledRule struct {
	intent   model.Intent
	patterns []*regexp.Regexp
}

// IntentClassifier routes free text to one intent by counting pattern matches.
// The compiled table is never modified after construction, so a classifier
// can be shared between goroutines.
type IntentClassifier struct {
	rules          []compiledRule
	extractor      *EntityExtractor
	maxQueryLength int
}

// NewIntentClassifier creates a new intent classifier. A non-positive
// maxQueryLength selects DefaultMaxQueryLength.
func NewIntentClassifier(extractor *EntityExtractor, maxQueryLength int) *IntentClassifier {
	if extractor == nil {
		extractor = NewEntityExtractor()
	}
	if maxQueryLength <= 0 {
		maxQueryLength = DefaultMaxQueryLength
	}

	rules := make([]compiledRule, 0, len(intentTable))
	for _, rule := range intentTable {
		compiled := compiledRule{intent: rule.intent}
		for _, p := range rule.patterns {
			compiled.patterns = append(compiled.patterns, regexp.MustCompile(p))
		}
		rules = append(rules, compiled)
	}

	return &IntentClassifier{
		rules:          rules,
		extractor:      extractor,
		maxQueryLength: maxQueryLength,
	}
}

// Classify scores text against every intent and returns the winner with its entities.
// It never fails; text with no pattern hits is general_chat with confidence 0.
func (c *IntentClassifier) Classify(text string) model.ClassificationResult {
	text = truncateRunes(text, c.maxQueryLength)
	scores := c.Score(text)

	winner := model.IntentGeneralChat
	best := 0
	for _, rule := range c.rules {
		if scores[rule.intent] > best {
			winner = rule.intent
			best = scores[rule.intent]
		}
	}

	return model.ClassificationResult{
		Intent:     winner,
		Confidence: best,
		Entities:   c.extractor.Extract(text),
		AllScores:  scores,
	}
}

// Score counts non-overlapping pattern matches per intent on the lower-cased text.
// A match glued to a non-ASCII letter or digit, as in "téléphone", is not a
// whole word and does not count.
func (c *IntentClassifier) Score(text string) model.IntentScore {
	lower := strings.ToLower(text)
	scores := make(model.IntentScore, len(c.rules))
	for _, rule := range c.rules {
		score := 0
		for _, re := range rule.patterns {
			for _, loc := range re.FindAllStringIndex(lower, -1) {
				if isWholeWord(lower, loc[0], loc[1]) {
					score++
				}
			}
		}
		scores[rule.intent] = score
	}
	return scores
}

// isWholeWord reports whether s[start:end] has no letter or digit directly
// on either side. RE2's \b only knows ASCII word characters.
func isWholeWord(s string, start, end int) bool {
	if start > 0 {
		if r, _ := utf8.DecodeLastRuneInString(s[:start]); isWordRune(r) && isWordRune(firstRune(s[start:end])) {
			return false
		}
	}
	if end < len(s) {
		if r, _ := utf8.DecodeRuneInString(s[end:]); isWordRune(r) && isWordRune(lastRune(s[start:end])) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

func lastRune(s string) rune {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r
}

// Extract exposes entity extraction without intent scoring
func (c *IntentClassifier) Extract(text string) model.EntityBundle {
	return c.extractor.Extract(truncateRunes(text, c.maxQueryLength))
}

// Explanation returns the one-line description shown for a detected intent
func Explanation(intent model.Intent) string {
	if msg, ok := intentExplanations[intent]; ok {
		return msg
	}
	return "I'll help you with that"
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
