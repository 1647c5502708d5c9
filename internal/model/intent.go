package model

// Intent is the discrete action category a user query is routed to
type Intent string

const (
	IntentSearchProduct      Intent = "search_product"
	IntentTrackOrder         Intent = "track_order"
	IntentFAQInquiry         Intent = "faq_inquiry"
	IntentGetRecommendations Intent = "get_recommendations"
	IntentCompareProducts    Intent = "compare_products"
	IntentPriceAlert         Intent = "price_alert"
	IntentGeneralChat        Intent = "general_chat"
)

// AllIntents lists the closed set of intents in routing table order
var AllIntents = []Intent{
	IntentSearchProduct,
	IntentTrackOrder,
	IntentFAQInquiry,
	IntentGetRecommendations,
	IntentCompareProducts,
	IntentPriceAlert,
	IntentGeneralChat,
}

// Valid reports whether the intent belongs to the closed set
func (i Intent) Valid() bool {
	for _, known := range AllIntents {
		if i == known {
			return true
		}
	}
	return false
}

// IntentScore maps an intent to its pattern match count for one input
type IntentScore map[Intent]int

// ClassificationResult represents the routing decision for one user turn
type ClassificationResult struct {
	Intent     Intent       `json:"intent"`
	Confidence int          `json:"confidence"`
	Entities   EntityBundle `json:"entities"`
	AllScores  IntentScore  `json:"all_scores"`
}
