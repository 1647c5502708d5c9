package model

import "time"

// ChatRequest represents one user turn sent to the assistant
type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message" binding:"required"`
}

// ChatResponse represents the assistant reply for one user turn
type ChatResponse struct {
	SessionID   string                `json:"session_id"`
	Intent      Intent                `json:"intent"`
	Confidence  int                   `json:"confidence"`
	Entities    EntityBundle          `json:"entities"`
	Explanation string                `json:"explanation"`
	Message     string                `json:"message"`
	Products    []ProductSearchResult `json:"products,omitempty"`
	Tracking    *OrderTracking        `json:"tracking,omitempty"`
	Took        int64                 `json:"took_ms"` // Response time in milliseconds
}

// TextRequest represents a raw text payload for classification/extraction endpoints
type TextRequest struct {
	Text string `json:"text" binding:"required"`
}

// OrderTracking represents the tracking state of an order
type OrderTracking struct {
	OrderNumber       string          `json:"order_number"`
	Status            string          `json:"status"`
	EstimatedDelivery string          `json:"estimated_delivery"`
	LastUpdate        string          `json:"last_update"`
	Details           []TrackingEvent `json:"tracking_details"`
}

// TrackingEvent represents a single step in an order's tracking history
type TrackingEvent struct {
	Time     string `json:"time"`
	Status   string `json:"status"`
	Location string `json:"location"`
}

// PriceAlert represents a request to be notified when matching products drop in price
type PriceAlert struct {
	ID        string    `json:"id" db:"id"`
	SessionID string    `json:"session_id" db:"session_id"`
	Query     string    `json:"query" db:"query"`
	Keywords  JSONArray `json:"keywords" db:"keywords"`
	MaxPrice  *int      `json:"max_price,omitempty" db:"max_price"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// FeedbackRequest represents user feedback on an assistant reply
type FeedbackRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required"` // 1-5
	Comment   string `json:"comment,omitempty"`
}

// FeedbackResponse represents feedback response
type FeedbackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// FavoriteRequest represents a product to store in a session's favorites
type FavoriteRequest struct {
	Product Product `json:"product"`
}

// Interaction is one classified chat turn, logged for analytics
type Interaction struct {
	ID             int64        `json:"id" db:"id"`
	SessionID      string       `json:"session_id" db:"session_id"`
	Query          string       `json:"query" db:"query"`
	Intent         Intent       `json:"intent" db:"intent"`
	Confidence     int          `json:"confidence" db:"confidence"`
	Entities       EntityBundle `json:"entities" db:"entities"`
	ResultCount    int          `json:"result_count" db:"result_count"`
	ResponseTimeMs int          `json:"response_time_ms" db:"response_time_ms"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
}

// IntentCount aggregates logged interactions per intent
type IntentCount struct {
	Intent Intent `json:"intent" db:"intent"`
	Count  int    `json:"count" db:"count"`
}
