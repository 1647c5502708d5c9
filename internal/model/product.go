package model

import (
	"database/sql/driver"
	"encoding/json"
)

// Product represents a marketplace listing card
type Product struct {
	Title    string `json:"title"`
	Price    string `json:"price"`
	Link     string `json:"link"`
	Location string `json:"location"`
	Category string `json:"category,omitempty"`
	Specs    string `json:"specs,omitempty"`
}

// ProductSearchResult represents a ranked product with additional metadata
type ProductSearchResult struct {
	Product
	Score          float64  `json:"score"`
	MatchedReasons []string `json:"matched_reasons"`
}

// JSONArray represents a JSON array field
type JSONArray []string

// Value implements driver.Valuer interface
func (j JSONArray) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner interface
func (j *JSONArray) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return json.Unmarshal([]byte(value.(string)), j)
	}
	return json.Unmarshal(bytes, j)
}
