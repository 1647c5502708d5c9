package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Budget is a price range in the query's currency unit. Either bound may be absent.
type Budget struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

// IsEmpty reports whether neither bound was stated
func (b Budget) IsEmpty() bool {
	return b.Min == nil && b.Max == nil
}

// Contains reports whether price satisfies every stated bound
func (b Budget) Contains(price int) bool {
	if b.Min != nil && price < *b.Min {
		return false
	}
	if b.Max != nil && price > *b.Max {
		return false
	}
	return true
}

// EntityBundle holds the structured facts mined from a query.
// Sequences are never nil and keep duplicates; see Deduplicated.
type EntityBundle struct {
	ProductTypes   []string `json:"product_types"`
	Brands         []string `json:"brands"`
	Budget         Budget   `json:"budget"`
	Specifications []string `json:"specifications"`
	Locations      []string `json:"locations"`
}

// NewEntityBundle returns a bundle with every sequence allocated
func NewEntityBundle() EntityBundle {
	return EntityBundle{
		ProductTypes:   []string{},
		Brands:         []string{},
		Specifications: []string{},
		Locations:      []string{},
	}
}

// Deduplicated returns a copy whose sequences keep only the first occurrence of each value
func (e EntityBundle) Deduplicated() EntityBundle {
	return EntityBundle{
		ProductTypes:   uniqueStrings(e.ProductTypes),
		Brands:         uniqueStrings(e.Brands),
		Budget:         e.Budget,
		Specifications: uniqueStrings(e.Specifications),
		Locations:      uniqueStrings(e.Locations),
	}
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Value implements driver.Valuer interface
func (e EntityBundle) Value() (driver.Value, error) {
	return json.Marshal(e)
}

// Scan implements sql.Scanner interface
func (e *EntityBundle) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*e = NewEntityBundle()
		return nil
	case []byte:
		return json.Unmarshal(v, e)
	case string:
		return json.Unmarshal([]byte(v), e)
	default:
		return fmt.Errorf("unsupported entity bundle column type %T", value)
	}
}
