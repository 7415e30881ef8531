// Package query turns free-text search input into a structured ParsedQuery.
package query

// MatchExact is the only price-intent match type.
const MatchExact = "exact"

// PriceIntent is a price target extracted from the query text.
type PriceIntent struct {
	TargetValue float64 `json:"targetValue"`
	MatchType   string  `json:"matchType"`
}

// ParsedQuery is the interpreted form of a raw search query.
// It is created per search call and never shared.
type ParsedQuery struct {
	OriginalQuery   string       `json:"originalQuery"`
	CleanedText     string       `json:"cleanedText"`
	PriceIntent     *PriceIntent `json:"priceIntent"`
	CheapIntent     bool         `json:"cheapIntent"`
	ExpensiveIntent bool         `json:"expensiveIntent"`
	Color           string       `json:"color,omitempty"`
	Storage         string       `json:"storage,omitempty"`
	Tokens          []string     `json:"tokens"`
}

// HasText reports whether the query carries a text constraint.
func (q *ParsedQuery) HasText() bool { return q.CleanedText != "" }
