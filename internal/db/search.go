package db

import "github.com/kailas-cloud/shopdex/internal/domain/search/filter"

// Query is the input for a filtered FT.SEARCH.
type Query struct {
	IndexName    string
	Filter       filter.Filter
	TextFields   []string // fields the filter text is matched against; empty means all TEXT fields
	Offset       int
	Limit        int
	SortBy       string
	SortDesc     bool
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Fields map[string]string
}
