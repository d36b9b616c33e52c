package pokeapi

import (
	"context"
	"fmt"
)

// ListItem is one catalog entry as shown in the list view.
type ListItem struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Types  []string `json:"types"`
	Sprite string   `json:"sprite,omitempty"`
}

// Stat is a single base stat of a creature.
type Stat struct {
	Name      string `json:"name"`
	BaseValue int    `json:"base_value"`
}

// Detail is a ListItem enriched with the fields shown in the detail overlay.
// Weight is in decagrams and Height in decimeters, as reported by the API.
type Detail struct {
	ListItem
	CaptureRate *int   `json:"capture_rate,omitempty"`
	Weight      *int   `json:"weight,omitempty"`
	Height      *int   `json:"height,omitempty"`
	Stats       []Stat `json:"stats"`
}

// ListQuery holds the parameters of one page request.
type ListQuery struct {
	Pattern string
	Limit   int
	Offset  int
}

// Key identifies the parameter set. Two queries with the same key are the
// same request.
func (q ListQuery) Key() string {
	return fmt.Sprintf("%s|%d|%d", q.Pattern, q.Limit, q.Offset)
}

// ListResult is one page of items plus the total number of matches for the
// pattern, independent of the page window.
type ListResult struct {
	Items      []ListItem `json:"items"`
	TotalCount int        `json:"total_count"`
}

// Fetcher is implemented by anything that can answer list and detail
// queries: the HTTP client, the caching catalog service and test fakes.
type Fetcher interface {
	FetchList(ctx context.Context, q ListQuery) (*ListResult, error)
	// FetchDetail returns (nil, nil) when no record exists for id.
	FetchDetail(ctx context.Context, id int) (*Detail, error)
}
