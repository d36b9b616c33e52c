package storage

import (
	"time"

	"github.com/pders01/dex/internal/pokeapi"
)

// CachedList is one page of list results as returned for a query key.
type CachedList struct {
	Key       string             `json:"key"`
	Result    pokeapi.ListResult `json:"result"`
	FetchedAt time.Time          `json:"fetched_at"`
}

// CachedDetail holds a detail record. Missing is set when the API answered
// that no record exists, so the negative answer is cached too.
type CachedDetail struct {
	ID        int             `json:"id"`
	Detail    *pokeapi.Detail `json:"detail,omitempty"`
	Missing   bool            `json:"missing"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// Session is what the TUI restores on the next start.
type Session struct {
	Route   string    `json:"route"`
	Search  string    `json:"search"`
	SavedAt time.Time `json:"saved_at"`
}
