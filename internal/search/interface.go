package search

import "github.com/pders01/dex/internal/pokeapi"

// Searcher is the local, offline search over items already fetched.
type Searcher interface {
	Search(query string, limit int) ([]*Result, error)
	// Suggest returns item names close to term, for "did you mean" hints.
	Suggest(term string, limit int) ([]string, error)
}

// UpdateListener is implemented by engines that keep their own index and
// want to hear about freshly fetched items.
type UpdateListener interface {
	OnItemsUpdated(items []pokeapi.ListItem)
}

// DebugStatser provides lightweight stats for visibility/debugging.
type DebugStatser interface {
	DocCount() (int, error)
}

type Result struct {
	Item    *pokeapi.ListItem
	Score   float64
	Matches []Match
}

// Match represents where text was found
type Match struct {
	Field  string // "name" or "types"
	Text   string
	Weight float64
}
