package search

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"

	"github.com/pders01/dex/internal/pokeapi"
	"github.com/pders01/dex/internal/storage"
)

// Engine scans every cached item on each query. No index to maintain.
type Engine struct {
	store *storage.Store
}

func NewEngine(store *storage.Store) *Engine {
	return &Engine{store: store}
}

func (e *Engine) Search(query string, limit int) ([]*Result, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return []*Result{}, nil
	}

	terms := tokenize(query)
	if len(terms) == 0 {
		return []*Result{}, nil
	}

	items, err := e.store.GetAllItems()
	if err != nil {
		return nil, err
	}

	results := []*Result{}
	for _, item := range items {
		if r := scoreItem(item, terms); r != nil {
			results = append(results, r)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Suggest ranks cached names by edit distance to term.
func (e *Engine) Suggest(term string, limit int) ([]string, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if len(term) < 2 {
		return []string{}, nil
	}

	items, err := e.store.GetAllItems()
	if err != nil {
		return nil, err
	}

	type candidate struct {
		name string
		dist int
	}
	maxDist := len(term)/3 + 1
	var cands []candidate
	seen := map[string]bool{}
	for _, item := range items {
		lower := strings.ToLower(item.Name)
		if item.Name == "" || seen[lower] {
			continue
		}
		seen[lower] = true
		if d := levenshtein.ComputeDistance(term, lower); d <= maxDist {
			cands = append(cands, candidate{item.Name, d})
		}
	}
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].dist != cands[j].dist {
			return cands[i].dist < cands[j].dist
		}
		return cands[i].name < cands[j].name
	})

	out := []string{}
	for _, c := range cands {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, c.name)
	}
	return out, nil
}

func scoreItem(item *pokeapi.ListItem, terms []string) *Result {
	var matches []Match
	var total float64

	if s := scoreField(item.Name, terms, 3.0); s > 0 {
		matches = append(matches, Match{Field: "name", Text: item.Name, Weight: s})
		total += s
	}
	types := strings.Join(item.Types, " ")
	if s := scoreField(types, terms, 1.0); s > 0 {
		matches = append(matches, Match{Field: "types", Text: types, Weight: s})
		total += s
	}

	if total == 0 {
		return nil
	}
	return &Result{Item: item, Score: total, Matches: matches}
}

func scoreField(text string, terms []string, weight float64) float64 {
	if text == "" {
		return 0
	}

	lower := strings.ToLower(text)
	words := tokenize(text)
	if len(words) == 0 {
		return 0
	}

	var score float64
	matched := 0
	for _, term := range terms {
		if strings.Contains(lower, term) {
			score += 2.0
			matched++
		}
		for _, word := range words {
			switch {
			case word == term:
				score += 1.5
				matched++
			case strings.HasPrefix(word, term):
				score += 1.0
				matched++
			case strings.Contains(word, term):
				score += 0.5
				matched++
			}
		}
	}

	if len(terms) > 1 && matched > 1 {
		score *= 1.0 + float64(matched)/float64(len(terms))
	}
	tf := float64(matched) / float64(len(words))
	score *= 1.0 + math.Log(1.0+tf)

	return score * weight
}

// tokenize lowercases and splits on anything that is not a letter or digit.
// Single characters are dropped.
func tokenize(text string) []string {
	var terms []string
	var current strings.Builder

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(unicode.ToLower(r))
		} else if current.Len() > 0 {
			if term := current.String(); len([]rune(term)) > 1 {
				terms = append(terms, term)
			}
			current.Reset()
		}
	}
	if term := current.String(); len([]rune(term)) > 1 {
		terms = append(terms, term)
	}
	return terms
}
