package search

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/pders01/dex/internal/debuglog"
	"github.com/pders01/dex/internal/pokeapi"
	"github.com/pders01/dex/internal/storage"
)

type bleveEngine struct {
	store *storage.Store
	idx   bleve.Index
}

// NewBleveEngine opens the index at indexPath, creating it if needed, and
// indexes every item already in the store.
func NewBleveEngine(store *storage.Store, indexPath string) (Searcher, error) {
	if err := os.MkdirAll(filepath.Dir(indexPath), 0o755); err != nil {
		return nil, err
	}

	idx, err := bleve.Open(indexPath)
	if err != nil {
		idx, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, err
		}
	}

	be := &bleveEngine{store: store, idx: idx}
	if err := be.reindexAll(); err != nil {
		_ = idx.Close()
		return nil, err
	}
	return be, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	name := bleve.NewTextFieldMapping()
	name.Analyzer = standard.Name
	name.Store = true
	name.IncludeTermVectors = true

	types := bleve.NewTextFieldMapping()
	types.Analyzer = standard.Name
	types.Store = true

	sprite := bleve.NewTextFieldMapping()
	sprite.Index = false
	sprite.Store = true

	dm.AddFieldMappingsAt("name", name)
	dm.AddFieldMappingsAt("types", types)
	dm.AddFieldMappingsAt("sprite", sprite)

	im.DefaultMapping = dm
	return im
}

func docID(id string) string { return "item:" + id }

func itemDoc(item pokeapi.ListItem) map[string]any {
	return map[string]any{
		"name":   item.Name,
		"types":  strings.Join(item.Types, " "),
		"sprite": item.Sprite,
	}
}

func (b *bleveEngine) reindexAll() error {
	items, err := b.store.GetAllItems()
	if err != nil {
		return err
	}
	batch := b.idx.NewBatch()
	for _, item := range items {
		_ = batch.Index(docID(item.ID), itemDoc(*item))
	}
	return b.idx.Batch(batch)
}

func (b *bleveEngine) Search(query string, limit int) ([]*Result, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return []*Result{}, nil
	}
	if limit <= 0 {
		limit = 10
	}

	var qs []bleveQuery.Query
	for _, tok := range tokenize(query) {
		qn := bleve.NewMatchQuery(tok)
		qn.SetField("name")
		qn.SetBoost(4.0)
		qs = append(qs, qn)

		qnp := bleve.NewPrefixQuery(tok)
		qnp.SetField("name")
		qnp.SetBoost(3.5)
		qs = append(qs, qnp)

		qt := bleve.NewMatchQuery(tok)
		qt.SetField("types")
		qt.SetBoost(1.5)
		qs = append(qs, qt)
	}
	if len(qs) == 0 {
		return []*Result{}, nil
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(qs...), limit, 0, false)
	req.Fields = []string{"name", "types", "sprite"}
	res, err := b.idx.Search(req)
	if err != nil {
		return nil, err
	}

	out := make([]*Result, 0, len(res.Hits))
	for _, h := range res.Hits {
		item := &pokeapi.ListItem{ID: strings.TrimPrefix(h.ID, "item:"), Types: []string{}}
		if n, ok := h.Fields["name"].(string); ok {
			item.Name = n
		}
		if t, ok := h.Fields["types"].(string); ok && t != "" {
			item.Types = strings.Fields(t)
		}
		if s, ok := h.Fields["sprite"].(string); ok {
			item.Sprite = s
		}
		out = append(out, &Result{
			Item:    item,
			Score:   h.Score,
			Matches: []Match{{Field: "name", Text: item.Name, Weight: h.Score}},
		})
	}
	return out, nil
}

// Suggest uses a fuzzy query on the name field.
func (b *bleveEngine) Suggest(term string, limit int) ([]string, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if len(term) < 2 {
		return []string{}, nil
	}
	if limit <= 0 {
		limit = 3
	}

	fq := bleve.NewFuzzyQuery(term)
	fq.SetField("name")
	fq.SetFuzziness(2)

	req := bleve.NewSearchRequestOptions(fq, limit, 0, false)
	req.Fields = []string{"name"}
	res, err := b.idx.Search(req)
	if err != nil {
		return nil, err
	}

	out := []string{}
	seen := map[string]bool{}
	for _, h := range res.Hits {
		n, ok := h.Fields["name"].(string)
		if !ok || n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out, nil
}

func (b *bleveEngine) OnItemsUpdated(items []pokeapi.ListItem) {
	batch := b.idx.NewBatch()
	for _, item := range items {
		_ = batch.Index(docID(item.ID), itemDoc(item))
	}
	if err := b.idx.Batch(batch); err != nil {
		debuglog.Warnf("search: indexing %d items: %v", len(items), err)
	}
}

func (b *bleveEngine) DocCount() (int, error) {
	n, err := b.idx.DocCount()
	return int(n), err
}

func (b *bleveEngine) Close() error {
	return b.idx.Close()
}
