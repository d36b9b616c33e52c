package tui

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/dex/internal/config"
	"github.com/pders01/dex/internal/media"
	"github.com/pders01/dex/internal/nav"
	"github.com/pders01/dex/internal/pokeapi"
	"github.com/pders01/dex/internal/search"
	"github.com/pders01/dex/internal/storage"
)

const pikachuSprite = "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/25.png"

var knownNames = map[int]string{
	1:  "Bulbasaur",
	2:  "Ivysaur",
	3:  "Venusaur",
	4:  "Charmander",
	5:  "Charmeleon",
	25: "Pikachu",
	26: "Raichu",
}

// fakeFetcher serves a 151 entry catalog from memory and records every
// request it sees.
type fakeFetcher struct {
	mu        sync.Mutex
	items     []pokeapi.ListItem
	lists     []pokeapi.ListQuery
	details   []int
	detailErr error
}

func newFakeFetcher() *fakeFetcher {
	f := &fakeFetcher{}
	for i := 1; i <= 151; i++ {
		name, ok := knownNames[i]
		if !ok {
			name = fmt.Sprintf("Mon%03d", i)
		}
		item := pokeapi.ListItem{ID: fmt.Sprint(i), Name: name, Types: []string{"normal"}}
		if i == 1 {
			item.Types = []string{"grass", "poison"}
		}
		if i == 25 {
			item.Types = []string{"electric"}
			item.Sprite = pikachuSprite
		}
		f.items = append(f.items, item)
	}
	return f
}

func (f *fakeFetcher) FetchList(_ context.Context, q pokeapi.ListQuery) (*pokeapi.ListResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = append(f.lists, q)

	re, err := regexp.Compile("(?i)^(?:" + q.Pattern + ")$")
	if err != nil {
		return nil, err
	}
	var matched []pokeapi.ListItem
	for _, it := range f.items {
		if re.MatchString(it.Name) {
			matched = append(matched, it)
		}
	}
	res := &pokeapi.ListResult{TotalCount: len(matched)}
	if q.Offset < len(matched) {
		res.Items = matched[q.Offset:min(q.Offset+q.Limit, len(matched))]
	}
	return res, nil
}

func (f *fakeFetcher) FetchDetail(_ context.Context, id int) (*pokeapi.Detail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.details = append(f.details, id)
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	if id < 1 || id > len(f.items) {
		return nil, nil
	}
	rate, height, weight := 190, 4, 60
	return &pokeapi.Detail{
		ListItem:    f.items[id-1],
		CaptureRate: &rate,
		Height:      &height,
		Weight:      &weight,
		Stats:       []pokeapi.Stat{{Name: "hp", BaseValue: 35}, {Name: "special-attack", BaseValue: 50}},
	}, nil
}

func (f *fakeFetcher) listQueries() []pokeapi.ListQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]pokeapi.ListQuery(nil), f.lists...)
}

func (f *fakeFetcher) detailIDs() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.details...)
}

// suggestOnly is a Searcher that only knows how to spell.
type suggestOnly struct {
	names []string
}

func (s *suggestOnly) Search(string, int) ([]*search.Result, error) { return nil, nil }

func (s *suggestOnly) Suggest(string, int) ([]string, error) { return s.names, nil }

type startRecorder struct {
	mu   sync.Mutex
	name string
	args []string
}

func (r *startRecorder) start(name string, args ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.name = name
	r.args = args
	return nil
}

type testOptions struct {
	clock    clock.Clock
	store    *storage.Store
	searcher *suggestOnly
	search   string
	cfg      *config.Config
	recorder *startRecorder
}

func newTestApp(t *testing.T, f *fakeFetcher, start string, opts testOptions) *App {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	cfg := opts.cfg
	if cfg == nil {
		cfg = config.TestConfig()
	}
	rec := opts.recorder
	if rec == nil {
		rec = &startRecorder{}
	}

	deps := Deps{
		Config:   cfg,
		Fetcher:  f,
		Store:    opts.store,
		Launcher: media.NewLauncher(cfg).WithStart(rec.start),
		Clock:    opts.clock,
		Search:   opts.search,
	}
	if opts.searcher != nil {
		deps.Searcher = opts.searcher
	}

	a := NewApp(deps, nav.Parse(start))
	t.Cleanup(func() { a.cancel() })
	return a
}

// runCmd executes cmd and flattens batches. Commands that block past the
// timeout (cursor blinks) are abandoned.
func runCmd(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	select {
	case msg := <-done:
		switch m := msg.(type) {
		case nil:
			return nil
		case tea.BatchMsg:
			var out []tea.Msg
			for _, c := range m {
				out = append(out, runCmd(t, c)...)
			}
			return out
		default:
			return []tea.Msg{msg}
		}
	case <-time.After(2 * time.Second):
		return nil
	}
}

// pump feeds the output of cmd back into the app until it settles.
func pump(t *testing.T, a *App, cmd tea.Cmd) {
	t.Helper()
	queue := runCmd(t, cmd)
	for i := 0; len(queue) > 0; i++ {
		if i > 100 {
			t.Fatal("message loop did not settle")
		}
		msg := queue[0]
		queue = queue[1:]
		_, next := a.Update(msg)
		queue = append(queue, runCmd(t, next)...)
	}
}

func press(a *App, msg tea.KeyMsg) tea.Cmd {
	_, cmd := a.Update(msg)
	return cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func resize(t *testing.T, a *App) {
	t.Helper()
	_, cmd := a.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	pump(t, a, cmd)
}

var errUpstream = errors.New("upstream unavailable")
