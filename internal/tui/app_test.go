package tui

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/dex/internal/config"
	"github.com/pders01/dex/internal/detailview"
	"github.com/pders01/dex/internal/listview"
	"github.com/pders01/dex/internal/pokeapi"
	"github.com/pders01/dex/internal/storage"
)

func TestApp_BulbasaurScenario(t *testing.T) {
	f := newFakeFetcher()
	a := newTestApp(t, f, "/list", testOptions{})
	resize(t, a)
	pump(t, a, a.Init())

	require.Len(t, f.listQueries(), 1)
	assert.Equal(t, pokeapi.ListQuery{Pattern: ".*", Limit: 20, Offset: 0}, f.listQueries()[0])

	view := a.View()
	assert.Contains(t, view, "Page 1 of 8")
	assert.Contains(t, view, "#001")
	assert.Contains(t, view, "Bulbasaur")

	cmd := press(a, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "/pokemon/1?page=0", a.Route().String())
	pump(t, a, cmd)

	assert.Equal(t, []int{1}, f.detailIDs())
	assert.Equal(t, detailview.Loaded, a.detail.Phase())
	assert.Len(t, f.listQueries(), 1, "the list behind the overlay is not refetched")
	assert.Contains(t, a.View(), "Bulbasaur")

	pump(t, a, press(a, tea.KeyMsg{Type: tea.KeyEsc}))
	assert.Equal(t, "/list?page=0", a.Route().String())
	assert.Equal(t, detailview.Hidden, a.detail.Phase())
	assert.Contains(t, a.View(), "Page 1 of 8")
}

func TestApp_DebouncedSearch(t *testing.T) {
	mock := clock.NewMock()
	f := newFakeFetcher()
	a := newTestApp(t, f, "/list?page=0", testOptions{clock: mock})

	var sent []tea.Msg
	a.SetSender(func(msg tea.Msg) { sent = append(sent, msg) })

	resize(t, a)
	pump(t, a, a.Init())
	press(a, runes("/"))
	require.Equal(t, focusSearch, a.focus)

	for _, r := range "Pika" {
		press(a, runes(string(r)))
		mock.Add(100 * time.Millisecond)
	}
	assert.Equal(t, "Pika", a.list.SearchText())
	assert.Empty(t, sent, "nothing settles while typing")

	mock.Add(199 * time.Millisecond)
	assert.Empty(t, sent)

	mock.Add(1 * time.Millisecond)
	require.Len(t, sent, 1)
	assert.Equal(t, searchSettledMsg{term: "Pika"}, sent[0])

	_, cmd := a.Update(sent[0])
	pump(t, a, cmd)

	queries := f.listQueries()
	require.Len(t, queries, 2, "intermediate terms never reach the API")
	assert.Equal(t, pokeapi.ListQuery{Pattern: ".*Pika.*", Limit: 20, Offset: 0}, queries[1])
	assert.Equal(t, "Pika", a.list.Settled())
	assert.Contains(t, a.View(), "Pikachu")
	assert.Contains(t, a.View(), "1 result")
}

func TestApp_SettledSearchResetsPage(t *testing.T) {
	f := newFakeFetcher()
	a := newTestApp(t, f, "/list?page=3", testOptions{})
	pump(t, a, a.Init())
	require.Equal(t, 60, f.listQueries()[0].Offset)

	_, cmd := a.Update(searchSettledMsg{term: "char"})
	pump(t, a, cmd)

	assert.Equal(t, "/list?page=0", a.Route().String())
	last := f.listQueries()[len(f.listQueries())-1]
	assert.Equal(t, 0, last.Offset)

	p, ok := a.list.Render().(listview.Populated)
	require.True(t, ok)
	require.Len(t, p.Items, 2)
	assert.Equal(t, "Charmander", p.Items[0].Name)
}

func TestApp_PageBeyondTotalIsClamped(t *testing.T) {
	f := newFakeFetcher()
	a := newTestApp(t, f, "/list?page=40", testOptions{})
	pump(t, a, a.Init())

	assert.Equal(t, "/list?page=7", a.Route().String())
	queries := f.listQueries()
	require.Len(t, queries, 2)
	assert.Equal(t, 140, queries[1].Offset)
	assert.Equal(t, "Page 8 of 8", a.list.Pagination().Indicator())
}

func TestApp_StaleListResultIsDropped(t *testing.T) {
	f := newFakeFetcher()
	a := newTestApp(t, f, "/list", testOptions{})

	initial := a.Init()
	_, cmd := a.Update(searchSettledMsg{term: "pika"})
	pump(t, a, cmd)

	// The first page arrives after the search results.
	pump(t, a, initial)

	p, ok := a.list.Render().(listview.Populated)
	require.True(t, ok)
	require.Len(t, p.Items, 1)
	assert.Equal(t, "Pikachu", p.Items[0].Name)
}

func TestApp_InvalidDetailIDIssuesNoRequest(t *testing.T) {
	f := newFakeFetcher()
	a := newTestApp(t, f, "/pokemon/abc?page=2", testOptions{})
	resize(t, a)
	pump(t, a, a.Init())

	assert.Empty(t, f.detailIDs())
	assert.Equal(t, detailview.Empty, a.detail.Phase())
	assert.Contains(t, a.View(), detailview.EmptyText)

	pump(t, a, press(a, tea.KeyMsg{Type: tea.KeyEsc}))
	assert.Equal(t, "/list?page=2", a.Route().String())
}

func TestApp_DetailFailure(t *testing.T) {
	f := newFakeFetcher()
	f.detailErr = errUpstream
	a := newTestApp(t, f, "/pokemon/25?page=1", testOptions{})
	resize(t, a)
	pump(t, a, a.Init())

	assert.Equal(t, detailview.Failed, a.detail.Phase())
	assert.Equal(t, StatusError, a.statusKind)
	assert.Contains(t, a.View(), "Error: loading details: upstream unavailable")
}

func TestApp_PageJump(t *testing.T) {
	f := newFakeFetcher()
	a := newTestApp(t, f, "/list", testOptions{})
	resize(t, a)
	pump(t, a, a.Init())

	press(a, runes("g"))
	require.Equal(t, focusPage, a.focus)
	press(a, runes("9"))
	pump(t, a, press(a, tea.KeyMsg{Type: tea.KeyEnter}))

	assert.Equal(t, "Enter a page between 1 and 8", a.list.PageInputErr())
	assert.Equal(t, 0, a.list.Page())
	assert.Equal(t, "1", a.pageInput.Value())
	assert.Contains(t, a.View(), "Enter a page between 1 and 8")

	press(a, runes("g"))
	press(a, runes("3"))
	pump(t, a, press(a, tea.KeyMsg{Type: tea.KeyEnter}))

	assert.Empty(t, a.list.PageInputErr())
	assert.Equal(t, "/list?page=2", a.Route().String())
	last := f.listQueries()[len(f.listQueries())-1]
	assert.Equal(t, 40, last.Offset)
}

func TestApp_PageJumpEscCancels(t *testing.T) {
	f := newFakeFetcher()
	a := newTestApp(t, f, "/list?page=1", testOptions{})
	resize(t, a)
	pump(t, a, a.Init())

	press(a, runes("g"))
	assert.Equal(t, "2", a.pageInput.Value(), "the input starts at the current page")

	pump(t, a, press(a, tea.KeyMsg{Type: tea.KeyEsc}))
	assert.Equal(t, focusList, a.focus)
	assert.Empty(t, a.list.PageInputErr())
	assert.NotContains(t, a.View(), "Enter a page between")

	press(a, runes("g"))
	press(a, runes("5"))
	assert.Equal(t, "5", a.pageInput.Value(), "typing replaces the prefilled page")
	pump(t, a, press(a, tea.KeyMsg{Type: tea.KeyEsc}))

	assert.Equal(t, 1, a.list.Page())
	assert.Equal(t, "2", a.pageInput.Value())
	assert.Len(t, f.listQueries(), 1, "a cancelled jump fetches nothing")
}

func TestApp_NextAndPrevPage(t *testing.T) {
	f := newFakeFetcher()
	a := newTestApp(t, f, "/list", testOptions{})
	pump(t, a, a.Init())

	pump(t, a, press(a, tea.KeyMsg{Type: tea.KeyLeft}))
	assert.Len(t, f.listQueries(), 1, "no previous page on the first page")

	pump(t, a, press(a, tea.KeyMsg{Type: tea.KeyRight}))
	assert.Equal(t, "/list?page=1", a.Route().String())
	assert.Equal(t, 20, f.listQueries()[1].Offset)

	pump(t, a, press(a, tea.KeyMsg{Type: tea.KeyLeft}))
	assert.Equal(t, "/list?page=0", a.Route().String())
	assert.Len(t, f.listQueries(), 3)
}

func TestApp_CursorSelectsRow(t *testing.T) {
	f := newFakeFetcher()
	a := newTestApp(t, f, "/list?page=1", testOptions{})
	pump(t, a, a.Init())

	for range 4 {
		press(a, tea.KeyMsg{Type: tea.KeyDown})
	}
	press(a, tea.KeyMsg{Type: tea.KeyUp})
	pump(t, a, press(a, tea.KeyMsg{Type: tea.KeyEnter}))

	assert.Equal(t, "/pokemon/24?page=1", a.Route().String())
	assert.Equal(t, []int{24}, f.detailIDs())
}

func TestApp_NoMatchesSuggestsNames(t *testing.T) {
	f := newFakeFetcher()
	a := newTestApp(t, f, "/list", testOptions{searcher: &suggestOnly{names: []string{"Pikachu"}}})
	resize(t, a)
	pump(t, a, a.Init())

	_, cmd := a.Update(searchSettledMsg{term: "pikachoo"})
	pump(t, a, cmd)

	_, ok := a.list.Render().(listview.NoMatches)
	require.True(t, ok)
	view := a.View()
	assert.Contains(t, view, listview.NoMatchesText)
	assert.Contains(t, view, "Did you mean: Pikachu?")
}

func TestApp_OpenArtwork(t *testing.T) {
	f := newFakeFetcher()
	rec := &startRecorder{}
	a := newTestApp(t, f, "/pokemon/25", testOptions{recorder: rec})
	pump(t, a, a.Init())
	require.Equal(t, detailview.Loaded, a.detail.Phase())

	pump(t, a, press(a, tea.KeyMsg{Type: tea.KeyCtrlO}))

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Contains(t, rec.args, pikachuSprite)
	assert.Equal(t, StatusSuccess, a.statusKind)
}

func TestApp_OpenArtworkWithoutSprite(t *testing.T) {
	f := newFakeFetcher()
	rec := &startRecorder{}
	a := newTestApp(t, f, "/pokemon/1", testOptions{recorder: rec})
	pump(t, a, a.Init())

	cmd := press(a, tea.KeyMsg{Type: tea.KeyCtrlO})
	assert.Nil(t, cmd)
	assert.Equal(t, MsgNoArtwork, a.status)
	assert.Empty(t, rec.name)
}

func TestApp_HomeAndNotFound(t *testing.T) {
	f := newFakeFetcher()
	a := newTestApp(t, f, "/", testOptions{})
	resize(t, a)
	pump(t, a, a.Init())
	assert.Empty(t, f.listQueries(), "home needs no data")

	pump(t, a, press(a, tea.KeyMsg{Type: tea.KeyEnter}))
	assert.Equal(t, "/list?page=0", a.Route().String())
	assert.Len(t, f.listQueries(), 1)

	pump(t, a, press(a, runes("h")))
	assert.Equal(t, "/", a.Route().String())

	b := newTestApp(t, f, "/nowhere", testOptions{})
	resize(t, b)
	assert.Contains(t, b.View(), "Nothing lives at /nowhere")
	pump(t, b, press(b, tea.KeyMsg{Type: tea.KeyEnter}))
	assert.Equal(t, "/", b.Route().String())
}

func TestApp_QuitSavesSession(t *testing.T) {
	store, err := storage.NewStore(filepath.Join(t.TempDir(), "dex.db"), time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg := config.TestConfig()
	cfg.UI.RestoreSession = true

	f := newFakeFetcher()
	a := newTestApp(t, f, "/pokemon/25?page=1", testOptions{store: store, cfg: cfg})
	pump(t, a, a.Init())

	cmd := press(a, runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	sess, err := store.LoadSession()
	require.NoError(t, err)
	assert.Equal(t, "/pokemon/25?page=1", sess.Route)
	assert.False(t, sess.SavedAt.IsZero())
}

func TestNewApp_RestoredSearchKeepsPage(t *testing.T) {
	f := newFakeFetcher()
	a := newTestApp(t, f, "/list?page=2", testOptions{search: "mon"})

	assert.Equal(t, "mon", a.list.Settled())
	assert.Equal(t, "mon", a.searchInput.Value())
	assert.Equal(t, "/list?page=2", a.Route().String())

	pump(t, a, a.Init())
	q := f.listQueries()[0]
	assert.Equal(t, ".*mon.*", q.Pattern)
	assert.Equal(t, 40, q.Offset)
}
