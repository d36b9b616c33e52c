package tui

import (
	"context"
	_ "embed"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/pders01/dex/internal/debuglog"
	"github.com/pders01/dex/internal/detailview"
	"github.com/pders01/dex/internal/pokeapi"
	"github.com/pders01/dex/internal/query"
	"github.com/pders01/dex/internal/storage"
)

//go:embed home.md
var homeMarkdown string

// reloader is implemented by fetchers that can bypass their cache.
type reloader interface {
	ReloadList(ctx context.Context, q pokeapi.ListQuery) (*pokeapi.ListResult, error)
}

// loadList issues a list request unless the current parameters are already
// being served.
func (a *App) loadList() tea.Cmd {
	q := a.list.Query()
	ticket, issued := a.listTracker.Track(q.Key())
	if !issued {
		return nil
	}
	a.list.BeginLoad()
	return a.fetchList(ticket, q, false)
}

func (a *App) reloadList() tea.Cmd {
	q := a.list.Query()
	ticket := a.listTracker.Force(q.Key())
	a.list.BeginLoad()
	return a.fetchList(ticket, q, true)
}

func (a *App) fetchList(ticket query.Ticket, q pokeapi.ListQuery, reload bool) tea.Cmd {
	ctx := a.ctx
	fetcher := a.fetcher
	return func() tea.Msg {
		debuglog.WithFields(map[string]interface{}{
			"pattern": q.Pattern,
			"offset":  q.Offset,
			"seq":     ticket.Seq,
		}).Debugf("fetching list")

		var (
			res *pokeapi.ListResult
			err error
		)
		if r, ok := fetcher.(reloader); ok && reload {
			res, err = r.ReloadList(ctx, q)
		} else {
			res, err = fetcher.FetchList(ctx, q)
		}
		return listLoadedMsg{ticket: ticket, result: res, err: loadFailed("list", q.Pattern, err)}
	}
}

func (a *App) loadDetail(id int) tea.Cmd {
	ticket := a.detailTracker.Force(a.detail.RawID())
	ctx := a.ctx
	fetcher := a.fetcher
	return func() tea.Msg {
		debuglog.Debugf("fetching detail %d", id)
		d, err := fetcher.FetchDetail(ctx, id)
		return detailLoadedMsg{ticket: ticket, detail: d, err: loadFailed("details", ticket.Key, err)}
	}
}

func (a *App) renderDetail(card detailview.Card) tea.Cmd {
	r, err := a.getRenderer()
	return func() tea.Msg {
		if err != nil {
			return detailRenderedMsg{id: card.ID, content: card.Markdown()}
		}
		out, rerr := a.render(r, card.Markdown())
		if rerr != nil {
			debuglog.Warnf("rendering detail %s: %v", card.ID, rerr)
			return detailRenderedMsg{id: card.ID, content: card.Markdown()}
		}
		return detailRenderedMsg{id: card.ID, content: out}
	}
}

func (a *App) renderHome() tea.Cmd {
	r, err := a.getRenderer()
	return func() tea.Msg {
		if err != nil {
			return homeRenderedMsg{content: homeMarkdown}
		}
		out, rerr := a.render(r, homeMarkdown)
		if rerr != nil {
			return homeRenderedMsg{content: homeMarkdown}
		}
		return homeRenderedMsg{content: out}
	}
}

func (a *App) render(r *glamour.TermRenderer, md string) (string, error) {
	a.renderMu.Lock()
	defer a.renderMu.Unlock()
	return r.Render(md)
}

func (a *App) suggest(term string) tea.Cmd {
	if a.searcher == nil || term == "" {
		return nil
	}
	searcher := a.searcher
	return func() tea.Msg {
		names, err := searcher.Suggest(term, 3)
		if err != nil {
			debuglog.Warnf("suggestions for %q: %v", term, err)
			return nil
		}
		return suggestionsMsg{term: term, names: names}
	}
}

func (a *App) openArtwork(url string) tea.Cmd {
	launcher := a.launcher
	return func() tea.Msg {
		err := launcher.Open(url)
		return artworkOpenedMsg{viewer: launcher.Viewer(), err: err}
	}
}

// saveSession persists the route and search term so the next start can
// resume there.
func (a *App) saveSession() {
	if a.store == nil || !a.config.UI.RestoreSession {
		return
	}
	sess := storage.Session{
		Route:  a.nav.Current().String(),
		Search: a.list.Settled(),
	}
	if err := a.store.SaveSession(sess); err != nil {
		debuglog.Warnf("saving session: %v", err)
	}
}
