package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/dex/internal/config"
	"github.com/pders01/dex/internal/debounce"
	"github.com/pders01/dex/internal/debuglog"
	"github.com/pders01/dex/internal/detailview"
	"github.com/pders01/dex/internal/listview"
	"github.com/pders01/dex/internal/media"
	"github.com/pders01/dex/internal/nav"
	"github.com/pders01/dex/internal/pokeapi"
	"github.com/pders01/dex/internal/query"
	"github.com/pders01/dex/internal/search"
	"github.com/pders01/dex/internal/storage"
)

// Deps are the collaborators of the App. Only Config and Fetcher are
// required.
type Deps struct {
	Config   *config.Config
	Fetcher  pokeapi.Fetcher
	Store    *storage.Store
	Searcher search.Searcher
	Launcher *media.Launcher
	Clock    clock.Clock

	// Search is a settled search term to start with, e.g. from a saved
	// session.
	Search string
}

type App struct {
	config     *config.Config
	fetcher    pokeapi.Fetcher
	store      *storage.Store
	searcher   search.Searcher
	launcher   *media.Launcher
	keyHandler *KeyHandler

	nav           *nav.Navigator
	list          *listview.Controller
	detail        *detailview.Controller
	listTracker   query.Tracker
	detailTracker query.Tracker
	lastRoute     string

	debouncer *debounce.Debouncer[string]
	send      func(tea.Msg)

	ctx    context.Context
	cancel context.CancelFunc

	searchInput textinput.Model
	pageInput   textinput.Model
	viewport    viewport.Model
	homeView    viewport.Model
	focus       focus
	cursor      int
	suggestions []string

	// pageInputFresh is set while the page input still shows the prefilled
	// page; the first typed character replaces it.
	pageInputFresh bool

	detailContentID string
	homeRendered    bool

	status     string
	statusKind StatusKind

	width           int
	height          int
	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
	renderMu        sync.Mutex
}

func NewApp(deps Deps, start nav.Route) *App {
	cfg := deps.Config
	ApplyColors(cfg.UI.Colors)

	si := textinput.New()
	si.Placeholder = "Search Pokémon..."
	si.Prompt = "› "

	pi := textinput.New()
	pi.Prompt = "page "
	pi.CharLimit = 6
	pi.Width = 6

	ctx, cancel := context.WithCancel(context.Background())

	launcher := deps.Launcher
	if launcher == nil {
		launcher = media.NewLauncher(cfg)
	}

	n := nav.New(start)
	a := &App{
		config:      cfg,
		fetcher:     deps.Fetcher,
		store:       deps.Store,
		searcher:    deps.Searcher,
		launcher:    launcher,
		nav:         n,
		list:        listview.New(n, cfg.UI.PageSize),
		detail:      detailview.New(n),
		ctx:         ctx,
		cancel:      cancel,
		searchInput: si,
		pageInput:   pi,
		viewport:    viewport.New(0, 0),
		homeView:    viewport.New(0, 0),
	}
	a.keyHandler = NewKeyHandler(a, cfg)
	a.debouncer = debounce.New(deps.Clock, cfg.UI.SearchDebounce, func(term string) {
		a.dispatch(searchSettledMsg{term: term})
	})

	if term := strings.TrimSpace(deps.Search); term != "" {
		// Settling resets the page; a restored route keeps its own.
		page := n.Page()
		a.searchInput.SetValue(term)
		a.list.SetSearchText(term)
		a.list.Settle(term)
		n.SetPage(page)
	}
	a.list.SyncFromRoute()
	a.pageInput.SetValue(a.list.PageInput())
	a.lastRoute = n.Current().String()

	return a
}

// SetSender connects the App to the running program so timer callbacks can
// deliver messages. Pass tea.Program.Send.
func (a *App) SetSender(send func(tea.Msg)) {
	a.send = send
}

func (a *App) dispatch(msg tea.Msg) {
	if a.send == nil {
		debuglog.Debugf("dropping %T: no program attached", msg)
		return
	}
	a.send(msg)
}

// Route reports the current location, e.g. for printing on exit.
func (a *App) Route() nav.Route {
	return a.nav.Current()
}

func (a *App) view() View {
	return viewFor(a.nav.Current().Screen)
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	wordWrapWidth := min((a.width*9)/10, 100)
	wordWrapWidth = max(wordWrapWidth, 40)
	if a.width > 0 && a.width < 50 {
		wordWrapWidth = max(a.width-4, 20)
	}

	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
	}
	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.syncRoute(), a.renderHome())
}

// syncRoute brings both controllers in line with the current route and
// returns the fetches that the new location needs.
func (a *App) syncRoute() tea.Cmd {
	var cmds []tea.Cmd

	r := a.nav.Current()
	if s := r.String(); s != a.lastRoute {
		a.lastRoute = s
		a.list.SyncFromRoute()
		a.pageInput.SetValue(a.list.PageInput())
		a.clearStatus()
	}

	if r.Screen == nav.ScreenList || r.Screen == nav.ScreenDetail {
		cmds = append(cmds, a.loadList())
	} else {
		a.blurInputs()
	}

	if id, fetch := a.detail.Sync(); fetch {
		a.setStatus(MsgLoadingDetail, StatusInfo)
		cmds = append(cmds, a.loadDetail(id))
	}

	return tea.Batch(cmds...)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.searchInput.Width = max(msg.Width-12, 10)
		a.homeView.Width = msg.Width
		a.homeView.Height = max(msg.Height-4, 3)
		a.viewport.Width = a.overlayWidth() - 4
		a.viewport.Height = max(msg.Height-10, 3)

		cmds = append(cmds, a.renderHome())
		if card, ok := a.detail.Card(); ok {
			cmds = append(cmds, a.renderDetail(card))
		}

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case searchSettledMsg:
		if a.list.Settle(msg.term) {
			a.cursor = 0
			a.suggestions = nil
			cmds = append(cmds, a.syncRoute())
		}

	case listLoadedMsg:
		if !a.listTracker.Current(msg.ticket) {
			debuglog.Debugf("dropping stale list result seq=%d", msg.ticket.Seq)
			break
		}
		logLoadError(msg.err)
		if a.list.Resolve(msg.result, msg.err) {
			cmds = append(cmds, a.loadList())
		}
		if a.status == MsgReloading {
			a.clearStatus()
		}
		a.clampCursor()
		if _, ok := a.list.Render().(listview.NoMatches); ok {
			cmds = append(cmds, a.suggest(a.list.Settled()))
		}

	case detailLoadedMsg:
		if !a.detailTracker.Current(msg.ticket) || msg.ticket.Key != a.detail.RawID() {
			debuglog.Debugf("dropping stale detail result seq=%d", msg.ticket.Seq)
			break
		}
		a.detail.Resolve(msg.detail, msg.err)
		if msg.err != nil {
			logLoadError(msg.err)
			a.setStatus(msg.err.Error(), StatusError)
			break
		}
		a.clearStatus()
		if card, ok := a.detail.Card(); ok {
			cmds = append(cmds, a.renderDetail(card))
		}

	case detailRenderedMsg:
		if msg.id == a.detail.RawID() {
			a.viewport.SetContent(msg.content)
			a.viewport.GotoTop()
			a.detailContentID = msg.id
		}

	case homeRenderedMsg:
		a.homeView.SetContent(msg.content)
		a.homeRendered = true

	case suggestionsMsg:
		if msg.term == a.list.Settled() {
			a.suggestions = msg.names
		}

	case artworkOpenedMsg:
		if msg.err != nil {
			debuglog.Warnf("opening artwork: %v", msg.err)
			a.setStatus(msg.err.Error(), StatusError)
		} else {
			a.setStatus(MsgOpenedArtwork(msg.viewer), StatusSuccess)
		}
	}

	return a, tea.Batch(cmds...)
}

func (a *App) quit() tea.Cmd {
	a.debouncer.Stop()
	a.saveSession()
	a.cancel()
	return tea.Quit
}

func (a *App) setStatus(text string, kind StatusKind) {
	a.status = text
	a.statusKind = kind
}

func (a *App) clearStatus() {
	a.status = ""
	a.statusKind = StatusInfo
}

func (a *App) focusSearchInput() tea.Cmd {
	a.focus = focusSearch
	a.pageInput.Blur()
	return a.searchInput.Focus()
}

func (a *App) focusPageInput() tea.Cmd {
	a.focus = focusPage
	a.searchInput.Blur()
	a.pageInput.SetValue(a.list.PageInput())
	a.pageInput.CursorEnd()
	a.pageInputFresh = true
	return a.pageInput.Focus()
}

func (a *App) cancelPageInput() {
	a.list.CancelPageInput()
	a.pageInput.SetValue(a.list.PageInput())
	a.blurInputs()
}

func (a *App) blurInputs() {
	a.focus = focusList
	a.searchInput.Blur()
	a.pageInput.Blur()
}

func (a *App) submitPageInput() tea.Cmd {
	a.list.SetPageInput(a.pageInput.Value())
	changed := a.list.SubmitPageInput()
	a.pageInput.SetValue(a.list.PageInput())
	a.blurInputs()
	if !changed {
		return nil
	}
	a.cursor = 0
	return a.syncRoute()
}

func (a *App) items() []pokeapi.ListItem {
	if p, ok := a.list.Render().(listview.Populated); ok {
		return p.Items
	}
	return nil
}

func (a *App) selectedItem() (pokeapi.ListItem, bool) {
	items := a.items()
	if a.cursor < 0 || a.cursor >= len(items) {
		return pokeapi.ListItem{}, false
	}
	return items[a.cursor], true
}

func (a *App) moveCursor(delta int) {
	a.cursor += delta
	a.clampCursor()
}

func (a *App) clampCursor() {
	n := len(a.items())
	a.cursor = max(min(a.cursor, n-1), 0)
}

func (a *App) overlayWidth() int {
	return max(min(a.width-4, 72), 30)
}

func (a *App) View() string {
	bodyHeight := max(a.height-3, 1)

	var content string
	switch a.view() {
	case ViewHome:
		if a.homeRendered {
			content = a.homeView.View()
		} else {
			content = renderCentered(a.width, bodyHeight, GetWelcomeMessage())
		}
	case ViewList:
		content = a.listView(bodyHeight)
	case ViewDetail:
		content = lipgloss.Place(a.width, bodyHeight, lipgloss.Center, lipgloss.Center, a.detailView())
	default:
		content = renderCentered(a.width, bodyHeight, lipgloss.JoinVertical(
			lipgloss.Center,
			renderError("Nothing lives at "+a.nav.Current().String()),
			"",
			renderHelp("Press enter to go home"),
		))
	}

	content = lipgloss.NewStyle().MaxHeight(bodyHeight).Render(content)
	separator := SeparatorStyle.Render(strings.Repeat("─", max(a.width, 1)))
	return lipgloss.JoinVertical(lipgloss.Top, content, separator, a.statusBar())
}

func (a *App) listView(height int) string {
	width := max(a.width, 20)
	input := renderInputFrame(a.searchInput.View(), a.focus == focusSearch, a.searchInput.Width)
	subtitle := a.nav.Current().String()
	if st := a.list.State(); a.list.Settled() != "" && !st.Loading && st.Data != nil {
		subtitle += " • " + MsgResultsCount(st.Data.TotalCount)
	}
	header := renderHeader(CompactLogo+" catalog", subtitle, width)

	var body string
	switch st := a.list.Render().(type) {
	case listview.Populated:
		body = a.renderRows(st.Items, max(height-9, 3))
	case listview.Failed:
		body = renderError(st.Text())
	case listview.NoMatches:
		body = renderMuted(st.Text())
		if hint := MsgDidYouMean(a.suggestions); hint != "" {
			body = lipgloss.JoinVertical(lipgloss.Left, body, renderHelp(hint))
		}
	default:
		body = renderMuted(st.Text())
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, input, "", body, "", a.paginationView())
}

func (a *App) renderRows(items []pokeapi.ListItem, visible int) string {
	start := 0
	if a.cursor >= visible {
		start = a.cursor - visible + 1
	}
	end := min(start+visible, len(items))

	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		item := items[i]
		tags := make([]string, len(item.Types))
		for j, t := range item.Types {
			tags[j] = TypeTag(t)
		}
		name := padRight(truncateEnd(item.Name, 18), 18)
		line := fmt.Sprintf("%s %s %s",
			NumberStyle.Render(detailview.FormatNumber(item.ID)),
			name,
			strings.Join(tags, " "))
		if i == a.cursor {
			line = SelectedItemStyle.Render("›") + " " + line
		} else {
			line = "  " + line
		}
		rows = append(rows, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (a *App) paginationView() string {
	p := a.list.Pagination()
	prev, next := renderMuted("‹"), renderMuted("›")
	if p.CanPrev {
		prev = HeaderStyle.Render("‹")
	}
	if p.CanNext {
		next = HeaderStyle.Render("›")
	}

	line := strings.Join([]string{prev, p.Indicator(), next}, " ")
	if a.focus == focusPage {
		frame := renderInputFrame(a.pageInput.View(), true, a.pageInput.Width+len(a.pageInput.Prompt))
		line = lipgloss.JoinHorizontal(lipgloss.Center, line, "  ", frame)
	}
	if errText := a.list.PageInputErr(); errText != "" {
		line = lipgloss.JoinVertical(lipgloss.Left, line, renderError(errText))
	}
	return line
}

func (a *App) detailView() string {
	width := a.overlayWidth()

	var body string
	switch a.detail.Phase() {
	case detailview.Loading:
		body = renderMuted(listview.LoadingText)
	case detailview.Failed:
		body = renderError("Error: " + a.detail.State().Err.Error())
	case detailview.Empty:
		body = renderMuted(detailview.EmptyText)
	case detailview.Loaded:
		if a.detailContentID == a.detail.RawID() {
			body = a.viewport.View()
		} else {
			body = renderMuted(listview.LoadingText)
		}
	}

	title := renderHeader(CompactLogo+" "+detailview.FormatNumber(a.detail.RawID()), "", width)
	return OverlayStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body))
}

func (a *App) statusBar() string {
	if a.status != "" {
		text := truncateMiddle(a.status, max(a.width-2, 10))
		return lipgloss.NewStyle().Width(a.width).Padding(0, 1).Render(a.statusKind.style()(text))
	}

	commands := a.keyHandler.GetHelpForCurrentView()
	if len(commands) == 0 {
		return ""
	}
	return lipgloss.NewStyle().
		Width(a.width).
		Padding(0, 1).
		Foreground(MutedColor).
		Render(strings.Join(commands, " • "))
}

type listLoadedMsg struct {
	ticket query.Ticket
	result *pokeapi.ListResult
	err    error
}

type detailLoadedMsg struct {
	ticket query.Ticket
	detail *pokeapi.Detail
	err    error
}

type detailRenderedMsg struct {
	id      string
	content string
}

type homeRenderedMsg struct {
	content string
}

type searchSettledMsg struct {
	term string
}

type suggestionsMsg struct {
	term  string
	names []string
}

type artworkOpenedMsg struct {
	viewer string
	err    error
}
