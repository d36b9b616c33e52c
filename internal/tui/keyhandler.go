package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/dex/internal/config"
	"github.com/pders01/dex/internal/detailview"
	"github.com/pders01/dex/internal/nav"
)

type KeyHandler struct {
	app         *App
	bindings    config.KeyBindings
	modifierKey string
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	return &KeyHandler{
		app:         app,
		bindings:    cfg.Keys.Bindings,
		modifierKey: cfg.Keys.Modifier + "+",
	}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return kh.app, kh.app.quit()
	}

	switch kh.app.view() {
	case ViewList:
		switch kh.app.focus {
		case focusSearch:
			return kh.handleSearchInput(msg)
		case focusPage:
			return kh.handlePageInput(msg)
		}
		return kh.handleListKeys(key)
	case ViewDetail:
		return kh.handleDetailKeys(msg)
	case ViewHome:
		return kh.handleHomeKeys(msg)
	default:
		return kh.handleNotFoundKeys(key)
	}
}

func (kh *KeyHandler) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app
	switch msg.String() {
	case "enter", "esc", "tab":
		a.blurInputs()
		return a, nil
	}

	prev := a.searchInput.Value()
	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	if v := a.searchInput.Value(); v != prev {
		a.list.SetSearchText(v)
		a.debouncer.Push(v)
	}
	return a, cmd
}

func (kh *KeyHandler) handlePageInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app
	switch msg.String() {
	case "enter", "tab":
		return a, a.submitPageInput()
	case "esc":
		a.cancelPageInput()
		return a, nil
	}

	if a.pageInputFresh && msg.Type == tea.KeyRunes {
		a.pageInput.SetValue("")
	}
	a.pageInputFresh = false

	var cmd tea.Cmd
	a.pageInput, cmd = a.pageInput.Update(msg)
	a.list.SetPageInput(a.pageInput.Value())
	return a, cmd
}

func (kh *KeyHandler) handleListKeys(key string) (tea.Model, tea.Cmd) {
	a := kh.app
	b := kh.bindings

	switch key {
	case b.Quit:
		return a, a.quit()
	case b.Search:
		return a, a.focusSearchInput()
	case b.JumpPage:
		return a, a.focusPageInput()
	case b.NextPage:
		if a.list.NextPage() {
			a.cursor = 0
			return a, a.syncRoute()
		}
		return a, nil
	case b.PrevPage:
		if a.list.PrevPage() {
			a.cursor = 0
			return a, a.syncRoute()
		}
		return a, nil
	case b.Home:
		a.nav.Navigate(nav.Home())
		return a, a.syncRoute()
	case b.Back:
		if a.nav.Back() {
			return a, a.syncRoute()
		}
		return a, nil
	case b.Forward:
		if a.nav.Forward() {
			return a, a.syncRoute()
		}
		return a, nil
	case kh.modifierKey + "r":
		a.setStatus(MsgReloading, StatusInfo)
		return a, a.reloadList()
	case "up", "k":
		a.moveCursor(-1)
		return a, nil
	case "down", "j":
		a.moveCursor(1)
		return a, nil
	case "enter":
		if item, ok := a.selectedItem(); ok {
			a.list.Select(item.ID)
			return a, a.syncRoute()
		}
		return a, nil
	}
	return a, nil
}

func (kh *KeyHandler) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app
	b := kh.bindings

	switch msg.String() {
	case b.Quit:
		return a, a.quit()
	case b.Back:
		a.detail.Dismiss()
		return a, a.syncRoute()
	case kh.modifierKey + b.OpenArtwork:
		card, ok := a.detail.Card()
		if !ok || card.Sprite == "" {
			a.setStatus(MsgNoArtwork, StatusWarn)
			return a, nil
		}
		return a, a.openArtwork(card.Sprite)
	}

	if a.detail.Phase() == detailview.Loaded {
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (kh *KeyHandler) handleHomeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app
	b := kh.bindings

	switch msg.String() {
	case b.Quit:
		return a, a.quit()
	case "enter", "l":
		a.nav.Navigate(nav.List(0))
		return a, a.syncRoute()
	case b.Search:
		a.nav.Navigate(nav.List(0))
		return a, tea.Batch(a.syncRoute(), a.focusSearchInput())
	case b.Back:
		if a.nav.Back() {
			return a, a.syncRoute()
		}
		return a, nil
	case b.Forward:
		if a.nav.Forward() {
			return a, a.syncRoute()
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.homeView, cmd = a.homeView.Update(msg)
	return a, cmd
}

func (kh *KeyHandler) handleNotFoundKeys(key string) (tea.Model, tea.Cmd) {
	a := kh.app
	switch key {
	case kh.bindings.Quit:
		return a, a.quit()
	case kh.bindings.Back, kh.bindings.Home, "enter":
		a.nav.Navigate(nav.Home())
		return a, a.syncRoute()
	}
	return a, nil
}

// GetHelpForCurrentView lists the keys that do something right now.
func (kh *KeyHandler) GetHelpForCurrentView() []string {
	a := kh.app
	b := kh.bindings

	switch a.view() {
	case ViewHome:
		return []string{"enter: browse", b.Search + ": search", b.Back + "/" + b.Forward + ": history", b.Quit + ": quit"}
	case ViewList:
		switch a.focus {
		case focusSearch:
			return []string{MsgSearchFocused}
		case focusPage:
			return []string{MsgPageJumpPrompt}
		}
		return []string{
			"↑↓: select",
			"enter: details",
			b.PrevPage + "/" + b.NextPage + ": page",
			b.JumpPage + ": jump",
			b.Search + ": search",
			b.Back + "/" + b.Forward + ": history",
			kh.modifierKey + "r: reload",
			b.Quit + ": quit",
		}
	case ViewDetail:
		return []string{
			b.Back + ": close",
			kh.modifierKey + b.OpenArtwork + ": artwork",
			"↑↓: scroll",
			b.Quit + ": quit",
		}
	default:
		return []string{"enter: home", b.Quit + ": quit"}
	}
}
