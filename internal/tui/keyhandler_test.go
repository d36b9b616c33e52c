package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/pders01/dex/internal/config"
)

func TestKeyHandler_ModifierKey(t *testing.T) {
	a := newTestApp(t, newFakeFetcher(), "/", testOptions{})

	assert.NotNil(t, a.keyHandler)
	assert.Equal(t, "ctrl+", a.keyHandler.modifierKey)
}

func TestKeyHandler_CustomBindings(t *testing.T) {
	cfg := config.TestConfig()
	cfg.Keys.Bindings.NextPage = "n"
	cfg.Keys.Bindings.PrevPage = "p"

	f := newFakeFetcher()
	a := newTestApp(t, f, "/list", testOptions{cfg: cfg})
	pump(t, a, a.Init())

	pump(t, a, press(a, tea.KeyMsg{Type: tea.KeyRight}))
	assert.Equal(t, 0, a.list.Page(), "default binding no longer pages")

	pump(t, a, press(a, runes("n")))
	assert.Equal(t, 1, a.list.Page())

	pump(t, a, press(a, runes("p")))
	assert.Equal(t, 0, a.list.Page())
}

func TestKeyHandler_SearchInputSwallowsBindings(t *testing.T) {
	f := newFakeFetcher()
	a := newTestApp(t, f, "/list", testOptions{})
	pump(t, a, a.Init())

	press(a, runes("/"))
	cmd := press(a, runes("q"))

	assert.Equal(t, "q", a.list.SearchText())
	assert.Equal(t, "/list", a.Route().String())
	if cmd != nil {
		_, quit := cmd().(tea.QuitMsg)
		assert.False(t, quit)
	}

	press(a, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, focusList, a.focus)
}

func TestKeyHandler_HelpPerView(t *testing.T) {
	f := newFakeFetcher()

	home := newTestApp(t, f, "/", testOptions{})
	assert.Contains(t, home.keyHandler.GetHelpForCurrentView(), "enter: browse")

	list := newTestApp(t, f, "/list", testOptions{})
	assert.Contains(t, list.keyHandler.GetHelpForCurrentView(), "g: jump")
	assert.Contains(t, list.keyHandler.GetHelpForCurrentView(), "ctrl+r: reload")

	list.focus = focusPage
	assert.Equal(t, []string{MsgPageJumpPrompt}, list.keyHandler.GetHelpForCurrentView())

	detail := newTestApp(t, f, "/pokemon/1", testOptions{})
	assert.Contains(t, detail.keyHandler.GetHelpForCurrentView(), "ctrl+o: artwork")

	missing := newTestApp(t, f, "/nowhere", testOptions{})
	assert.Contains(t, missing.keyHandler.GetHelpForCurrentView(), "enter: home")
}

func TestKeyHandler_CtrlCQuitsEverywhere(t *testing.T) {
	f := newFakeFetcher()
	a := newTestApp(t, f, "/list", testOptions{})
	press(a, runes("/"))

	cmd := press(a, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestKeyHandler_Reload(t *testing.T) {
	f := newFakeFetcher()
	a := newTestApp(t, f, "/list", testOptions{})
	pump(t, a, a.Init())

	cmd := press(a, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Equal(t, MsgReloading, a.status)
	pump(t, a, cmd)

	assert.Len(t, f.listQueries(), 2, "reload refetches the same page")
	assert.Empty(t, a.status)
}

func TestKeyHandler_BackAndForward(t *testing.T) {
	f := newFakeFetcher()
	a := newTestApp(t, f, "/list", testOptions{})
	pump(t, a, a.Init())

	pump(t, a, press(a, runes("h")))
	assert.Equal(t, ViewHome, a.view())

	pump(t, a, press(a, tea.KeyMsg{Type: tea.KeyEsc}))
	assert.Equal(t, ViewList, a.view())

	pump(t, a, press(a, runes("f")))
	assert.Equal(t, ViewHome, a.view(), "forward replays the undone navigation")

	assert.Nil(t, press(a, runes("f")), "nothing further ahead")
	assert.Equal(t, ViewHome, a.view())
}
