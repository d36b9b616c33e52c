package tui

import "github.com/pders01/dex/internal/nav"

type View int

const (
	ViewHome View = iota
	ViewList
	ViewDetail
	ViewNotFound
)

func viewFor(s nav.Screen) View {
	switch s {
	case nav.ScreenHome:
		return ViewHome
	case nav.ScreenList:
		return ViewList
	case nav.ScreenDetail:
		return ViewDetail
	default:
		return ViewNotFound
	}
}

// focus is the widget that receives keystrokes on the list screen.
type focus int

const (
	focusList focus = iota
	focusSearch
	focusPage
)
