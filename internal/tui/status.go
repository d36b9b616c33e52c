package tui

import (
	"fmt"
	"strings"
)

// Canonical short status messages used across the app.
const (
	MsgReloading      = "Reloading…"
	MsgLoadingDetail  = "Loading details…"
	MsgNoArtwork      = "No artwork for this entry"
	MsgSearchFocused  = "Type to search • Enter/Esc: done"
	MsgPageJumpPrompt = "Page number • Enter: jump • Esc: cancel"
)

func MsgOpenedArtwork(viewer string) string {
	return fmt.Sprintf("Opened artwork in %s", viewer)
}

func MsgResultsCount(n int) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}

// MsgDidYouMean lists spelling suggestions for a search with no matches.
func MsgDidYouMean(suggestions []string) string {
	if len(suggestions) == 0 {
		return ""
	}
	return "Did you mean: " + strings.Join(suggestions, ", ") + "?"
}
