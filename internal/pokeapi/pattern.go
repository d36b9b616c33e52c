package pokeapi

import (
	"regexp"
	"strconv"
	"strings"
)

// MatchAll is the pattern sent when the search box is blank.
const MatchAll = ".*"

// SearchPattern turns free text into a substring pattern for the API's
// regex comparison. Metacharacters in the text are escaped so "3.5" matches
// literally. Case folding is done server side by the _iregex operator.
func SearchPattern(term string) string {
	term = strings.TrimSpace(term)
	if term == "" {
		return MatchAll
	}
	return ".*" + regexp.QuoteMeta(term) + ".*"
}

// ParseID accepts a base-10, non-negative integer id.
func ParseID(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return id, true
}
