// Package nav models the program's location: which screen is showing, which
// record is selected and which list page is current.
package nav

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

type Screen int

const (
	ScreenHome Screen = iota
	ScreenList
	ScreenDetail
	ScreenNotFound
)

func (s Screen) String() string {
	switch s {
	case ScreenHome:
		return "home"
	case ScreenList:
		return "list"
	case ScreenDetail:
		return "detail"
	default:
		return "not-found"
	}
}

// Route is a parsed location such as /pokemon/25?page=1. ID is kept as
// written so an invalid id can still be shown and rejected downstream.
type Route struct {
	Screen  Screen
	ID      string
	Page    int
	HasPage bool
	raw     string
}

func Home() Route { return Route{Screen: ScreenHome} }

func List(page int) Route {
	return Route{Screen: ScreenList, Page: clampPage(page), HasPage: true}
}

func Detail(id string, page int) Route {
	return Route{Screen: ScreenDetail, ID: id, Page: clampPage(page), HasPage: true}
}

// Parse never fails: unknown paths become ScreenNotFound.
func Parse(raw string) Route {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Home()
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Route{Screen: ScreenNotFound, raw: raw}
	}

	r := Route{}
	if vals, ok := u.Query()["page"]; ok && len(vals) > 0 {
		r.Page = ParsePage(vals[0])
		r.HasPage = true
	}

	path := strings.TrimSuffix(u.Path, "/")
	segments := strings.Split(strings.TrimPrefix(path, "/"), "/")
	switch {
	case path == "":
		r.Screen = ScreenHome
	case path == "/list":
		r.Screen = ScreenList
	case len(segments) == 2 && segments[0] == "pokemon" && segments[1] != "":
		r.Screen = ScreenDetail
		r.ID = segments[1]
	default:
		r.Screen = ScreenNotFound
		r.raw = raw
	}
	return r
}

// ParsePage reads a page parameter. Missing, negative and non-numeric values
// are all page 0.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func clampPage(p int) int {
	if p < 0 {
		return 0
	}
	return p
}

// WithPage returns r with the page parameter set.
func (r Route) WithPage(page int) Route {
	r.Page = clampPage(page)
	r.HasPage = true
	return r
}

func (r Route) String() string {
	var path string
	switch r.Screen {
	case ScreenHome:
		path = "/"
	case ScreenList:
		path = "/list"
	case ScreenDetail:
		path = "/pokemon/" + url.PathEscape(r.ID)
	default:
		if r.raw != "" {
			return r.raw
		}
		return "/404"
	}
	if r.HasPage {
		return fmt.Sprintf("%s?page=%d", path, r.Page)
	}
	return path
}
