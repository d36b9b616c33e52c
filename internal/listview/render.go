package listview

import (
	"fmt"

	"github.com/pders01/dex/internal/pokeapi"
)

const (
	SearchingText = "Searching…"
	LoadingText   = "Loading…"
	NoMatchesText = "No Pokémon match your search"
)

// RenderState is exactly one of Searching, Loading, Failed, EmptyCatalog,
// NoMatches or Populated.
type RenderState interface {
	Text() string
	renderState()
}

type Searching struct{ Term string }

type Loading struct{}

type Failed struct{ Message string }

type EmptyCatalog struct{ Message string }

type NoMatches struct{ Term string }

type Populated struct {
	Items      []pokeapi.ListItem
	Pagination Pagination
}

func (Searching) Text() string      { return SearchingText }
func (Loading) Text() string        { return LoadingText }
func (f Failed) Text() string       { return f.Message }
func (e EmptyCatalog) Text() string { return e.Message }
func (NoMatches) Text() string      { return NoMatchesText }
func (p Populated) Text() string    { return p.Pagination.Indicator() }

func (Searching) renderState()    {}
func (Loading) renderState()      {}
func (Failed) renderState()       {}
func (EmptyCatalog) renderState() {}
func (NoMatches) renderState()    {}
func (Populated) renderState()    {}

// Inputs is everything Derive looks at.
type Inputs struct {
	Loading      bool
	Err          error
	Result       *pokeapi.ListResult
	Settled      string
	EmptyMessage string
	Pagination   Pagination
}

// Derive picks the render state. The first matching rule wins.
func Derive(in Inputs) RenderState {
	empty := in.Result == nil || len(in.Result.Items) == 0

	switch {
	case in.Loading && in.Settled != "":
		return Searching{Term: in.Settled}
	case in.Loading:
		return Loading{}
	case in.Err != nil:
		return Failed{Message: fmt.Sprintf("Error: %s", in.Err.Error())}
	case empty && in.Settled == "":
		return EmptyCatalog{Message: in.EmptyMessage}
	case empty:
		return NoMatches{Term: in.Settled}
	default:
		return Populated{Items: in.Result.Items, Pagination: in.Pagination}
	}
}
