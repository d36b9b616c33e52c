// Package detailview drives the detail overlay: which id is open, the fetch
// state for it and the way back to the list.
package detailview

import (
	"github.com/pders01/dex/internal/nav"
	"github.com/pders01/dex/internal/pokeapi"
	"github.com/pders01/dex/internal/query"
)

const EmptyText = "No details available for this Pokémon."

type Phase int

const (
	Hidden Phase = iota
	Loading
	Failed
	Loaded
	Empty
)

func (p Phase) String() string {
	switch p {
	case Hidden:
		return "hidden"
	case Loading:
		return "loading"
	case Failed:
		return "failed"
	case Loaded:
		return "loaded"
	case Empty:
		return "empty"
	default:
		return "unknown"
	}
}

type Controller struct {
	nav       *nav.Navigator
	rawID     string
	open      bool
	entryPage int
	state     query.State[*pokeapi.Detail]
}

func New(n *nav.Navigator) *Controller {
	return &Controller{nav: n}
}

// Sync looks at the current route. When a different id was opened it returns
// that id with fetch set; an id that does not parse short-circuits to the
// empty state without a request.
func (c *Controller) Sync() (id int, fetch bool) {
	r := c.nav.Current()
	if r.Screen != nav.ScreenDetail {
		c.open = false
		c.rawID = ""
		c.state = query.State[*pokeapi.Detail]{}
		return 0, false
	}
	if c.open && r.ID == c.rawID {
		return 0, false
	}

	c.open = true
	c.rawID = r.ID
	c.entryPage = r.Page

	parsed, ok := pokeapi.ParseID(r.ID)
	if !ok {
		c.state = query.State[*pokeapi.Detail]{}
		return 0, false
	}
	c.state = query.Pending[*pokeapi.Detail]()
	return parsed, true
}

func (c *Controller) Resolve(d *pokeapi.Detail, err error) {
	c.state = query.Done(d, err)
}

func (c *Controller) State() query.State[*pokeapi.Detail] { return c.state }

func (c *Controller) RawID() string { return c.rawID }

func (c *Controller) EntryPage() int { return c.entryPage }

func (c *Controller) Phase() Phase {
	switch {
	case !c.open:
		return Hidden
	case c.state.Loading:
		return Loading
	case c.state.Err != nil:
		return Failed
	case c.state.Data != nil:
		return Loaded
	default:
		return Empty
	}
}

// Card is only meaningful in the Loaded phase.
func (c *Controller) Card() (Card, bool) {
	if c.Phase() != Loaded {
		return Card{}, false
	}
	return NewCard(c.state.Data), true
}

// Dismiss returns to the list at the page the overlay was opened from.
func (c *Controller) Dismiss() {
	if !c.open {
		return
	}
	c.nav.Navigate(nav.List(c.entryPage))
	c.open = false
	c.rawID = ""
	c.state = query.State[*pokeapi.Detail]{}
}
