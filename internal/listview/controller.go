// Package listview is the state machine behind the catalog list: search
// text, the debounced term, the page (kept in the route), page jumps and the
// derived render state.
package listview

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pders01/dex/internal/nav"
	"github.com/pders01/dex/internal/pokeapi"
	"github.com/pders01/dex/internal/query"
)

const DefaultPageSize = 20

type Controller struct {
	nav      *nav.Navigator
	pageSize int

	rawSearch string
	settled   string

	pageInput    string
	pageInputErr string

	state      query.State[*pokeapi.ListResult]
	total      int
	totalKnown bool

	emptyMessage string
	pickMessage  func() string
}

func New(n *nav.Navigator, pageSize int) *Controller {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	c := &Controller{
		nav:         n,
		pageSize:    pageSize,
		pickMessage: RandomEmptyMessage,
	}
	c.pageInput = strconv.Itoa(c.Page() + 1)
	return c
}

// WithMessagePicker replaces the random empty-catalog message source.
func (c *Controller) WithMessagePicker(pick func() string) *Controller {
	c.pickMessage = pick
	return c
}

func (c *Controller) PageSize() int { return c.pageSize }

func (c *Controller) SetSearchText(s string) { c.rawSearch = s }

func (c *Controller) SearchText() string { return c.rawSearch }

func (c *Controller) Settled() string { return c.settled }

// Settle applies the debounced search term. A change in either direction,
// including to or from empty, sends the list back to page 0. It reports
// whether the term changed.
func (c *Controller) Settle(term string) bool {
	term = strings.TrimSpace(term)
	if term == c.settled {
		return false
	}
	c.settled = term
	c.totalKnown = false
	c.setPage(0)
	return true
}

func (c *Controller) Page() int { return c.nav.Page() }

func (c *Controller) setPage(p int) {
	c.nav.SetPage(p)
	c.pageInput = strconv.Itoa(p + 1)
	c.pageInputErr = ""
}

// Query is the request for the current settled term and page.
func (c *Controller) Query() pokeapi.ListQuery {
	return pokeapi.ListQuery{
		Pattern: pokeapi.SearchPattern(c.settled),
		Limit:   c.pageSize,
		Offset:  c.Page() * c.pageSize,
	}
}

func (c *Controller) BeginLoad() {
	c.state = query.Pending[*pokeapi.ListResult]()
}

// Resolve records the outcome of the current request. It returns true when
// the page had to be clamped into range, which means the caller must fetch
// again for the new page.
func (c *Controller) Resolve(res *pokeapi.ListResult, err error) bool {
	c.state = query.Done(res, err)
	if err != nil {
		return false
	}
	if res != nil {
		c.total = res.TotalCount
		c.totalKnown = true
	}
	if (res == nil || len(res.Items) == 0) && c.settled == "" {
		c.emptyMessage = c.pickMessage()
	}
	return c.ClampPage()
}

// ClampPage moves the page into [0, totalPages-1] once a total is known.
func (c *Controller) ClampPage() bool {
	if !c.totalKnown {
		return false
	}
	last := TotalPages(c.total, c.pageSize) - 1
	if c.Page() > last {
		c.setPage(last)
		return true
	}
	return false
}

func (c *Controller) State() query.State[*pokeapi.ListResult] { return c.state }

func (c *Controller) Pagination() Pagination {
	return NewPagination(c.Page(), c.total, c.pageSize)
}

func (c *Controller) Render() RenderState {
	return Derive(Inputs{
		Loading:      c.state.Loading,
		Err:          c.state.Err,
		Result:       c.state.Data,
		Settled:      c.settled,
		EmptyMessage: c.emptyMessage,
		Pagination:   c.Pagination(),
	})
}

func (c *Controller) PrevPage() bool {
	p := c.Pagination()
	if !p.CanPrev {
		return false
	}
	c.setPage(p.Page - 1)
	return true
}

func (c *Controller) NextPage() bool {
	p := c.Pagination()
	if !p.CanNext {
		return false
	}
	c.setPage(p.Page + 1)
	return true
}

func (c *Controller) SetPageInput(text string) { c.pageInput = text }

func (c *Controller) PageInput() string { return c.pageInput }

func (c *Controller) PageInputErr() string { return c.pageInputErr }

// SubmitPageInput applies the page jump text. Only integers in
// [1, totalPages] are accepted; anything else leaves the page alone, sets a
// validation message and puts the current page back into the input.
func (c *Controller) SubmitPageInput() bool {
	total := c.Pagination().TotalPages
	n, err := strconv.Atoi(strings.TrimSpace(c.pageInput))
	if err != nil || n < 1 || n > total {
		c.pageInputErr = fmt.Sprintf("Enter a page between 1 and %d", total)
		c.pageInput = strconv.Itoa(c.Page() + 1)
		return false
	}
	changed := n-1 != c.Page()
	c.setPage(n - 1)
	return changed
}

// CancelPageInput drops an unsubmitted page jump.
func (c *Controller) CancelPageInput() {
	c.pageInput = strconv.Itoa(c.Page() + 1)
	c.pageInputErr = ""
}

// Select opens the detail overlay for id, remembering the current page.
func (c *Controller) Select(id string) {
	c.nav.Navigate(nav.Detail(id, c.Page()))
}

// SyncFromRoute is called when the route changed underneath the controller
// (back navigation, detail dismissal). It refreshes the page input.
func (c *Controller) SyncFromRoute() {
	c.pageInput = strconv.Itoa(c.Page() + 1)
	c.pageInputErr = ""
}
