package nav

import "sync"

// Navigator is a browser-style history shared by the list and detail
// controllers. The current route's page parameter is the only place the
// list page is stored.
type Navigator struct {
	mu      sync.RWMutex
	history []Route
	index   int
}

func New(start Route) *Navigator {
	return &Navigator{history: []Route{start}}
}

func (n *Navigator) Current() Route {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.history[n.index]
}

// Navigate pushes r, discarding any forward history.
func (n *Navigator) Navigate(r Route) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.history = append(n.history[:n.index+1], r)
	n.index = len(n.history) - 1
}

// Replace swaps the current entry without growing the history.
func (n *Navigator) Replace(r Route) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.history[n.index] = r
}

func (n *Navigator) Back() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.index == 0 {
		return false
	}
	n.index--
	return true
}

func (n *Navigator) Forward() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.index >= len(n.history)-1 {
		return false
	}
	n.index++
	return true
}

func (n *Navigator) Page() int {
	return n.Current().Page
}

// SetPage replaces the current route with the same route at page p.
func (n *Navigator) SetPage(p int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.history[n.index] = n.history[n.index].WithPage(p)
}

func (n *Navigator) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.history)
}
