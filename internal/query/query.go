// Package query holds the request state shared by the list and detail views.
package query

import "sync"

// State is the outcome of the most recent request for some parameters.
type State[T any] struct {
	Data    T
	Loading bool
	Err     error
}

func Pending[T any]() State[T] {
	return State[T]{Loading: true}
}

func Done[T any](data T, err error) State[T] {
	if err != nil {
		var zero T
		return State[T]{Data: zero, Err: err}
	}
	return State[T]{Data: data}
}

// Ticket identifies one issued request.
type Ticket struct {
	Seq uint64
	Key string
}

// Tracker implements last-request-wins. Each Track call with a new key
// supersedes every earlier ticket; results carrying a superseded ticket must
// be dropped by the caller.
type Tracker struct {
	mu      sync.Mutex
	seq     uint64
	current Ticket
	active  bool
}

// Track returns the ticket for key. issued is false when key equals the
// current key, in which case no new request should be sent.
func (t *Tracker) Track(key string) (Ticket, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.active && t.current.Key == key {
		return t.current, false
	}
	t.seq++
	t.current = Ticket{Seq: t.seq, Key: key}
	t.active = true
	return t.current, true
}

// Force issues a fresh ticket even if key is unchanged (explicit reload).
func (t *Tracker) Force(key string) Ticket {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.seq++
	t.current = Ticket{Seq: t.seq, Key: key}
	t.active = true
	return t.current
}

func (t *Tracker) Current(ticket Ticket) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active && t.current == ticket
}

// Reset forgets the current key so the next Track always issues.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	t.active = false
}
