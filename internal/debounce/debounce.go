// Package debounce delays a changing value until it has been stable for a
// while.
package debounce

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Debouncer forwards the last pushed value to fn once delay has passed
// without another Push. Every Push cancels the timer armed by the one before.
type Debouncer[T any] struct {
	clk   clock.Clock
	delay time.Duration
	fn    func(T)

	mu    sync.Mutex
	timer *clock.Timer
	gen   uint64
}

func New[T any](clk clock.Clock, delay time.Duration, fn func(T)) *Debouncer[T] {
	if clk == nil {
		clk = clock.New()
	}
	return &Debouncer[T]{clk: clk, delay: delay, fn: fn}
}

func (d *Debouncer[T]) Push(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.clk.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// A Stop that raced with the timer firing wins.
		if gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		d.fn(v)
	})
}

// Stop cancels the pending timer, if any.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}
