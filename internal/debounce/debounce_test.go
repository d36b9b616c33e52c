package debounce

import (
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recorder struct {
	mu   sync.Mutex
	seen []string
}

func (r *recorder) record(v string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, v)
}

func (r *recorder) values() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.seen...)
}

func TestDebouncer_FiresAfterQuietPeriod(t *testing.T) {
	clk := clock.NewMock()
	rec := &recorder{}
	d := New(clk, 300*time.Millisecond, rec.record)

	d.Push("P")
	assert.True(t, d.Pending())

	clk.Add(299 * time.Millisecond)
	assert.Empty(t, rec.values())

	clk.Add(1 * time.Millisecond)
	assert.Equal(t, []string{"P"}, rec.values())
	assert.False(t, d.Pending())
}

func TestDebouncer_EachPushRestartsTimer(t *testing.T) {
	clk := clock.NewMock()
	rec := &recorder{}
	d := New(clk, 300*time.Millisecond, rec.record)

	// Typing "Pika" with 100ms between keystrokes.
	for _, v := range []string{"P", "Pi", "Pik", "Pika"} {
		d.Push(v)
		clk.Add(100 * time.Millisecond)
	}
	assert.Empty(t, rec.values(), "nothing settles while typing")

	clk.Add(199 * time.Millisecond)
	assert.Empty(t, rec.values())

	clk.Add(1 * time.Millisecond)
	assert.Equal(t, []string{"Pika"}, rec.values(), "only the final value settles")

	clk.Add(time.Second)
	assert.Equal(t, []string{"Pika"}, rec.values())
}

func TestDebouncer_Stop(t *testing.T) {
	clk := clock.NewMock()
	rec := &recorder{}
	d := New(clk, 300*time.Millisecond, rec.record)

	d.Push("gone")
	d.Stop()
	assert.False(t, d.Pending())

	clk.Add(time.Second)
	assert.Empty(t, rec.values())

	d.Push("back")
	clk.Add(300 * time.Millisecond)
	assert.Equal(t, []string{"back"}, rec.values())
}

func TestDebouncer_ZeroDelay(t *testing.T) {
	clk := clock.NewMock()
	rec := &recorder{}
	d := New(clk, 0, rec.record)

	d.Push("now")
	clk.Add(0)
	assert.Equal(t, []string{"now"}, rec.values())
}

func TestDebouncer_RealClock(t *testing.T) {
	done := make(chan string, 1)
	d := New(nil, 5*time.Millisecond, func(v string) { done <- v })

	d.Push("a")
	d.Push("b")

	select {
	case v := <-done:
		assert.Equal(t, "b", v)
	case <-time.After(2 * time.Second):
		t.Fatal("debounced value never arrived")
	}
	d.Stop()
}
