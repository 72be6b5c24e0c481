package runner_test

import (
	"sync"
	"testing"
	"time"

	"github.com/hperssn/unibalance/internal/runner"
)

type manualTicker struct {
	d  time.Duration
	ch chan time.Time

	mu      sync.Mutex
	stopped bool
}

func (m *manualTicker) C() <-chan time.Time { return m.ch }

func (m *manualTicker) Stop() {
	m.mu.Lock()
	m.stopped = true
	m.mu.Unlock()
}

func (m *manualTicker) fire() {
	select {
	case m.ch <- time.Now():
	default:
	}
}

// manualClock hands out tickers that only fire when told to.
type manualClock struct {
	created chan *manualTicker
}

func newManualClock() *manualClock {
	return &manualClock{created: make(chan *manualTicker, 256)}
}

func (c *manualClock) NewTicker(d time.Duration) runner.Ticker {
	tk := &manualTicker{d: d, ch: make(chan time.Time, 1)}
	c.created <- tk
	return tk
}

func (c *manualClock) next(t *testing.T) *manualTicker {
	t.Helper()
	select {
	case tk := <-c.created:
		return tk
	case <-time.After(time.Second):
		t.Fatalf("no ticker was created")
		return nil
	}
}

func (c *manualClock) idle(t *testing.T) {
	t.Helper()
	select {
	case tk := <-c.created:
		t.Fatalf("unexpected ticker for %v", tk.d)
	default:
	}
}

func waitFor[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting")
		var zero T
		return zero
	}
}

func expectNone[T any](t *testing.T, ch <-chan T) {
	t.Helper()
	select {
	case v := <-ch:
		t.Fatalf("unexpected value %+v", v)
	case <-time.After(50 * time.Millisecond):
	}
}

func nextEvent(t *testing.T, events <-chan runner.Event, typ runner.EventType) runner.Event {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case e, ok := <-events:
			if !ok {
				t.Fatalf("event stream closed while waiting for %s", typ)
			}
			if e.Type == typ {
				return e
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s event", typ)
		}
	}
}
