// Package clock provides the tick stream that drives live timer displays.
//
// A Ticker emits wall-clock samples at a fixed cadence. It can be paused
// while the consuming surface is not visible; pausing stops all scheduling
// work, and resuming emits an immediate sample so consumers recompute their
// display from an absolute anchor instead of accumulating per-tick deltas.
package clock

import (
	"sync"
	"time"
)

// DefaultInterval approximates a display refresh cadence.
const DefaultInterval = 16 * time.Millisecond

// Ticker delivers periodic wall-clock samples on C.
type Ticker struct {
	interval time.Duration
	now      func() time.Time

	mu      sync.Mutex
	ch      chan time.Time
	stop    chan struct{}
	pause   chan bool
	started bool
}

// Option configures a Ticker.
type Option func(*Ticker)

// WithNow overrides the wall-clock source, for tests.
func WithNow(now func() time.Time) Option {
	return func(t *Ticker) { t.now = now }
}

// NewTicker creates a stopped ticker with the given interval.
// A non-positive interval falls back to DefaultInterval.
func NewTicker(interval time.Duration, opts ...Option) *Ticker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := &Ticker{
		interval: interval,
		now:      time.Now,
		ch:       make(chan time.Time, 1),
	}
	for _, opt := range opts {
		opt(ticker)
	}
	return ticker
}

// C returns the channel on which samples are delivered. Samples are dropped,
// not queued, when the consumer falls behind.
func (t *Ticker) C() <-chan time.Time {
	return t.ch
}

// Start begins delivering samples. Starting a started ticker is a no-op.
func (t *Ticker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started {
		return
	}
	t.started = true
	t.stop = make(chan struct{})
	t.pause = make(chan bool, 1)
	go t.run(t.stop, t.pause)
}

// Stop ends delivery and releases the scheduling goroutine.
// Stopping a stopped ticker is a no-op.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.started {
		return
	}
	t.started = false
	close(t.stop)
}

// Pause suspends delivery without releasing the ticker. No samples are
// produced and no timers fire while paused.
func (t *Ticker) Pause() {
	t.setPaused(true)
}

// Resume restarts delivery after Pause and emits an immediate sample.
func (t *Ticker) Resume() {
	t.setPaused(false)
}

func (t *Ticker) setPaused(paused bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.started {
		return
	}
	select {
	case t.pause <- paused:
	case <-t.stop:
	}
}

func (t *Ticker) run(stop chan struct{}, pause chan bool) {
	ticker := time.NewTicker(t.interval)
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	t.emit()
	for {
		if ticker == nil {
			// Paused: nothing fires until resume or stop.
			select {
			case <-stop:
				return
			case paused := <-pause:
				if !paused {
					ticker = time.NewTicker(t.interval)
					t.emit()
				}
			}
			continue
		}

		select {
		case <-stop:
			return
		case paused := <-pause:
			if paused {
				ticker.Stop()
				ticker = nil
			}
		case <-ticker.C:
			t.emit()
		}
	}
}

func (t *Ticker) emit() {
	select {
	case t.ch <- t.now():
	default:
	}
}
