package clock

import (
	"testing"
	"time"
)

func waitForTick(t *testing.T, ticker *Ticker, timeout time.Duration) time.Time {
	t.Helper()
	select {
	case sample := <-ticker.C():
		return sample
	case <-time.After(timeout):
		t.Fatal("timed out waiting for tick")
		return time.Time{}
	}
}

func drain(ticker *Ticker) {
	for {
		select {
		case <-ticker.C():
		default:
			return
		}
	}
}

func TestTickerDeliversSamples(t *testing.T) {
	ticker := NewTicker(5 * time.Millisecond)
	ticker.Start()
	defer ticker.Stop()

	first := waitForTick(t, ticker, time.Second)
	second := waitForTick(t, ticker, time.Second)
	if second.Before(first) {
		t.Fatalf("samples went backwards: %v then %v", first, second)
	}
}

func TestTickerStopEndsDelivery(t *testing.T) {
	ticker := NewTicker(5 * time.Millisecond)
	ticker.Start()
	waitForTick(t, ticker, time.Second)
	ticker.Stop()
	drain(ticker)

	select {
	case <-ticker.C():
		t.Fatal("received tick after stop")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTickerPauseSuspendsDelivery(t *testing.T) {
	ticker := NewTicker(5 * time.Millisecond)
	ticker.Start()
	defer ticker.Stop()
	waitForTick(t, ticker, time.Second)

	ticker.Pause()
	// Give the in-flight tick, if any, time to land before draining.
	time.Sleep(20 * time.Millisecond)
	drain(ticker)

	select {
	case <-ticker.C():
		t.Fatal("received tick while paused")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTickerResumeEmitsImmediately(t *testing.T) {
	ticker := NewTicker(time.Hour)
	ticker.Start()
	waitForTick(t, ticker, time.Second)
	defer ticker.Stop()

	ticker.Pause()
	time.Sleep(10 * time.Millisecond)
	drain(ticker)

	ticker.Resume()
	// The hour-long interval has not elapsed; the sample must come from
	// the resume itself.
	waitForTick(t, ticker, time.Second)
}

func TestTickerInjectedNow(t *testing.T) {
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ticker := NewTicker(5*time.Millisecond, WithNow(func() time.Time { return fixed }))
	ticker.Start()
	defer ticker.Stop()

	sample := waitForTick(t, ticker, time.Second)
	if !sample.Equal(fixed) {
		t.Fatalf("expected injected now %v, got %v", fixed, sample)
	}
}

func TestTickerStartStopIdempotent(t *testing.T) {
	ticker := NewTicker(5 * time.Millisecond)
	ticker.Start()
	ticker.Start()
	waitForTick(t, ticker, time.Second)
	ticker.Stop()
	ticker.Stop()
}
