package debounce

import (
	"testing"
	"time"
)

type fakeTimer struct {
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	wasActive := !t.stopped
	t.stopped = true
	return wasActive
}

type fakeClock struct {
	timers []*fakeTimer
	delays []time.Duration
}

func (c *fakeClock) afterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{f: f}
	c.timers = append(c.timers, t)
	c.delays = append(c.delays, d)
	return t
}

// fireAll runs every timer callback, including stopped ones, to simulate a
// timer that fired while being cancelled.
func (c *fakeClock) fireAll() {
	for _, t := range c.timers {
		t.f()
	}
}

func TestDebouncerCollapsesToLatest(t *testing.T) {
	clock := &fakeClock{}
	var got []string
	d := NewWithClock(0, func(v string) { got = append(got, v) }, clock.afterFunc)
	d.Call("a")
	d.Call("an")
	d.Call("ann")
	if !d.Pending() {
		t.Fatalf("expected a pending call")
	}
	for i, timer := range clock.timers[:2] {
		if !timer.stopped {
			t.Fatalf("expected timer %d to be cancelled", i)
		}
	}
	if clock.delays[0] != DefaultWindow {
		t.Fatalf("expected default window, got %v", clock.delays[0])
	}
	clock.fireAll()
	if len(got) != 1 || got[0] != "ann" {
		t.Fatalf("expected only the last value, got %v", got)
	}
	if d.Pending() {
		t.Fatalf("expected nothing pending after firing")
	}
}

func TestDebouncerStopDropsPending(t *testing.T) {
	clock := &fakeClock{}
	calls := 0
	d := NewWithClock(50*time.Millisecond, func(int) { calls++ }, clock.afterFunc)
	d.Call(1)
	d.Stop()
	clock.fireAll()
	if calls != 0 {
		t.Fatalf("expected no calls after stop, got %d", calls)
	}
}

func TestDebouncerRealTimer(t *testing.T) {
	done := make(chan int, 4)
	d := New(10*time.Millisecond, func(v int) { done <- v })
	d.Call(1)
	d.Call(2)
	select {
	case v := <-done:
		if v != 2 {
			t.Fatalf("expected 2, got %d", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("debounced call never fired")
	}
	select {
	case v := <-done:
		t.Fatalf("unexpected extra call with %d", v)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSequenceCurrent(t *testing.T) {
	s := NewSequence(1)
	first := s.Schedule(time.Millisecond)
	second := s.Schedule(time.Millisecond)
	if first == nil || second == nil {
		t.Fatalf("expected tick commands")
	}
	if s.Current(TickMsg{ID: 1, Tag: 1}) {
		t.Fatalf("expected first tick to be stale")
	}
	if !s.Current(TickMsg{ID: 1, Tag: 2}) {
		t.Fatalf("expected latest tick to be current")
	}
	if s.Current(TickMsg{ID: 2, Tag: 2}) {
		t.Fatalf("expected tick from another sequence to be ignored")
	}
	s.Cancel()
	if s.Current(TickMsg{ID: 1, Tag: 2}) {
		t.Fatalf("expected cancelled tick to be stale")
	}
}
