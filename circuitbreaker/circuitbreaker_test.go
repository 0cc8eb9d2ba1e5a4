package circuitbreaker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock lets tests move time forward without sleeping
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newWithClock(cfg Config) (*CircuitBreaker, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	cb := New(cfg)
	cb.now = clock.Now
	return cb, clock
}

func TestNew(t *testing.T) {
	cb := New(Config{Name: "genius", Threshold: 3, Cooldown: 10 * time.Second})

	if cb.name != "genius" {
		t.Errorf("Expected name 'genius', got %q", cb.name)
	}
	if cb.threshold != 3 {
		t.Errorf("Expected threshold 3, got %d", cb.threshold)
	}
	if cb.cooldown != 10*time.Second {
		t.Errorf("Expected cooldown 10s, got %v", cb.cooldown)
	}
	if cb.state != StateClosed {
		t.Errorf("Expected initial state CLOSED, got %s", cb.state)
	}
}

func TestNew_Defaults(t *testing.T) {
	cb := New(Config{})

	if cb.threshold != 5 {
		t.Errorf("Expected default threshold 5, got %d", cb.threshold)
	}
	if cb.cooldown != 5*time.Minute {
		t.Errorf("Expected default cooldown 5m, got %v", cb.cooldown)
	}
	if cb.halfOpenTimeout != 30*time.Second {
		t.Errorf("Expected default halfOpenTimeout 30s, got %v", cb.halfOpenTimeout)
	}
	if cb.name != "default" {
		t.Errorf("Expected default name 'default', got %q", cb.name)
	}
}

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	cb, _ := newWithClock(Config{Threshold: 3, Cooldown: time.Minute})

	for i := 1; i < 3; i++ {
		cb.RecordFailure()
		if cb.State() != StateClosed {
			t.Fatalf("Expected CLOSED after %d failures, got %s", i, cb.State())
		}
	}

	cb.RecordFailure()
	if cb.State() != StateOpen {
		t.Fatalf("Expected OPEN after 3 failures, got %s", cb.State())
	}
	if cb.Allow() {
		t.Error("Expected Allow() to return false in OPEN state")
	}
}

func TestCircuitBreaker_SuccessResetsFailures(t *testing.T) {
	cb, _ := newWithClock(Config{Threshold: 3})

	cb.RecordFailure()
	cb.RecordFailure()
	cb.RecordSuccess()

	if cb.Failures() != 0 {
		t.Errorf("Expected 0 failures after success, got %d", cb.Failures())
	}
	if cb.State() != StateClosed {
		t.Errorf("Expected CLOSED, got %s", cb.State())
	}
}

func TestCircuitBreaker_HalfOpenTrial(t *testing.T) {
	tests := []struct {
		name     string
		record   func(cb *CircuitBreaker)
		expected State
	}{
		{"trial call succeeds", (*CircuitBreaker).RecordSuccess, StateClosed},
		{"trial call fails", (*CircuitBreaker).RecordFailure, StateOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb, clock := newWithClock(Config{Threshold: 1, Cooldown: time.Minute})

			cb.RecordFailure()
			clock.Advance(time.Minute)

			if !cb.Allow() {
				t.Fatal("Expected a trial call to be allowed after cooldown")
			}
			if cb.State() != StateHalfOpen {
				t.Fatalf("Expected HALF-OPEN, got %s", cb.State())
			}
			if cb.Allow() {
				t.Error("Expected only one trial call while HALF-OPEN")
			}

			tt.record(cb)
			if cb.State() != tt.expected {
				t.Errorf("Expected %s after trial call, got %s", tt.expected, cb.State())
			}
		})
	}
}

func TestCircuitBreaker_HalfOpenTimeout(t *testing.T) {
	cb, clock := newWithClock(Config{Threshold: 1, Cooldown: time.Minute, HalfOpenTimeout: 10 * time.Second})

	cb.RecordFailure()
	clock.Advance(time.Minute)
	cb.Allow()

	clock.Advance(10 * time.Second)
	if cb.Allow() {
		t.Error("Expected Allow() false once the trial call timed out")
	}
	if cb.State() != StateOpen {
		t.Errorf("Expected OPEN after trial timeout, got %s", cb.State())
	}
	if got := cb.TimeUntilRetry(); got != time.Minute {
		t.Errorf("Expected a fresh cooldown of 1m, got %v", got)
	}
}

func TestCircuitBreaker_TimeUntilRetry(t *testing.T) {
	cb, clock := newWithClock(Config{Threshold: 1, Cooldown: time.Minute, HalfOpenTimeout: 20 * time.Second})

	if cb.TimeUntilRetry() != 0 {
		t.Error("Expected 0 while CLOSED")
	}

	cb.RecordFailure()
	clock.Advance(15 * time.Second)
	if got := cb.TimeUntilRetry(); got != 45*time.Second {
		t.Errorf("Expected 45s while OPEN, got %v", got)
	}

	clock.Advance(45 * time.Second)
	cb.Allow()
	clock.Advance(5 * time.Second)
	if got := cb.TimeUntilRetry(); got != 15*time.Second {
		t.Errorf("Expected 15s while HALF-OPEN, got %v", got)
	}
}

func TestCircuitBreaker_Reset(t *testing.T) {
	cb, _ := newWithClock(Config{Threshold: 1})

	cb.RecordFailure()
	cb.Reset()

	if cb.State() != StateClosed {
		t.Errorf("Expected CLOSED after reset, got %s", cb.State())
	}
	if cb.Failures() != 0 {
		t.Errorf("Expected 0 failures after reset, got %d", cb.Failures())
	}
	if !cb.Allow() {
		t.Error("Expected Allow() after reset")
	}
}

func TestCircuitBreaker_Execute(t *testing.T) {
	errUpstream := errors.New("upstream down")
	errNotFound := errors.New("no results")
	isFailure := func(err error) bool { return errors.Is(err, errUpstream) }

	cb, _ := newWithClock(Config{Threshold: 2, Cooldown: time.Minute})

	if err := cb.Execute(func() error { return errNotFound }, isFailure); !errors.Is(err, errNotFound) {
		t.Fatalf("Expected errNotFound to pass through, got %v", err)
	}
	if cb.Failures() != 0 {
		t.Errorf("Expected non-failure errors not to count, got %d", cb.Failures())
	}

	cb.Execute(func() error { return errUpstream }, isFailure)
	cb.Execute(func() error { return errUpstream }, isFailure)

	called := false
	err := cb.Execute(func() error { called = true; return nil }, isFailure)
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("Expected ErrCircuitOpen, got %v", err)
	}
	if called {
		t.Error("Expected fn not to run while OPEN")
	}
}

func TestCircuitBreaker_ExecuteCancelledTrial(t *testing.T) {
	cb, clock := newWithClock(Config{Threshold: 1, Cooldown: time.Minute})

	cb.RecordFailure()
	clock.Advance(time.Minute)

	cancelled := fmt.Errorf("search failed: %w", context.Canceled)
	err := cb.Execute(func() error { return cancelled }, func(error) bool { return false })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected cancellation to pass through, got %v", err)
	}
	if cb.State() == StateClosed {
		t.Fatal("Expected a cancelled trial call not to close the circuit")
	}
	if cb.State() != StateOpen {
		t.Errorf("Expected OPEN after cancelled trial call, got %s", cb.State())
	}

	// The next caller retries without another cooldown
	if !cb.Allow() {
		t.Error("Expected a fresh trial call to be allowed")
	}
}

func TestCircuitBreaker_ExecuteCancelledWhileClosed(t *testing.T) {
	cb, _ := newWithClock(Config{Threshold: 3})

	cb.RecordFailure()
	cb.Execute(func() error { return context.Canceled }, nil)

	if cb.Failures() != 1 {
		t.Errorf("Expected cancellation to leave failures at 1, got %d", cb.Failures())
	}
	if cb.State() != StateClosed {
		t.Errorf("Expected CLOSED, got %s", cb.State())
	}
}

func TestCircuitBreaker_OnStateChange(t *testing.T) {
	var transitions []string
	cb, clock := newWithClock(Config{
		Name:      "genius",
		Threshold: 1,
		Cooldown:  time.Minute,
		OnStateChange: func(name string, from, to State) {
			transitions = append(transitions, name+":"+from.String()+"->"+to.String())
		},
	})

	cb.RecordFailure()
	clock.Advance(time.Minute)
	cb.Allow()
	cb.RecordSuccess()

	expected := []string{
		"genius:CLOSED->OPEN",
		"genius:OPEN->HALF-OPEN",
		"genius:HALF-OPEN->CLOSED",
	}
	if len(transitions) != len(expected) {
		t.Fatalf("Expected %d transitions, got %v", len(expected), transitions)
	}
	for i := range expected {
		if transitions[i] != expected[i] {
			t.Errorf("Transition %d: expected %q, got %q", i, expected[i], transitions[i])
		}
	}
}

func TestCircuitBreaker_Snapshot(t *testing.T) {
	cb, _ := newWithClock(Config{Name: "genius", Threshold: 1, Cooldown: time.Minute})
	cb.RecordFailure()

	snap := cb.Snapshot()
	if snap.Name != "genius" || snap.State != "OPEN" || snap.Failures != 1 || snap.Threshold != 1 {
		t.Errorf("Unexpected snapshot: %+v", snap)
	}
	if snap.CooldownSecs != 60 || snap.TimeUntilRetry != 60 {
		t.Errorf("Unexpected timing in snapshot: %+v", snap)
	}
}

func TestCircuitBreaker_StateString(t *testing.T) {
	tests := []struct {
		state    State
		expected string
	}{
		{StateClosed, "CLOSED"},
		{StateOpen, "OPEN"},
		{StateHalfOpen, "HALF-OPEN"},
		{State(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.expected {
			t.Errorf("Expected %q, got %q", tt.expected, got)
		}
	}
}

func TestCircuitBreaker_ConcurrentAccess(t *testing.T) {
	cb := New(Config{Threshold: 1000, Cooldown: time.Minute})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				cb.Allow()
				if (i+j)%2 == 0 {
					cb.RecordFailure()
				} else {
					cb.RecordSuccess()
				}
				cb.Snapshot()
			}
		}(i)
	}
	wg.Wait()

	if s := cb.State(); s != StateClosed && s != StateOpen {
		t.Errorf("Unexpected state after concurrent access: %s", s)
	}
}
