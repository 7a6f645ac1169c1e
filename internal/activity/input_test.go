package activity

import (
	"sync"
	"testing"
	"time"

	"worktick/internal/platform"
)

func TestInputPollerSignalsOnIdleDrop(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	sequence := []time.Duration{10 * time.Second, 20 * time.Second, time.Second}
	sample := func() (time.Duration, error) {
		mu.Lock()
		defer mu.Unlock()
		if calls < len(sequence) {
			calls++
			return sequence[calls-1], nil
		}
		return time.Hour, nil
	}

	signals := make(chan struct{}, 8)
	poller := NewInputPoller(sample, 20*time.Millisecond, func() {
		select {
		case signals <- struct{}{}:
		default:
		}
	}, testLogger)
	poller.Start()
	defer poller.Close()

	select {
	case <-signals:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for input activity signal")
	}

	// The idle counter only drops once in the sequence.
	select {
	case <-signals:
		t.Fatal("Expected a single signal for a single idle drop")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestInputPollerSignalsWhileActivelyUsed(t *testing.T) {
	sample := func() (time.Duration, error) {
		return 5 * time.Millisecond, nil
	}

	signals := make(chan struct{}, 8)
	poller := NewInputPoller(sample, 30*time.Millisecond, func() {
		select {
		case signals <- struct{}{}:
		default:
		}
	}, testLogger)
	poller.Start()
	defer poller.Close()

	for i := 0; i < 2; i++ {
		select {
		case <-signals:
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for continuous activity signals")
		}
	}
}

func TestInputPollerDisablesWhenUnsupported(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	sample := func() (time.Duration, error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		return 0, platform.ErrInputUnsupported
	}

	signals := make(chan struct{}, 8)
	poller := NewInputPoller(sample, 20*time.Millisecond, func() {
		select {
		case signals <- struct{}{}:
		default:
		}
	}, testLogger)
	poller.Start()
	defer poller.Close()

	time.Sleep(200 * time.Millisecond)

	mu.Lock()
	got := calls
	mu.Unlock()
	if got != 1 {
		t.Errorf("Expected sampling to stop after unsupported error, got %d calls", got)
	}
	if len(signals) != 0 {
		t.Error("Expected no activity signals from an unsupported probe")
	}
}
