package tracker

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"worktick/internal/core/model"
)

// ErrClosed indicates the tracker has been disposed and no longer accepts writes.
var ErrClosed = errors.New("session tracker closed")

// Clock supplies the current time. Tests inject a deterministic one.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Store persists cumulative workspace statistics. Get returns the zero
// record, not an error, for a workspace that was never saved.
type Store interface {
	Get(key string) (model.WorkspaceStats, error)
	Put(stats model.WorkspaceStats) error
}

// Options contains runtime options for SessionTracker.
type Options struct {
	TickInterval time.Duration
	Clock        Clock
}

// SessionTracker accumulates active editing time for one workspace and
// pauses itself after a window with no activity signals.
type SessionTracker struct {
	mu        sync.Mutex
	workspace model.Workspace
	store     Store
	config    model.TrackerConfig
	options   Options
	clock     Clock

	state       State
	startTime   time.Time
	sessionTime time.Duration
	savedMark   time.Duration

	idleTimer *time.Timer
	idleGen   uint64 // bumped on every re-arm; stale deadline fires are discarded
	runStop   chan struct{}

	events []chan Event
	closed bool
}

// New creates a SessionTracker for one workspace backed by the given store.
// Tracking begins with the first Start call.
func New(workspace model.Workspace, store Store, config model.TrackerConfig, options Options) *SessionTracker {
	if config.InactivityWindow <= 0 {
		config.InactivityWindow = 20 * time.Second
	}
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.Clock == nil {
		options.Clock = systemClock{}
	}

	return &SessionTracker{
		workspace: workspace,
		store:     store,
		config:    config,
		options:   options,
		clock:     options.Clock,
		state:     StatePaused,
	}
}

// Subscribe registers a new observer channel.
func (tracker *SessionTracker) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	tracker.mu.Lock()
	tracker.events = append(tracker.events, ch)
	tracker.mu.Unlock()
	return ch
}

// Start begins a tracking run. Redundant calls while tracking are no-ops.
func (tracker *SessionTracker) Start() {
	tracker.mu.Lock()
	if tracker.closed {
		tracker.mu.Unlock()
		return
	}
	tracker.startLocked()
	tracker.mu.Unlock()
}

// Stop ends the current tracking run and pauses accumulation. Redundant
// calls while paused are no-ops.
func (tracker *SessionTracker) Stop(reason StopReason) {
	tracker.mu.Lock()
	if tracker.closed {
		tracker.mu.Unlock()
		return
	}
	tracker.stopLocked(reason)
	tracker.mu.Unlock()
}

// OnActivity reschedules the inactivity deadline and resumes tracking when
// paused. Called for every qualifying activity signal.
func (tracker *SessionTracker) OnActivity() {
	tracker.mu.Lock()
	if tracker.closed {
		tracker.mu.Unlock()
		return
	}
	if tracker.state == StatePaused {
		tracker.startLocked()
	} else {
		tracker.armDeadlineLocked()
	}
	tracker.emitLocked(Event{
		Type:    EventProgress,
		State:   tracker.state,
		Elapsed: tracker.elapsedLocked(),
		At:      tracker.clock.Now(),
	})
	tracker.mu.Unlock()
}

// Elapsed returns the active time accumulated in this session so far.
func (tracker *SessionTracker) Elapsed() time.Duration {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	return tracker.elapsedLocked()
}

// Save folds the delta accrued since the previous save into the persisted
// total. Safe in any state and idempotent with respect to elapsed time.
func (tracker *SessionTracker) Save() error {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	if tracker.closed {
		return ErrClosed
	}
	return tracker.saveLocked()
}

// Stats returns the persisted record for the workspace without saving.
func (tracker *SessionTracker) Stats() (model.WorkspaceStats, error) {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	stats, err := tracker.store.Get(tracker.workspace.Key)
	if err != nil {
		return model.WorkspaceStats{}, fmt.Errorf("load workspace stats: %w", err)
	}
	// A zero mark still means "never saved"; align it so the next save
	// only counts time from this moment on.
	if tracker.savedMark == 0 {
		tracker.savedMark = tracker.elapsedLocked()
	}
	return stats, nil
}

// Reset zeroes the persisted record and the in-memory session counters.
// The tracking state is left as it is.
func (tracker *SessionTracker) Reset() error {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	if tracker.closed {
		return ErrClosed
	}

	now := tracker.clock.Now()
	cleared := model.WorkspaceStats{
		Key:        tracker.workspace.Key,
		Label:      tracker.workspace.Label,
		LastSaveAt: now,
	}
	if err := tracker.store.Put(cleared); err != nil {
		return fmt.Errorf("reset workspace stats: %w", err)
	}

	tracker.sessionTime = 0
	tracker.savedMark = 0
	tracker.startTime = now
	tracker.emitLocked(Event{
		Type:    EventProgress,
		State:   tracker.state,
		Elapsed: tracker.elapsedLocked(),
		At:      now,
	})
	return nil
}

// UpdateConfig applies new runtime settings. An armed inactivity deadline is
// rescheduled with the new window.
func (tracker *SessionTracker) UpdateConfig(config model.TrackerConfig) {
	tracker.mu.Lock()
	if config.InactivityWindow <= 0 {
		config.InactivityWindow = 20 * time.Second
	}
	tracker.config = config
	if tracker.state == StateTracking {
		tracker.armDeadlineLocked()
	}
	tracker.mu.Unlock()
}

// State reports the current mode.
func (tracker *SessionTracker) State() State {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	return tracker.state
}

// Workspace returns the identity this tracker accounts for.
func (tracker *SessionTracker) Workspace() model.Workspace {
	return tracker.workspace
}

// Close performs a final save, ends the current run, and closes all observer
// channels. Further calls are no-ops.
func (tracker *SessionTracker) Close() error {
	tracker.mu.Lock()
	if tracker.closed {
		tracker.mu.Unlock()
		return nil
	}
	saveErr := tracker.saveLocked()
	tracker.stopLocked(StopShutdown)
	tracker.closed = true
	events := tracker.events
	tracker.events = nil
	tracker.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
	return saveErr
}

func (tracker *SessionTracker) startLocked() {
	if tracker.state == StateTracking {
		return
	}
	now := tracker.clock.Now()
	tracker.state = StateTracking
	tracker.startTime = now
	tracker.armDeadlineLocked()

	stop := make(chan struct{})
	tracker.runStop = stop
	go tracker.run(stop)

	tracker.emitLocked(Event{
		Type:    EventStateChange,
		State:   StateTracking,
		Elapsed: tracker.elapsedLocked(),
		At:      now,
	})
}

func (tracker *SessionTracker) stopLocked(reason StopReason) {
	if tracker.state == StatePaused {
		return
	}
	now := tracker.clock.Now()
	runStart := tracker.startTime
	tracker.sessionTime += now.Sub(tracker.startTime)
	tracker.state = StatePaused
	tracker.clearDeadlineLocked()
	if tracker.runStop != nil {
		close(tracker.runStop)
		tracker.runStop = nil
	}

	tracker.emitLocked(Event{
		Type:     EventRunEnded,
		State:    StatePaused,
		Elapsed:  tracker.sessionTime,
		RunStart: runStart,
		Reason:   reason,
		At:       now,
	})
	tracker.emitLocked(Event{
		Type:    EventStateChange,
		State:   StatePaused,
		Elapsed: tracker.sessionTime,
		At:      now,
	})
}

func (tracker *SessionTracker) saveLocked() error {
	elapsed := tracker.elapsedLocked()
	stats, err := tracker.store.Get(tracker.workspace.Key)
	if err != nil {
		return fmt.Errorf("load workspace stats: %w", err)
	}
	stats.Key = tracker.workspace.Key
	stats.Label = tracker.workspace.Label
	stats.TotalTime += elapsed - tracker.savedMark
	stats.LastSaveAt = tracker.clock.Now()
	if err := tracker.store.Put(stats); err != nil {
		return fmt.Errorf("save workspace stats: %w", err)
	}
	// The mark advances only once the write has landed; a failed save keeps
	// the unsaved delta for the next attempt.
	tracker.savedMark = elapsed
	return nil
}

func (tracker *SessionTracker) elapsedLocked() time.Duration {
	if tracker.state == StateTracking {
		return tracker.sessionTime + tracker.clock.Now().Sub(tracker.startTime)
	}
	return tracker.sessionTime
}

func (tracker *SessionTracker) armDeadlineLocked() {
	if tracker.idleTimer != nil {
		tracker.idleTimer.Stop()
	}
	tracker.idleGen++
	generation := tracker.idleGen
	tracker.idleTimer = time.AfterFunc(tracker.config.InactivityWindow, func() {
		tracker.deadlineExpired(generation)
	})
}

func (tracker *SessionTracker) clearDeadlineLocked() {
	if tracker.idleTimer != nil {
		tracker.idleTimer.Stop()
		tracker.idleTimer = nil
	}
	tracker.idleGen++
}

func (tracker *SessionTracker) deadlineExpired(generation uint64) {
	tracker.mu.Lock()
	if tracker.closed || generation != tracker.idleGen || tracker.state != StateTracking {
		tracker.mu.Unlock()
		return
	}
	tracker.stopLocked(StopIdle)
	tracker.mu.Unlock()
}

func (tracker *SessionTracker) run(stop chan struct{}) {
	ticker := time.NewTicker(tracker.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			tracker.tick()
		}
	}
}

func (tracker *SessionTracker) tick() {
	tracker.mu.Lock()
	if tracker.closed || tracker.state != StateTracking {
		tracker.mu.Unlock()
		return
	}
	tracker.emitLocked(Event{
		Type:    EventProgress,
		State:   tracker.state,
		Elapsed: tracker.elapsedLocked(),
		At:      tracker.clock.Now(),
	})
	tracker.mu.Unlock()
}

func (tracker *SessionTracker) emitLocked(event Event) {
	events := append([]chan Event(nil), tracker.events...)
	for _, ch := range events {
		select {
		case ch <- event:
		default:
		}
	}
}
