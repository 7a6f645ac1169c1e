package tracker

import "time"

// State represents the current SessionTracker mode.
type State string

const (
	StateTracking State = "tracking"
	StatePaused   State = "paused"
)

// StopReason records why a tracking run ended.
type StopReason string

const (
	StopIdle     StopReason = "idle"
	StopManual   StopReason = "manual"
	StopShutdown StopReason = "shutdown"
)

// EventType defines the type of SessionTracker event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventProgress    EventType = "progress"
	EventRunEnded    EventType = "run_ended"
)

// Event represents a SessionTracker update for observers.
type Event struct {
	Type    EventType
	State   State
	Elapsed time.Duration

	// RunStart and Reason are set on EventRunEnded; the run closed at At.
	RunStart time.Time
	Reason   StopReason

	At time.Time
}
