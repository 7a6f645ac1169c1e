package model

import "time"

// Workspace identifies the directory whose editing time is tracked.
type Workspace struct {
	Key   string
	Label string
	Root  string
}

// WorkspaceStats is the persisted cumulative record for one workspace.
// A workspace that was never saved reads as the zero record.
type WorkspaceStats struct {
	Key        string
	Label      string
	TotalTime  time.Duration
	LastSaveAt time.Time
}

// RunRecord is one completed tracking run kept in history.
type RunRecord struct {
	ID        string
	Key       string
	StartedAt time.Time
	EndedAt   time.Time
	Duration  time.Duration
	Reason    string
}

// TrackerConfig contains runtime settings for the SessionTracker state machine.
type TrackerConfig struct {
	InactivityWindow time.Duration
}
