package tracker

import (
	"fmt"
	"strings"
	"time"

	"worktick/internal/core/model"
)

// FormatDuration renders a duration as HH:MM:SS. Hours keep growing past two
// digits; negative durations render as zero.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// StatusText is the status indicator line: a fixed prefix plus the elapsed time.
func StatusText(elapsed time.Duration) string {
	return "⏱ " + FormatDuration(elapsed)
}

// StateLabel returns the human label for a tracker mode.
func StateLabel(state State) string {
	if state == StateTracking {
		return "Tracking"
	}
	return "Paused"
}

// Summary renders the multi-line statistics text shown on explicit request.
func Summary(workspace model.Workspace, stats model.WorkspaceStats, elapsed time.Duration, state State) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "Workspace: %s\n", workspace.Label)
	fmt.Fprintf(&builder, "Total time: %s\n", FormatDuration(stats.TotalTime))
	fmt.Fprintf(&builder, "This session: %s\n", FormatDuration(elapsed))
	fmt.Fprintf(&builder, "Status: %s", StateLabel(state))
	return builder.String()
}
