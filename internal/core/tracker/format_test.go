package tracker

import (
	"strings"
	"testing"
	"time"

	"worktick/internal/core/model"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		name string
		in   time.Duration
		want string
	}{
		{"zero", 0, "00:00:00"},
		{"seconds", 59 * time.Second, "00:00:59"},
		{"minute rollover", 60 * time.Second, "00:01:00"},
		{"mixed", 3661 * time.Second, "01:01:01"},
		{"hours unbounded", 360000 * time.Second, "100:00:00"},
		{"subsecond truncated", 1500 * time.Millisecond, "00:00:01"},
		{"negative clamped", -5 * time.Second, "00:00:00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatDuration(tc.in); got != tc.want {
				t.Errorf("FormatDuration(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestStatusText(t *testing.T) {
	if got := StatusText(5 * time.Second); got != "⏱ 00:00:05" {
		t.Errorf("StatusText = %q, want %q", got, "⏱ 00:00:05")
	}
}

func TestSummary(t *testing.T) {
	workspace := model.Workspace{Key: "ws-alpha", Label: "alpha"}
	stats := model.WorkspaceStats{Key: "ws-alpha", Label: "alpha", TotalTime: time.Hour}

	got := Summary(workspace, stats, 10*time.Second, StateTracking)
	want := "Workspace: alpha\n" +
		"Total time: 01:00:00\n" +
		"This session: 00:00:10\n" +
		"Status: Tracking"
	if got != want {
		t.Errorf("Summary =\n%q\nwant\n%q", got, want)
	}

	got = Summary(workspace, stats, 10*time.Second, StatePaused)
	if want := "Status: Paused"; !strings.Contains(got, want) {
		t.Errorf("Expected %q in summary, got %q", want, got)
	}
}
