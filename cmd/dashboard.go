package main

import (
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"worktick/internal/core/tracker"
	"worktick/internal/maintenance"
	"worktick/internal/storage"
	"worktick/internal/ui/dashboard"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Track with a live terminal dashboard instead of the tray",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard()
	},
}

// liveSource feeds the dashboard from the running tracker and the store.
type liveSource struct {
	tracker *tracker.SessionTracker
	store   *storage.DB
}

func (source *liveSource) Snapshot() (dashboard.Snapshot, error) {
	stats, err := source.tracker.Stats()
	if err != nil {
		return dashboard.Snapshot{}, err
	}
	workspaceIdentity := source.tracker.Workspace()
	runs, err := source.store.History(workspaceIdentity.Key, startOfDay(time.Now()))
	if err != nil {
		return dashboard.Snapshot{}, err
	}
	return dashboard.Snapshot{
		Workspace: workspaceIdentity,
		State:     source.tracker.State(),
		Elapsed:   source.tracker.Elapsed(),
		Total:     stats.TotalTime,
		Runs:      runs,
	}, nil
}

func runDashboard() error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.close()

	// Log lines would draw over the live view.
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))

	stopSources, err := session.startActivitySources(quiet)
	if err != nil {
		return err
	}
	defer stopSources()

	upkeep, err := maintenance.New(session.tracker, session.store, session.settings.AutosaveInterval, session.settings.RetentionDays, quiet)
	if err != nil {
		return err
	}
	upkeep.Start()
	defer upkeep.Close()

	go recordRuns(session.tracker.Subscribe(8), session.workspace.Key, session.store, quiet)

	session.tracker.Start()
	return dashboard.Run(&liveSource{tracker: session.tracker, store: session.store}, session.settings.RefreshInterval)
}
