package main

import (
	"fmt"
	"log/slog"
	"time"

	"worktick/internal/activity"
	"worktick/internal/core/model"
	"worktick/internal/core/tracker"
	"worktick/internal/maintenance"
	"worktick/internal/platform"
	"worktick/internal/storage"
	"worktick/internal/ui/preferences"
	"worktick/internal/ui/tray"
	"worktick/internal/workspace"
	"worktick/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// appSession bundles the tracker with everything it is wired to.
type appSession struct {
	settings  preferences.Settings
	workspace model.Workspace
	guard     *platform.InstanceGuard
	store     *storage.DB
	tracker   *tracker.SessionTracker
	logger    *slog.Logger
}

func openSession() (*appSession, error) {
	logger := newLogger()

	settings, err := storage.LoadSettings(appName)
	if err != nil {
		logger.Warn("load settings, falling back to defaults", "error", err)
	}

	workspaceIdentity, err := resolveIdentity()
	if err != nil {
		return nil, err
	}

	guard, err := platform.AcquireInstance(appName, workspaceIdentity.Key)
	if err != nil {
		return nil, fmt.Errorf("workspace %s: %w", workspaceIdentity.Label, err)
	}

	store, err := openStore(settings)
	if err != nil {
		_ = guard.Release()
		return nil, err
	}

	sessionTracker := tracker.New(workspaceIdentity, store, settings.TrackerConfig(), tracker.Options{
		TickInterval: settings.RefreshInterval,
	})

	return &appSession{
		settings:  settings,
		workspace: workspaceIdentity,
		guard:     guard,
		store:     store,
		tracker:   sessionTracker,
		logger:    logger,
	}, nil
}

// close tears the session down: the tracker performs its final save before
// the store and the instance lock go away.
func (session *appSession) close() {
	if err := session.tracker.Close(); err != nil {
		session.logger.Warn("final save", "error", err)
	}
	if err := session.store.Close(); err != nil {
		session.logger.Warn("close database", "error", err)
	}
	_ = session.guard.Release()
}

// startActivitySources wires the workspace watcher and, when enabled, the OS
// input poller into the tracker. The returned function stops both.
func (session *appSession) startActivitySources(logger *slog.Logger) (func(), error) {
	var stops []func()

	if session.workspace.Root != "" {
		watcher, err := activity.NewWatcher(session.workspace.Root, session.tracker.OnActivity, logger)
		if err != nil {
			return nil, err
		}
		if err := watcher.Start(); err != nil {
			return nil, fmt.Errorf("watch workspace: %w", err)
		}
		stops = append(stops, func() { _ = watcher.Close() })
	}

	if session.settings.InputActivity || trackGlobal {
		poller := activity.NewInputPoller(platform.NewInputProvider().InputIdle, 5*time.Second, session.tracker.OnActivity, logger)
		poller.Start()
		stops = append(stops, poller.Close)
	}

	return func() {
		for _, stop := range stops {
			stop()
		}
	}, nil
}

func runTray() error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.close()
	logger := session.logger
	sessionTracker := session.tracker
	workspaceIdentity := session.workspace

	fyneApp := app.NewWithID("com.worktick.app")
	fyneApp.SetIcon(resources.MustIcon("icon.png"))
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		return fmt.Errorf("system tray unsupported on this platform")
	}

	trayWindow := fyneApp.NewWindow(appName)
	trayWindow.SetContent(widget.NewLabel("WorkTick is running in the system tray."))
	trayWindow.SetCloseIntercept(func() {
		trayWindow.Hide()
	})
	trayWindow.Hide()
	desktopApp.SetSystemTrayWindow(trayWindow)

	stopSources, err := session.startActivitySources(logger)
	if err != nil {
		return err
	}
	defer stopSources()

	upkeep, err := maintenance.New(sessionTracker, session.store, session.settings.AutosaveInterval, session.settings.RetentionDays, logger)
	if err != nil {
		return err
	}
	upkeep.Start()
	defer upkeep.Close()

	autostart := platform.NewAutostart(appName)
	if session.settings.Autostart {
		if err := autostart.Apply(true); err != nil {
			logger.Warn("apply autostart", "error", err)
		}
	}

	prefsWindow := preferences.New(fyneApp, session.settings, func(updated preferences.Settings) {
		session.settings = updated
		sessionTracker.UpdateConfig(updated.TrackerConfig())
		if err := storage.SaveSettings(appName, updated); err != nil {
			logger.Warn("save settings", "error", err)
		}
		if err := autostart.Apply(updated.Autostart); err != nil {
			logger.Warn("apply autostart", "error", err)
		}
	})

	trayManager := tray.New(desktopApp, tray.Callbacks{
		OnShowStats: func() {
			if err := sessionTracker.Save(); err != nil {
				logger.Warn("save before statistics", "error", err)
			}
			stats, err := sessionTracker.Stats()
			if err != nil {
				trayWindow.Show()
				dialog.ShowError(err, trayWindow)
				return
			}
			summary := tracker.Summary(workspaceIdentity, stats, sessionTracker.Elapsed(), sessionTracker.State())
			trayWindow.Show()
			dialog.ShowInformation("WorkTick statistics", summary, trayWindow)
		},
		OnReset: func() {
			trayWindow.Show()
			dialog.ShowConfirm("Reset statistics",
				fmt.Sprintf("Forget all recorded time for %s?", workspaceIdentity.Label),
				func(confirmed bool) {
					if !confirmed {
						return
					}
					if err := sessionTracker.Reset(); err != nil {
						dialog.ShowError(err, trayWindow)
					}
				}, trayWindow)
		},
		OnTogglePause: func() {
			if sessionTracker.State() == tracker.StateTracking {
				sessionTracker.Stop(tracker.StopManual)
			} else {
				sessionTracker.Start()
			}
		},
		OnPreferences: func() {
			prefsWindow.Show()
		},
		OnQuit: func() {
			fyneApp.Quit()
		},
	})
	desktopApp.SetSystemTrayIcon(resources.MustIcon("icon.png"))

	go recordRuns(sessionTracker.Subscribe(8), workspaceIdentity.Key, session.store, logger)

	events := sessionTracker.Subscribe(8)
	go func() {
		for event := range events {
			switch event.Type {
			case tracker.EventProgress:
				status := tracker.StatusText(event.Elapsed)
				fyne.Do(func() {
					trayManager.SetStatus(status)
				})
			case tracker.EventStateChange:
				status := tracker.StatusText(event.Elapsed)
				paused := event.State == tracker.StatePaused
				fyne.Do(func() {
					trayManager.SetPaused(paused)
					trayManager.SetStatus(status)
				})
			}
		}
	}()

	sessionTracker.Start()
	logger.Info("tracking workspace", "workspace", workspaceIdentity.Label, "key", workspaceIdentity.Key)
	fyneApp.Run()
	return nil
}

// recordRuns appends one history row per completed tracking run.
func recordRuns(events <-chan tracker.Event, key string, store *storage.DB, logger *slog.Logger) {
	for event := range events {
		if event.Type != tracker.EventRunEnded {
			continue
		}
		record := model.RunRecord{
			Key:       key,
			StartedAt: event.RunStart,
			EndedAt:   event.At,
			Duration:  event.At.Sub(event.RunStart),
			Reason:    string(event.Reason),
		}
		if err := store.RecordRun(record); err != nil {
			logger.Warn("record run", "error", err)
		}
	}
}

func resolveIdentity() (model.Workspace, error) {
	if trackGlobal {
		return workspace.Global(), nil
	}
	return workspace.Resolve(workDir)
}

func openStore(settings preferences.Settings) (*storage.DB, error) {
	dataDir, err := storage.ResolveDataDir(appName, settings.DataDir)
	if err != nil {
		return nil, err
	}
	return storage.Open(storage.DatabasePath(dataDir))
}

func startOfDay(now time.Time) time.Time {
	year, month, day := now.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, now.Location())
}
