package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShowStats   func()
	OnReset       func()
	OnTogglePause func()
	OnPreferences func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app         desktop.App
	statusItem  *fyne.MenuItem
	statsItem   *fyne.MenuItem
	resetItem   *fyne.MenuItem
	pauseItem   *fyne.MenuItem
	prefsItem   *fyne.MenuItem
	quitItem    *fyne.MenuItem
	callbacks   Callbacks
	paused      bool
	statusLabel string
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:         app,
		callbacks:   callbacks,
		statusLabel: "starting...",
	}

	manager.statusItem = fyne.NewMenuItem("starting...", nil)
	manager.statusItem.Disabled = true

	manager.statsItem = fyne.NewMenuItem("Show statistics", func() {
		if manager.callbacks.OnShowStats != nil {
			manager.callbacks.OnShowStats()
		}
	})

	manager.resetItem = fyne.NewMenuItem("Reset statistics...", func() {
		if manager.callbacks.OnReset != nil {
			manager.callbacks.OnReset()
		}
	})

	manager.pauseItem = fyne.NewMenuItem("Pause tracking", func() {
		if manager.callbacks.OnTogglePause != nil {
			manager.callbacks.OnTogglePause()
		}
	})

	manager.prefsItem = fyne.NewMenuItem("Preferences", func() {
		if manager.callbacks.OnPreferences != nil {
			manager.callbacks.OnPreferences()
		}
	})

	manager.quitItem = fyne.NewMenuItem("Quit", func() {
		if manager.callbacks.OnQuit != nil {
			manager.callbacks.OnQuit()
		}
	})

	app.SetSystemTrayMenu(manager.buildMenu())
	return manager
}

// SetStatus updates the timer line shown at the top of the menu.
func (manager *Manager) SetStatus(status string) {
	manager.statusLabel = status
	manager.refreshStatus()
}

// SetPaused updates pause state and the toggle label.
func (manager *Manager) SetPaused(paused bool) {
	manager.paused = paused
	if paused {
		manager.pauseItem.Label = "Resume tracking"
	} else {
		manager.pauseItem.Label = "Pause tracking"
	}
	manager.refreshStatus()
}

func (manager *Manager) refreshStatus() {
	status := manager.statusLabel
	if manager.paused {
		status = fmt.Sprintf("%s (paused)", status)
	}
	manager.statusItem.Label = status
	manager.refreshMenu()
}

func (manager *Manager) buildMenu() *fyne.Menu {
	return fyne.NewMenu("WorkTick",
		manager.statusItem,
		manager.statsItem,
		manager.resetItem,
		manager.pauseItem,
		manager.prefsItem,
		manager.quitItem,
	)
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(manager.buildMenu())
	}
}
