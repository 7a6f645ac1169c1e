package platform

import (
	"fmt"
	"os"
)

// Autostart manages launch-at-login registration for the app.
type Autostart struct {
	appName string
}

// NewAutostart returns the autostart manager for appName.
func NewAutostart(appName string) *Autostart {
	return &Autostart{appName: appName}
}

// Apply registers or removes launch-at-login to match enabled.
func (autostart *Autostart) Apply(enabled bool) error {
	if autostart.appName == "" {
		return fmt.Errorf("autostart: app name is empty")
	}
	if !enabled {
		return disableAutostart(autostart.appName)
	}

	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("autostart: resolve executable: %w", err)
	}
	return enableAutostart(autostart.appName, execPath)
}
