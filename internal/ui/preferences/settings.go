package preferences

import (
	"time"

	"worktick/internal/core/model"
)

// Settings defines editable user preferences.
type Settings struct {
	InactivityWindow time.Duration
	RefreshInterval  time.Duration
	AutosaveInterval time.Duration
	InputActivity    bool
	RetentionDays    int
	Autostart        bool
	DataDir          string
}

// DefaultSettings returns default settings for WorkTick.
func DefaultSettings() Settings {
	return Settings{
		InactivityWindow: 20 * time.Second,
		RefreshInterval:  time.Second,
		AutosaveInterval: 5 * time.Minute,
		InputActivity:    false,
		RetentionDays:    90,
		Autostart:        false,
	}
}

// TrackerConfig converts settings to the state machine configuration.
func (settings Settings) TrackerConfig() model.TrackerConfig {
	return model.TrackerConfig{
		InactivityWindow: settings.InactivityWindow,
	}
}
