package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"worktick/internal/ui/preferences"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	InactivityWindowSeconds int    `yaml:"inactivity_window_seconds"`
	RefreshIntervalSeconds  int    `yaml:"refresh_interval_seconds"`
	AutosaveIntervalMinutes int    `yaml:"autosave_interval_minutes"`
	InputActivity           bool   `yaml:"input_activity"`
	HistoryRetentionDays    int    `yaml:"history_retention_days"`
	Autostart               bool   `yaml:"autostart"`
	DataDir                 string `yaml:"data_dir"`
}

// LoadSettings reads user preferences from YAML.
// If the config file does not exist, default settings are returned.
func LoadSettings(appName string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return settings, err
	}

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(appName string, settings preferences.Settings) error {
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlSettings{
		InactivityWindowSeconds: int(settings.InactivityWindow / time.Second),
		RefreshIntervalSeconds:  int(settings.RefreshInterval / time.Second),
		AutosaveIntervalMinutes: int(settings.AutosaveInterval / time.Minute),
		InputActivity:           settings.InputActivity,
		HistoryRetentionDays:    settings.RetentionDays,
		Autostart:               settings.Autostart,
		DataDir:                 settings.DataDir,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func resolveConfigPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.InactivityWindowSeconds > 0 {
		settings.InactivityWindow = time.Duration(fileData.InactivityWindowSeconds) * time.Second
	}
	if fileData.RefreshIntervalSeconds > 0 {
		settings.RefreshInterval = time.Duration(fileData.RefreshIntervalSeconds) * time.Second
	}
	if fileData.AutosaveIntervalMinutes > 0 {
		settings.AutosaveInterval = time.Duration(fileData.AutosaveIntervalMinutes) * time.Minute
	}
	if fileData.HistoryRetentionDays > 0 {
		settings.RetentionDays = fileData.HistoryRetentionDays
	}

	settings.InputActivity = fileData.InputActivity
	settings.Autostart = fileData.Autostart
	settings.DataDir = fileData.DataDir
}
