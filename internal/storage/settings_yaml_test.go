package storage

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worktick/internal/ui/preferences"
)

func redirectConfigDir(t *testing.T) string {
	t.Helper()
	if runtime.GOOS != "linux" {
		t.Skip("settings path redirection relies on XDG_CONFIG_HOME")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return dir
}

func TestLoadSettingsMissingFileReturnsDefaults(t *testing.T) {
	redirectConfigDir(t)

	settings, err := LoadSettings("WorkTickTest")
	require.NoError(t, err)
	assert.Equal(t, preferences.DefaultSettings(), settings)
}

func TestSettingsRoundtrip(t *testing.T) {
	redirectConfigDir(t)

	in := preferences.Settings{
		InactivityWindow: 45 * time.Second,
		RefreshInterval:  2 * time.Second,
		AutosaveInterval: 10 * time.Minute,
		InputActivity:    true,
		RetentionDays:    30,
		Autostart:        true,
		DataDir:          "/tmp/worktick-data",
	}
	require.NoError(t, SaveSettings("WorkTickTest", in))

	out, err := LoadSettings("WorkTickTest")
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestLoadSettingsIgnoresInvalidValues(t *testing.T) {
	dir := redirectConfigDir(t)

	configPath := filepath.Join(dir, "WorkTickTest", settingsFileName)
	require.NoError(t, os.MkdirAll(filepath.Dir(configPath), 0o755))
	raw := "inactivity_window_seconds: -5\nrefresh_interval_seconds: 0\ninput_activity: true\n"
	require.NoError(t, os.WriteFile(configPath, []byte(raw), 0o644))

	settings, err := LoadSettings("WorkTickTest")
	require.NoError(t, err)

	defaults := preferences.DefaultSettings()
	assert.Equal(t, defaults.InactivityWindow, settings.InactivityWindow)
	assert.Equal(t, defaults.RefreshInterval, settings.RefreshInterval)
	assert.True(t, settings.InputActivity)
}

func TestApplyYamlSettingsPartialFile(t *testing.T) {
	settings := preferences.DefaultSettings()
	applyYamlSettings(&settings, yamlSettings{InactivityWindowSeconds: 90})

	assert.Equal(t, 90*time.Second, settings.InactivityWindow)
	assert.Equal(t, preferences.DefaultSettings().AutosaveInterval, settings.AutosaveInterval)
	assert.Equal(t, preferences.DefaultSettings().RetentionDays, settings.RetentionDays)
}
