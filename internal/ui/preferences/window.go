package preferences

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window         fyne.Window
	settings       Settings
	onSave         func(Settings)
	onCancel       func()
	labels         map[string]*widget.Label
	inactivity     *widget.Entry
	refresh        *widget.Entry
	autosave       *widget.Entry
	retention      *widget.Entry
	inputCheck     *widget.Check
	autostartCheck *widget.Check
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("WorkTick Settings")

	inactivity := widget.NewEntry()
	refresh := widget.NewEntry()
	autosave := widget.NewEntry()
	retention := widget.NewEntry()

	inactivity.SetText(fmt.Sprintf("%d", int(settings.InactivityWindow.Seconds())))
	refresh.SetText(fmt.Sprintf("%d", int(settings.RefreshInterval.Seconds())))
	autosave.SetText(fmt.Sprintf("%d", int(settings.AutosaveInterval.Minutes())))
	retention.SetText(fmt.Sprintf("%d", settings.RetentionDays))

	inputCheck := widget.NewCheck("Count keyboard/mouse as activity", nil)
	inputCheck.SetChecked(settings.InputActivity)

	autostartCheck := widget.NewCheck("Launch at login", nil)
	autostartCheck.SetChecked(settings.Autostart)

	labels := map[string]*widget.Label{
		"inactivity": widget.NewLabel("sec"),
		"refresh":    widget.NewLabel("sec"),
		"autosave":   widget.NewLabel("min"),
		"retention":  widget.NewLabel("days"),
	}

	form := container.NewVBox(
		widget.NewLabelWithStyle("Tracking", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Pause after inactivity"), inactivity, labels["inactivity"]),
		container.NewHBox(widget.NewLabel("Refresh timer every"), refresh, labels["refresh"]),
		inputCheck,
		widget.NewLabelWithStyle("Storage", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Autosave every"), autosave, labels["autosave"]),
		container.NewHBox(widget.NewLabel("Keep run history for"), retention, labels["retention"]),
		autostartCheck,
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	content := container.NewBorder(nil, buttons, nil, nil, form)
	window.SetContent(content)
	window.Resize(fyne.NewSize(420, 360))

	prefs := &Window{
		window:         window,
		settings:       settings,
		onSave:         onSave,
		labels:         labels,
		inactivity:     inactivity,
		refresh:        refresh,
		autosave:       autosave,
		retention:      retention,
		inputCheck:     inputCheck,
		autostartCheck: autostartCheck,
	}

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = func() {
		window.Hide()
		if prefs.onCancel != nil {
			prefs.onCancel()
		}
	}

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.inactivity.SetText(fmt.Sprintf("%d", int(settings.InactivityWindow.Seconds())))
	prefs.refresh.SetText(fmt.Sprintf("%d", int(settings.RefreshInterval.Seconds())))
	prefs.autosave.SetText(fmt.Sprintf("%d", int(settings.AutosaveInterval.Minutes())))
	prefs.retention.SetText(fmt.Sprintf("%d", settings.RetentionDays))
	prefs.inputCheck.SetChecked(settings.InputActivity)
	prefs.autostartCheck.SetChecked(settings.Autostart)
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	if seconds, ok := parsePositiveInt(prefs.inactivity.Text); ok {
		settings.InactivityWindow = time.Duration(seconds) * time.Second
	}
	if seconds, ok := parsePositiveInt(prefs.refresh.Text); ok {
		settings.RefreshInterval = time.Duration(seconds) * time.Second
	}
	if minutes, ok := parsePositiveInt(prefs.autosave.Text); ok {
		settings.AutosaveInterval = time.Duration(minutes) * time.Minute
	}
	if days, ok := parsePositiveInt(prefs.retention.Text); ok {
		settings.RetentionDays = days
	}

	settings.InputActivity = prefs.inputCheck.Checked
	settings.Autostart = prefs.autostartCheck.Checked

	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
