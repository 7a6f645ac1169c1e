package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"worktick/internal/core/model"
	"worktick/internal/core/tracker"
)

// Snapshot is one refresh of everything the dashboard renders.
type Snapshot struct {
	Workspace model.Workspace
	State     tracker.State
	Elapsed   time.Duration
	Total     time.Duration
	Runs      []model.RunRecord
}

// Source supplies a fresh snapshot per display tick.
type Source interface {
	Snapshot() (Snapshot, error)
}

type tickMsg time.Time

// Model is the bubbletea model behind the terminal dashboard.
type Model struct {
	source   Source
	snapshot Snapshot
	interval time.Duration
	err      error
}

// NewModel builds a dashboard model refreshing at the given interval.
func NewModel(source Source, interval time.Duration) Model {
	if interval <= 0 {
		interval = time.Second
	}
	dash := Model{source: source, interval: interval}
	dash.refresh()
	return dash
}

func (dash Model) Init() tea.Cmd {
	return dash.tickCmd()
}

func (dash Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return dash, tea.Quit
		}

	case tickMsg:
		dash.refresh()
		return dash, dash.tickCmd()
	}

	return dash, nil
}

func (dash Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245"))

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("WorkTick - %s", dash.snapshot.Workspace.Label)))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Status:   "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%s (%s)",
		tracker.StatusText(dash.snapshot.Elapsed), tracker.StateLabel(dash.snapshot.State))))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Session:  "))
	b.WriteString(valueStyle.Render(tracker.FormatDuration(dash.snapshot.Elapsed)))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Total:    "))
	b.WriteString(valueStyle.Render(tracker.FormatDuration(dash.snapshot.Total)))
	b.WriteString("\n\n")

	b.WriteString(titleStyle.Render("Today's runs"))
	b.WriteString("\n")
	b.WriteString(dash.renderRuns(labelStyle, valueStyle))
	b.WriteString("\n")

	if dash.err != nil {
		b.WriteString(labelStyle.Render(fmt.Sprintf("refresh error: %v", dash.err)))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("q/esc: quit"))

	return b.String()
}

func (dash Model) renderRuns(labelStyle, valueStyle lipgloss.Style) string {
	if len(dash.snapshot.Runs) == 0 {
		return labelStyle.Render("  (none yet)") + "\n"
	}

	var b strings.Builder
	for _, run := range dash.snapshot.Runs {
		line := fmt.Sprintf("  %s - %s  %s  %s",
			run.StartedAt.Format("15:04"),
			run.EndedAt.Format("15:04"),
			tracker.FormatDuration(run.Duration),
			run.Reason)
		b.WriteString(valueStyle.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func (dash *Model) refresh() {
	snapshot, err := dash.source.Snapshot()
	if err != nil {
		dash.err = err
		return
	}
	dash.snapshot = snapshot
	dash.err = nil
}

func (dash Model) tickCmd() tea.Cmd {
	return tea.Tick(dash.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Run blocks displaying the dashboard until the user quits.
func Run(source Source, interval time.Duration) error {
	program := tea.NewProgram(NewModel(source, interval), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run dashboard: %w", err)
	}
	return nil
}
