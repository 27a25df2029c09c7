package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// HelpModel is the help screen model
type HelpModel struct{}

// NewHelpModel creates a new help model
func NewHelpModel() HelpModel {
	return HelpModel{}
}

// Init initializes the help screen
func (m HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

type keyHelp struct {
	key  string
	desc string
}

// View renders the help screen
func (m HelpModel) View() string {
	var sections []string

	sections = append(sections, cardTitleStyle.Render("Keyboard Shortcuts"))

	sections = append(sections, m.renderSection("Navigation", []keyHelp{
		{"1", "Yearly stats"},
		{"2 or s", "Sync screen"},
		{"?", "Help (this screen)"},
		{"esc", "Back / close help"},
		{"q", "Quit"},
	}))

	sections = append(sections, m.renderSection("Stats", []keyHelp{
		{"j / k", "Move between sports"},
		{"space", "Toggle sport on/off"},
		{"a / n", "Select all / none"},
		{"m", "Switch metric (distance / time)"},
	}))

	sections = append(sections, m.renderSection("Session", []keyHelp{
		{"D", "Disconnect from Strava (wipes credentials)"},
	}))

	return strings.Join(sections, "\n\n")
}

func (m HelpModel) renderSection(title string, keys []keyHelp) string {
	var lines []string
	lines = append(lines, helpDescStyle.Render("  "+title))
	for _, k := range keys {
		lines = append(lines, "    "+helpKeyStyle.Render(padRight(k.key, 10))+helpDescStyle.Render(k.desc))
	}
	return strings.Join(lines, "\n")
}

func padRight(s string, width int) string {
	for len(s) < width {
		s += " "
	}
	return s
}
