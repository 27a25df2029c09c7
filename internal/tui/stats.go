package tui

import (
	"fmt"
	"strings"

	"strava-yearly/internal/service"
	"strava-yearly/internal/stats"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// Metric selects what the yearly charts plot
type Metric int

const (
	MetricDistance Metric = iota
	MetricMovingTime
)

// StatsModel is the yearly stats screen: sport filter toggles on the
// left, one chart per selected sport. Everything renders from the
// session's in-memory set; toggling filters never re-fetches.
type StatsModel struct {
	session *service.Session
	units   Units

	sports   []string
	selected map[string]bool
	cursor   int
	metric   Metric
}

// NewStatsModel creates a new stats model
func NewStatsModel(session *service.Session, units Units) StatsModel {
	return StatsModel{
		session:  session,
		units:    units,
		selected: make(map[string]bool),
		metric:   MetricDistance,
	}
}

// Init initializes the stats screen
func (m StatsModel) Init() tea.Cmd {
	return func() tea.Msg { return sportsRefreshMsg{} }
}

type sportsRefreshMsg struct{}

// Update handles messages
func (m StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case sportsRefreshMsg:
		m.sports = m.session.Sports()
		// Newly seen sports start selected; existing toggles survive
		for _, sport := range m.sports {
			if _, ok := m.selected[sport]; !ok {
				m.selected[sport] = true
			}
		}
		if m.cursor >= len(m.sports) {
			m.cursor = 0
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.sports)-1 {
				m.cursor++
			}
		case " ":
			if m.cursor < len(m.sports) {
				sport := m.sports[m.cursor]
				m.selected[sport] = !m.selected[sport]
			}
		case "a":
			for _, sport := range m.sports {
				m.selected[sport] = true
			}
		case "n":
			for _, sport := range m.sports {
				m.selected[sport] = false
			}
		case "m":
			if m.metric == MetricDistance {
				m.metric = MetricMovingTime
			} else {
				m.metric = MetricDistance
			}
		}
	}
	return m, nil
}

// View renders the stats screen
func (m StatsModel) View() string {
	if len(m.sports) == 0 {
		return "\n  No activities loaded. Press '2' to sync with Strava."
	}

	filters := m.renderFilters()
	charts := m.renderCharts()

	body := lipgloss.JoinHorizontal(lipgloss.Top, filters, "   ", charts)

	hint := statusStyle.Render("  j/k: move  space: toggle sport  a/n: all/none  m: metric")
	return lipgloss.JoinVertical(lipgloss.Left, body, hint)
}

func (m StatsModel) renderFilters() string {
	var lines []string
	lines = append(lines, cardTitleStyle.Render("Sports"))

	for i, sport := range m.sports {
		check := "[ ]"
		if m.selected[sport] {
			check = "[x]"
		}

		line := fmt.Sprintf("%s %s", check, sport)
		switch {
		case i == m.cursor:
			line = sportCursorStyle.Render("> " + line)
		case m.selected[sport]:
			line = "  " + sportSelectedStyle.Render(line)
		default:
			line = "  " + line
		}
		lines = append(lines, line)
	}

	lines = append(lines, "")
	lines = append(lines, m.renderSummary())

	return strings.Join(lines, "\n")
}

// renderSummary shows totals across the selected sports
func (m StatsModel) renderSummary() string {
	var distance float64
	var movingTime int

	for _, sys := range m.filteredStats() {
		for _, y := range sys.Yearly {
			distance += y.Distance
			movingTime += y.MovingTime
		}
	}

	var lines []string
	lines = append(lines, cardTitleStyle.Render("Totals"))
	lines = append(lines, tileLabelStyle.Render("Distance")+tileValueStyle.Render(m.units.FormatDistance(distance)))
	lines = append(lines, tileLabelStyle.Render("Moving time")+tileValueStyle.Render(m.units.FormatHours(movingTime)))

	return strings.Join(lines, "\n")
}

func (m StatsModel) renderCharts() string {
	filtered := m.filteredStats()
	if len(filtered) == 0 {
		return statusStyle.Render("No sports selected.")
	}

	metricLabel := "Distance (" + m.units.DistanceLabel() + ")"
	if m.metric == MetricMovingTime {
		metricLabel = "Moving time (h)"
	}

	var sections []string
	for _, sys := range filtered {
		title := cardTitleStyle.Render(fmt.Sprintf("%s - %s by year", sys.Sport, metricLabel))

		data := make([]float64, len(sys.Yearly))
		var years []string
		for i, y := range sys.Yearly {
			if m.metric == MetricDistance {
				data[i] = m.units.DistanceValue(y.Distance)
			} else {
				data[i] = m.units.HoursValue(y.MovingTime)
			}
			years = append(years, fmt.Sprintf("%d", y.Year))
		}

		var chart string
		if len(data) == 1 {
			// asciigraph needs at least two points to draw a line
			chart = fmt.Sprintf("  %s: %.1f", years[0], data[0])
		} else {
			chart = asciigraph.Plot(data,
				asciigraph.Height(6),
				asciigraph.Width(50),
				asciigraph.Precision(1),
			)
			chart += "\n  " + strings.Join(years, "  ")
		}

		sections = append(sections, title+"\n"+chart)
	}

	return strings.Join(sections, "\n\n")
}

// filteredStats returns stats for the selected sports only, keeping
// first-occurrence order
func (m StatsModel) filteredStats() []stats.SportYearlyStats {
	all := m.session.SportYearlyStats()

	var filtered []stats.SportYearlyStats
	for _, sys := range all {
		if m.selected[sys.Sport] {
			filtered = append(filtered, sys)
		}
	}
	return filtered
}
