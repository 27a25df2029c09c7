package tui

import (
	"strava-yearly/internal/config"
	"strava-yearly/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen identifiers
type Screen int

const (
	ScreenStats Screen = iota
	ScreenSync
	ScreenHelp
)

// App is the root Bubble Tea model
type App struct {
	screen     Screen
	prevScreen Screen

	// Screen models
	stats      StatsModel
	syncScreen SyncModel
	help       HelpModel

	session *service.Session

	// Window dimensions
	width  int
	height int

	// Status message
	status string
}

// NewApp creates a new App with all dependencies
func NewApp(session *service.Session, displayCfg config.DisplayConfig) *App {
	units := NewUnits(displayCfg)

	app := &App{
		screen:     ScreenSync,
		session:    session,
		stats:      NewStatsModel(session, units),
		syncScreen: NewSyncModel(session),
		help:       NewHelpModel(),
	}

	// Land on stats directly when a previous sync already loaded data
	if len(session.Activities()) > 0 {
		app.screen = ScreenStats
	}

	return app
}

// Init initializes the app
func (a *App) Init() tea.Cmd {
	if a.screen == ScreenStats {
		return a.stats.Init()
	}
	return a.syncScreen.Init()
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Global keybindings (unless a sync is running)
		if a.screen != ScreenSync || !a.syncScreen.syncing {
			switch msg.String() {
			case "q", "ctrl+c":
				return a, tea.Quit
			case "1":
				a.screen = ScreenStats
				return a, a.stats.Init()
			case "2":
				if a.screen != ScreenSync {
					a.screen = ScreenSync
					return a, a.syncScreen.Init()
				}
			case "?":
				a.prevScreen = a.screen
				a.screen = ScreenHelp
				return a, nil
			case "esc":
				if a.screen == ScreenHelp {
					a.screen = a.prevScreen
					return a, nil
				}
			case "D":
				if err := a.session.Disconnect(); err != nil {
					a.status = "Disconnect failed: " + err.Error()
					return a, nil
				}
				a.status = "Disconnected. Credentials wiped."
				return a, tea.Quit
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case SyncCompleteMsg:
		// Show the freshly computed stats after a sync
		a.screen = ScreenStats
		return a, a.stats.Init()
	}

	// Delegate to current screen
	var cmd tea.Cmd
	switch a.screen {
	case ScreenStats:
		var m tea.Model
		m, cmd = a.stats.Update(msg)
		a.stats = m.(StatsModel)
	case ScreenSync:
		var m tea.Model
		m, cmd = a.syncScreen.Update(msg)
		a.syncScreen = m.(SyncModel)
	case ScreenHelp:
		var m tea.Model
		m, cmd = a.help.Update(msg)
		a.help = m.(HelpModel)
	}

	return a, cmd
}

// View renders the app
func (a *App) View() string {
	header := headerStyle.Render("Strava Yearly Stats")
	nav := a.renderNav()

	var content string
	switch a.screen {
	case ScreenStats:
		content = a.stats.View()
	case ScreenSync:
		content = a.syncScreen.View()
	case ScreenHelp:
		content = a.help.View()
	}

	footer := ""
	if a.status != "" {
		footer = statusStyle.Render(a.status)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, nav, content, footer)
}

func (a *App) renderNav() string {
	items := []struct {
		key    string
		label  string
		screen Screen
	}{
		{"1", "Stats", ScreenStats},
		{"2", "Sync", ScreenSync},
		{"?", "Help", ScreenHelp},
	}

	var nav string
	for i, item := range items {
		if i > 0 {
			nav += "  "
		}

		label := "[" + item.key + "] " + item.label
		if a.screen == item.screen {
			nav += navActiveStyle.Render(label)
		} else {
			nav += navInactiveStyle.Render(label)
		}
	}

	nav += "  " + navInactiveStyle.Render("[q] Quit")

	return navStyle.Render(nav)
}
