package tui

import (
	"context"
	"fmt"
	"strings"

	"strava-yearly/internal/service"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SyncModel is the sync screen model
type SyncModel struct {
	session *service.Session
	spinner spinner.Model

	syncing bool
	done    bool
	err     error

	page    int
	fetched int
	count   int

	progressCh chan service.SyncProgress
	doneCh     chan syncDoneMsg
}

// NewSyncModel creates a new sync model
func NewSyncModel(session *service.Session) SyncModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(primaryColor)

	return SyncModel{
		session: session,
		spinner: sp,
	}
}

// Init initializes the sync screen
func (m SyncModel) Init() tea.Cmd {
	return nil
}

type syncProgressMsg service.SyncProgress

type syncDoneMsg struct {
	count int
	err   error
}

// SyncCompleteMsg tells the app a sync finished successfully
type SyncCompleteMsg struct{}

// Update handles messages
func (m SyncModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !m.syncing {
			switch msg.String() {
			case "enter", "s":
				return m.startSync()
			}
		}

	case spinner.TickMsg:
		if m.syncing {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case syncProgressMsg:
		m.page = msg.Page
		m.fetched = msg.Fetched
		return m, waitForSync(m.progressCh, m.doneCh)

	case syncDoneMsg:
		m.syncing = false
		m.done = true
		m.count = msg.count
		m.err = msg.err
		if msg.err == nil {
			return m, func() tea.Msg { return SyncCompleteMsg{} }
		}
	}
	return m, nil
}

func (m SyncModel) startSync() (tea.Model, tea.Cmd) {
	m.syncing = true
	m.done = false
	m.err = nil
	m.page = 0
	m.fetched = 0

	// One page at a time, so an unbuffered channel never backs up
	m.progressCh = make(chan service.SyncProgress)
	m.doneCh = make(chan syncDoneMsg, 1)

	progressCh, doneCh := m.progressCh, m.doneCh
	go func() {
		count, err := m.session.Sync(context.Background(), progressCh)
		doneCh <- syncDoneMsg{count: count, err: err}
	}()

	return m, tea.Batch(m.spinner.Tick, waitForSync(progressCh, doneCh))
}

// waitForSync delivers the next page event, or the final result once
// the progress channel closes
func waitForSync(progressCh <-chan service.SyncProgress, doneCh <-chan syncDoneMsg) tea.Cmd {
	return func() tea.Msg {
		if p, ok := <-progressCh; ok {
			return syncProgressMsg(p)
		}
		return <-doneCh
	}
}

// View renders the sync screen
func (m SyncModel) View() string {
	var sections []string

	sections = append(sections, cardTitleStyle.Render("Strava Sync"))

	switch {
	case m.err != nil:
		sections = append(sections, errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err)))
		sections = append(sections, "\n"+statusStyle.Render("  Press 's' or Enter to retry"))

	case m.syncing:
		var lines []string
		lines = append(lines, "")
		lines = append(lines, fmt.Sprintf("  %s Fetching activities...", m.spinner.View()))
		if m.fetched > 0 {
			lines = append(lines, statusStyle.Render(fmt.Sprintf("  Page %d - %d activities so far", m.page, m.fetched)))
		}
		sections = append(sections, strings.Join(lines, "\n"))

	case m.done:
		sections = append(sections, successStyle.Render(fmt.Sprintf("\n  Sync complete! %d activities loaded.", m.count)))
		sections = append(sections, "\n"+statusStyle.Render("  Press '1' to view yearly stats"))

	default:
		sections = append(sections, m.renderStartPrompt())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m SyncModel) renderStartPrompt() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, "  This will fetch your complete Strava activity history.")
	lines = append(lines, "  Activities are held in memory only; each sync replaces")
	lines = append(lines, "  the previous set.")
	lines = append(lines, "")
	lines = append(lines, statusStyle.Render("  Press 's' or Enter to start"))

	return strings.Join(lines, "\n")
}
