// Package tui is the interactive terminal view of the trip dashboard.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"trip-dashboard/internal/dashboard"
)

// focus targets, cycled with tab
const (
	focusStart = iota
	focusEnd
	focusTable
	focusCount
)

var columnWidths = [9]int{19, 19, 11, 12, 8, 12, 7, 6, 13}

// refreshResultMsg carries the outcome of one refresh cycle
type refreshResultMsg struct {
	vm     *dashboard.ViewModel
	notice string
}

// resultView captures what the controller hands to its view so the outcome
// can be delivered to Update as a message.
type resultView struct {
	msg refreshResultMsg
}

func (v *resultView) Commit(vm *dashboard.ViewModel) { v.msg.vm = vm }
func (v *resultView) Notify(message string)          { v.msg.notice = message }

// Model is the bubbletea model of the dashboard
type Model struct {
	ctx      context.Context
	fetcher  dashboard.Fetcher
	logger   *slog.Logger
	keys     KeyMap
	help     help.Model
	start    textinput.Model
	end      textinput.Model
	table    table.Model
	spinner  spinner.Model
	focus    int
	kpis     dashboard.KPIs
	notice   string
	inFlight int
	showHelp bool
	useColor bool
	quitting bool
}

// New creates the dashboard model. The inputs are prefilled from initial.
func New(ctx context.Context, fetcher dashboard.Fetcher, logger *slog.Logger, initial dashboard.DateRange, noColor bool) Model {
	keys := DefaultKeyMap()

	start := textinput.New()
	start.Placeholder = "start (e.g. 2024-01-01)"
	start.Prompt = "Start: "
	start.CharLimit = 32
	start.SetValue(initial.Start)
	start.Focus()

	end := textinput.New()
	end.Placeholder = "end (e.g. 2024-01-31 23:59)"
	end.Prompt = "End: "
	end.CharLimit = 32
	end.SetValue(initial.End)

	columns := make([]table.Column, len(dashboard.TripColumns))
	for i, title := range dashboard.TripColumns {
		columns[i] = table.Column{Title: title, Width: columnWidths[i]}
	}

	tableKeys := table.DefaultKeyMap()
	tableKeys.LineUp = keys.Up
	tableKeys.LineDown = keys.Down

	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(15),
		table.WithKeyMap(tableKeys),
	)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	useColor := !noColor && isatty.IsTerminal(os.Stdout.Fd())
	if useColor {
		styles := table.DefaultStyles()
		styles.Header = styles.Header.
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			BorderBottom(true).
			Bold(false)
		styles.Selected = styles.Selected.
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Bold(false)
		t.SetStyles(styles)
	}

	h := help.New()
	if !useColor {
		h.Styles = help.Styles{}
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return Model{
		ctx:      ctx,
		fetcher:  fetcher,
		logger:   logger,
		keys:     keys,
		help:     h,
		start:    start,
		end:      end,
		table:    t,
		spinner:  s,
		kpis:     dashboard.EmptyKPIs(),
		inFlight: 1, // Init refresh
		useColor: useColor,
	}
}

// Init starts the first refresh
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.refresh())
}

// DateRange returns the range exactly as typed into the inputs
func (m Model) DateRange() dashboard.DateRange {
	return dashboard.DateRange{Start: m.start.Value(), End: m.end.Value()}
}

// refresh returns a command running one refresh cycle for the current inputs
func (m Model) refresh() tea.Cmd {
	rng := m.DateRange()
	ctx, fetcher, logger := m.ctx, m.fetcher, m.logger
	return func() tea.Msg {
		view := &resultView{}
		_ = dashboard.NewController(fetcher, view, logger).Refresh(ctx, rng)
		return view.msg
	}
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.ForceQuit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Refresh):
			m.inFlight++
			return m, tea.Batch(m.refresh(), m.spinner.Tick)

		case key.Matches(msg, m.keys.NextField):
			return m.setFocus((m.focus + 1) % focusCount), nil

		case key.Matches(msg, m.keys.PrevField):
			return m.setFocus((m.focus + focusCount - 1) % focusCount), nil
		}

		if m.focus == focusTable {
			switch {
			case key.Matches(msg, m.keys.Quit):
				m.quitting = true
				return m, tea.Quit
			case key.Matches(msg, m.keys.Help):
				m.showHelp = !m.showHelp
				return m, nil
			}
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

		if m.focus == focusStart {
			m.start, cmd = m.start.Update(msg)
		} else {
			m.end, cmd = m.end.Update(msg)
		}
		return m, cmd

	case tea.WindowSizeMsg:
		m.table.SetWidth(msg.Width)
		m.help.Width = msg.Width
		if msg.Height > 12 {
			m.table.SetHeight(msg.Height - 10)
		}
		return m, nil

	case refreshResultMsg:
		if m.inFlight > 0 {
			m.inFlight--
		}
		if msg.vm == nil {
			// Previous data stays on screen.
			m.notice = msg.notice
			return m, nil
		}
		m.notice = ""
		m.kpis = msg.vm.KPIs
		rows := make([]table.Row, len(msg.vm.Trips))
		for i, trip := range msg.vm.Trips {
			rows[i] = table.Row(trip[:])
		}
		m.table.SetRows(rows)
		m.table.SetCursor(0)
		return m, nil

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// Cursor blink and other input messages
	m.start, cmd = m.start.Update(msg)
	var endCmd tea.Cmd
	m.end, endCmd = m.end.Update(msg)
	return m, tea.Batch(cmd, endCmd)
}

func (m Model) setFocus(focus int) Model {
	m.focus = focus
	m.start.Blur()
	m.end.Blur()
	m.table.Blur()
	switch focus {
	case focusStart:
		m.start.Focus()
	case focusEnd:
		m.end.Focus()
	case focusTable:
		m.table.Focus()
	}
	return m
}

// Loading reports whether a refresh is in flight
func (m Model) Loading() bool {
	return m.inFlight > 0
}

// Notice returns the current failure notification, if any
func (m Model) Notice() string {
	return m.notice
}

// KPIs returns the KPIs currently displayed
func (m Model) KPIs() dashboard.KPIs {
	return m.kpis
}

// Rows returns the trips table rows currently displayed
func (m Model) Rows() []table.Row {
	return m.table.Rows()
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	kpiStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("82"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func (m Model) style(s lipgloss.Style, text string) string {
	if !m.useColor {
		return text
	}
	return s.Render(text)
}

// View renders the dashboard
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	var b strings.Builder

	b.WriteString(m.style(titleStyle, "NYC Trip Dashboard"))
	b.WriteString("\n\n")
	b.WriteString(m.start.View())
	b.WriteString("   ")
	b.WriteString(m.end.View())
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Trips: %s   Avg speed (km/h): %s   Avg fare per km: %s   Total fare: %s\n\n",
		m.style(kpiStyle, m.kpis.Trips),
		m.style(kpiStyle, m.kpis.AvgSpeedKmh),
		m.style(kpiStyle, m.kpis.AvgFarePerKm),
		m.style(kpiStyle, m.kpis.TotalFare))

	b.WriteString(m.table.View())
	b.WriteString("\n")

	if m.notice != "" {
		b.WriteString(m.style(noticeStyle, "✗ "+m.notice))
		b.WriteString("\n")
	}

	b.WriteString(m.statusLine())

	m.help.ShowAll = m.showHelp
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func (m Model) statusLine() string {
	status := fmt.Sprintf("%d trips", len(m.table.Rows()))
	if m.Loading() {
		status = m.spinner.View() + " Loading..."
	}
	return m.style(statusStyle, status) + "\n"
}
