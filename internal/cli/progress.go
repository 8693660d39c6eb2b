package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// ProgressSpinner shows a spinner on stderr while a refresh is in flight
type ProgressSpinner struct {
	message string
	enabled bool
	program *tea.Program
	done    chan struct{}
}

// NewProgressSpinner creates a new progress spinner. It stays silent when
// stderr is not a terminal, colors are disabled or CI is set.
func NewProgressSpinner(message string, noColor bool) *ProgressSpinner {
	enabled := !noColor && os.Getenv("CI") == "" && isatty.IsTerminal(os.Stderr.Fd())
	return &ProgressSpinner{
		message: message,
		enabled: enabled,
	}
}

// Start begins the spinner in a goroutine
func (p *ProgressSpinner) Start() {
	if !p.enabled {
		return
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))

	model := spinnerModel{
		spinner: s,
		message: p.message,
		style:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}

	p.program = tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithInput(nil))
	p.done = make(chan struct{})
	go func() {
		defer close(p.done)
		_, _ = p.program.Run()
	}()
}

// Stop stops the spinner and waits for it to clear its line
func (p *ProgressSpinner) Stop() {
	if p.program == nil {
		return
	}
	p.program.Send(stopSpinnerMsg{})
	<-p.done
	p.program = nil
}

type stopSpinnerMsg struct{}

type spinnerModel struct {
	spinner  spinner.Model
	message  string
	style    lipgloss.Style
	quitting bool
}

func (s spinnerModel) Init() tea.Cmd {
	return s.spinner.Tick
}

func (s spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case stopSpinnerMsg:
		s.quitting = true
		return s, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s spinnerModel) View() string {
	if s.quitting {
		return ""
	}
	return fmt.Sprintf("%s %s", s.spinner.View(), s.style.Render(s.message))
}
