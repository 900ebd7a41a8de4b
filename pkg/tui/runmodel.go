package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jaspreet-dot-casa/proxmox-postinstall/pkg/pipeline"
)

// progressMsg wraps a pipeline.ProgressEvent for Bubble Tea.
type progressMsg pipeline.ProgressEvent

// runCompleteMsg is sent when the pipeline finishes.
type runCompleteMsg struct {
	summary *pipeline.Summary
}

// runModel displays live pipeline progress.
type runModel struct {
	runner *pipeline.Runner

	spinner      spinner.Model
	events       []pipeline.ProgressEvent
	progressChan chan pipeline.ProgressEvent
	summary      *pipeline.Summary
	currentStep  string
	done         bool
	quitting     bool
}

// RunPipeline executes the runner inside a Bubble Tea program and returns the
// summary once the pipeline is done.
func RunPipeline(steps []pipeline.Step) (*pipeline.Summary, error) {
	ch := make(chan pipeline.ProgressEvent, 100)
	m := runModel{
		spinner:      newSpinner(),
		progressChan: ch,
	}
	m.runner = pipeline.NewRunner(steps, func(e pipeline.ProgressEvent) {
		ch <- e
	})

	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return nil, err
	}
	return final.(runModel).summary, nil
}

func newSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	return s
}

func (m runModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.startRun(),
		m.waitForProgress(),
	)
}

func (m runModel) startRun() tea.Cmd {
	return func() tea.Msg {
		summary := m.runner.Run()
		close(m.progressChan)
		return runCompleteMsg{summary: summary}
	}
}

func (m runModel) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		event, ok := <-m.progressChan
		if !ok {
			return nil
		}
		return progressMsg(event)
	}
}

func (m runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.done {
				return m, tea.Quit
			}
			// the pipeline has no cancellation; ignore until done
			return m, nil
		case "enter":
			if m.done {
				return m, tea.Quit
			}
		}

	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case progressMsg:
		e := pipeline.ProgressEvent(msg)
		if e.Starting {
			m.currentStep = e.Title
		}
		m.events = append(m.events, e)
		return m, m.waitForProgress()

	case runCompleteMsg:
		m.done = true
		m.summary = msg.summary
		return m, tea.Quit
	}

	return m, nil
}

func (m runModel) View() string {
	var s strings.Builder

	s.WriteString("\n")
	s.WriteString(TitleStyle.Render(" Proxmox VE post-install "))
	s.WriteString("\n\n")

	for _, e := range m.events {
		if e.Result == nil {
			continue
		}
		s.WriteString("  ")
		s.WriteString(RenderResult(*e.Result))
		s.WriteString("\n")
	}

	if !m.done && m.currentStep != "" {
		s.WriteString("  ")
		s.WriteString(m.spinner.View())
		s.WriteString(InfoStyle.Render(m.currentStep))
		s.WriteString("\n")
	}

	return s.String()
}

// RenderResult renders one action result with its status glyph.
func RenderResult(r pipeline.Result) string {
	switch r.Status {
	case pipeline.StatusOK:
		return SuccessStyle.Render("✓ ") + r.Message
	case pipeline.StatusSkipped:
		return SkippedStyle.Render("○ " + r.Message)
	case pipeline.StatusWarning:
		return WarningStyle.Render("! ") + r.Message
	case pipeline.StatusFatal:
		return ErrorStyle.Render("✗ ") + r.Message
	default:
		return r.Message
	}
}
