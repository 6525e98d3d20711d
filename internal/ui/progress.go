// Package ui draws the analysis progress bar.
package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DefaultDelay is how long analysis runs before the bar is drawn.
const DefaultDelay = 2 * time.Second

// ProgressMsg reports analysis progress to the model.
type ProgressMsg struct {
	Kind      string
	Completed int
	Total     int
}

// revealMsg fires once the render delay has elapsed.
type revealMsg struct{}

// doneMsg stops the program.
type doneMsg struct{}

// Model renders a progress bar that stays hidden until its delay passes.
type Model struct {
	bar       progress.Model
	label     lipgloss.Style
	delay     time.Duration
	visible   bool
	kind      string
	completed int
	total     int
}

// NewModel returns a hidden progress model that becomes visible after delay.
func NewModel(delay time.Duration) Model {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = 40
	return Model{
		bar:     bar,
		label:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		delay:   delay,
		visible: delay <= 0,
	}
}

// Init schedules the reveal.
func (m Model) Init() tea.Cmd {
	if m.visible {
		return nil
	}
	return tea.Tick(m.delay, func(time.Time) tea.Msg { return revealMsg{} })
}

// Update handles progress, reveal and stop messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ProgressMsg:
		m.kind = msg.Kind
		m.completed = msg.Completed
		m.total = msg.Total
		return m, nil
	case revealMsg:
		m.visible = true
		return m, nil
	case doneMsg:
		m.visible = false
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}
	return m, nil
}

// View draws the bar, or nothing while hidden.
func (m Model) View() string {
	if !m.visible || m.total == 0 {
		return ""
	}
	ratio := float64(m.completed) / float64(m.total)
	return fmt.Sprintf("%s %s %d/%d", m.bar.ViewAs(ratio), m.label.Render(m.kind), m.completed, m.total)
}

// Bar runs a Model as a bubbletea program writing to a terminal.
type Bar struct {
	program *tea.Program
	done    chan struct{}
}

// Start launches the progress program on w. Input is not read.
func Start(w io.Writer, delay time.Duration) *Bar {
	b := &Bar{
		program: tea.NewProgram(NewModel(delay), tea.WithOutput(w), tea.WithInput(nil)),
		done:    make(chan struct{}),
	}
	go func() {
		defer close(b.done)
		_, _ = b.program.Run()
	}()
	return b
}

// Report forwards a progress update. It is safe to call from any goroutine.
func (b *Bar) Report(kind string, completed, total int) {
	if b == nil {
		return
	}
	b.program.Send(ProgressMsg{Kind: kind, Completed: completed, Total: total})
}

// Stop clears the bar and waits for the program to exit.
func (b *Bar) Stop() {
	if b == nil {
		return
	}
	b.program.Send(doneMsg{})
	<-b.done
}
