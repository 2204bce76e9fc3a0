// Package progress renders a live progress bar on stderr while the
// report's commands run, one unit per completed command.
package progress

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// UnitMsg reports one completed command, whatever its status.
type UnitMsg struct{}

// DoneMsg signals that no more units will arrive. It quits the bar
// even when fewer units than expected were seen, for example after a
// fatal error aborted the run.
type DoneMsg struct{}

// Model is the progress bar state.
type Model struct {
	total int
	done  int
	width int

	quitting bool
}

// New creates a bar expecting total units.
func New(total int) Model {
	return Model{
		total: total,
		width: 80,
	}
}

// Init implements tea.Model. The bar is purely event-driven.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case UnitMsg:
		m.done++
		if m.done >= m.total {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case DoneMsg:
		m.quitting = true
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	}

	return m, nil
}

// View implements tea.Model. The final view is empty so the bar
// leaves no trace once the report is ready.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	ratio := 1.0
	if m.total > 0 {
		ratio = float64(m.done) / float64(m.total)
	}

	label := "Running commands "
	counter := fmt.Sprintf(" %d/%d", m.done, m.total)

	barWidth := m.width - len(label) - len(counter) - 6
	if barWidth > 40 {
		barWidth = 40
	}

	return label + RenderBar(ratio, barWidth) + counter
}

// Done reports how many units the bar has seen.
func (m Model) Done() int {
	return m.done
}

// Pump forwards one UnitMsg per unit received on ch, then signals
// completion once ch closes. Run it in its own goroutine; it returns
// when ch is closed.
func Pump(p *tea.Program, ch <-chan struct{}) {
	for range ch {
		p.Send(UnitMsg{})
	}
	p.Send(DoneMsg{})
}

// Plain prints one "12/40" line per unit to w. It is the fallback when
// progress was asked for but w is not a terminal, such as a pipe into
// a log file. Returns when ch is closed.
func Plain(w io.Writer, total int, ch <-chan struct{}) {
	done := 0
	for range ch {
		done++
		fmt.Fprintf(w, "%d/%d\n", done, total)
	}
}
