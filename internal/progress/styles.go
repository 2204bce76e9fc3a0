package progress

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorPrimary = lipgloss.Color("#7C3AED") // Purple
	colorBorder  = lipgloss.Color("#374151") // Border gray
	colorText    = lipgloss.Color("#E5E7EB") // Light gray

	barFilledStyle = lipgloss.NewStyle().
			Foreground(colorPrimary)

	barEmptyStyle = lipgloss.NewStyle().
			Foreground(colorBorder)

	percentStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true)
)

// RenderBar renders a progress bar with a trailing percentage.
func RenderBar(ratio float64, width int) string {
	if width < 10 {
		width = 10
	}

	filled := int(ratio * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := barFilledStyle.Render(repeatChar('█', filled)) +
		barEmptyStyle.Render(repeatChar('░', width-filled))

	percent := percentStyle.Render(fmt.Sprintf(" %3.0f%%", ratio*100))

	return bar + percent
}

func repeatChar(char rune, count int) string {
	if count <= 0 {
		return ""
	}
	result := make([]rune, count)
	for i := range result {
		result[i] = char
	}
	return string(result)
}
