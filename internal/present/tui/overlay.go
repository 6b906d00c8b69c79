package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// renderOverlay centers fg over the terminal, replacing the base view.
func (m model) renderOverlay(fg string) string {
	termW, termH := m.width, m.height
	if termW <= 0 {
		termW = 80
	}
	if termH <= 0 {
		termH = 24
	}
	return lipgloss.Place(termW, termH, lipgloss.Center, lipgloss.Center, fg,
		lipgloss.WithWhitespaceChars(" "))
}

func modalBox(w, h, padX, padY int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(w).
		Height(h).
		Padding(padY, padX).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63"))
}

// modalWidth picks 60% of the terminal, nearly full width on small terminals.
func modalWidth(termW, lo, hi int) int {
	if termW <= 0 {
		termW = 80
	}
	w := int(float64(termW) * 0.6)
	if termW < 80 {
		w = termW - 4
	}
	if w < lo {
		w = max(lo-4, termW-2)
	}
	if w > hi {
		w = hi
	}
	return w
}
