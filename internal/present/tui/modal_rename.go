package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// renameModal edits the active document's name.
type renameModal struct {
	name  textinput.Model
	width int
	padX  int
	padY  int
	box   lipgloss.Style
}

func newRenameModal(current string, termW int) *renameModal {
	m := &renameModal{padX: 2, padY: 1}
	m.name = newModalInput("name: ", current, current)
	m.name.Focus()
	m.resizeForTerm(termW)
	return m
}

func (m *renameModal) resizeForTerm(termW int) {
	m.width = modalWidth(termW, 40, 72)
	m.box = modalBox(m.width, 3, m.padX, m.padY)
	innerW := max(12, m.width-2-m.padX*2)
	m.name.Width = max(12, innerW-lipgloss.Width(m.name.Prompt))
}

func (m *renameModal) value() string { return m.name.Value() }

func (m *renameModal) update(msg tea.Msg) (*renameModal, tea.Cmd) {
	if x, ok := msg.(tea.WindowSizeMsg); ok {
		m.resizeForTerm(x.Width)
		return m, nil
	}
	var cmd tea.Cmd
	m.name, cmd = m.name.Update(msg)
	return m, cmd
}

func (m *renameModal) View() string {
	hint := lipgloss.NewStyle().Faint(true).Render("enter=rename • esc=cancel")
	return m.box.Render(m.name.View() + "\n\n" + hint)
}
