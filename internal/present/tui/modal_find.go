package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/markpad/internal/util"
)

const findLimit = 8

// findModal fuzzy-matches document names and jumps to the best hit.
type findModal struct {
	query   textinput.Model
	names   []string
	matches []util.Match
	width   int
	padX    int
	padY    int
	box     lipgloss.Style
}

func newFindModal(names []string, termW int) *findModal {
	m := &findModal{names: names, padX: 2, padY: 1}
	m.query = newModalInput("find: ", "document name", "")
	m.query.Focus()
	m.resizeForTerm(termW)
	m.refresh()
	return m
}

func newModalInput(prompt, placeholder, value string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Placeholder = placeholder
	ti.SetValue(value)
	return ti
}

func (m *findModal) resizeForTerm(termW int) {
	m.width = modalWidth(termW, 46, 90)
	m.box = modalBox(m.width, findLimit+3, m.padX, m.padY)
	innerW := max(12, m.width-2-m.padX*2)
	m.query.Width = max(12, innerW-lipgloss.Width(m.query.Prompt))
}

func (m *findModal) refresh() {
	m.matches = util.FindNames(m.query.Value(), m.names, findLimit)
}

// best returns the index of the top match, or -1.
func (m *findModal) best() int {
	if len(m.matches) == 0 {
		return -1
	}
	return m.matches[0].Index
}

func (m *findModal) update(msg tea.Msg) (*findModal, tea.Cmd) {
	if x, ok := msg.(tea.WindowSizeMsg); ok {
		m.resizeForTerm(x.Width)
		return m, nil
	}
	var cmd tea.Cmd
	m.query, cmd = m.query.Update(msg)
	m.refresh()
	return m, cmd
}

func (m *findModal) View() string {
	var b strings.Builder
	b.WriteString(m.query.View())
	b.WriteString("\n\n")
	if len(m.matches) == 0 {
		b.WriteString(lipgloss.NewStyle().Faint(true).Render("no matches"))
	}
	hl := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	for i, hit := range m.matches {
		line := fmt.Sprintf("%3d  %s", hit.Index, hit.Name)
		if i == 0 {
			line = hl.Render(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return m.box.Render(b.String())
}
