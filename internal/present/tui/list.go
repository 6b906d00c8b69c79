package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

const createdWidth = 10

func (m *model) updateRows() {
	rows := make([]table.Row, 0, len(m.view.Documents))
	for _, d := range m.view.Documents {
		name := d.Name
		if name == "" {
			name = "(untitled)"
		}
		rows = append(rows, table.Row{name, d.CreatedAt})
	}
	m.list.SetRows(rows)
}

// columnsFor splits the list width between name and date, dropping the date
// when the pane is too narrow.
func (m *model) columnsFor(width int) []table.Column {
	// Each cell carries one column of padding on both sides.
	nameW := width - createdWidth - 4
	if nameW < 12 {
		return []table.Column{
			{Title: "Name", Width: max(8, width-2)},
			{Title: "", Width: 0},
		}
	}
	return []table.Column{
		{Title: "Name", Width: nameW},
		{Title: "Created", Width: createdWidth},
	}
}

func (m *model) applyStyles() {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	m.list.SetStyles(s)
}
