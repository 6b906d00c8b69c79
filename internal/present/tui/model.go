package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/markpad/internal/session"
)

type pane int

const (
	paneList pane = iota
	paneEditor
	panePreview
	paneCount
)

// Options tunes the interactive editor.
type Options struct {
	PreviewStyle string // glamour style name
	PreviewWidth int    // max word wrap; 0 wraps to the pane
}

// Run opens the interactive editor over sess until the user quits.
func Run(ctx context.Context, sess *session.Session, opts Options) error {
	m := newModel(ctx, sess, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

type model struct {
	ctx  context.Context
	sess *session.Session
	view session.View

	list    table.Model
	editor  textarea.Model
	preview *preview
	focus   pane

	rename        *renameModal
	find          *findModal
	confirmDelete bool

	width  int
	height int
	listW  int
	status string
}

func newModel(ctx context.Context, sess *session.Session, opts Options) model {
	m := model{
		ctx:     ctx,
		sess:    sess,
		preview: newPreview(opts.PreviewStyle, opts.PreviewWidth),
	}
	m.list = table.New(table.WithColumns(m.columnsFor(24)))
	m.applyStyles()

	m.editor = textarea.New()
	m.editor.Placeholder = "Start writing markdown…"
	m.editor.ShowLineNumbers = false
	m.editor.CharLimit = 0
	m.editor.MaxHeight = 0

	m.resize(80, 24)
	m.apply(sess.View())
	m.setFocus(paneList)
	return m
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		if m.rename != nil {
			m.rename.resizeForTerm(msg.Width)
		}
		if m.find != nil {
			m.find.resizeForTerm(msg.Width)
		}
		return m, nil
	case tea.KeyMsg:
		switch {
		case m.rename != nil:
			return m.updateRename(msg)
		case m.find != nil:
			return m.updateFind(msg)
		case m.confirmDelete:
			return m.updateConfirmDelete(msg)
		}
		switch msg.String() {
		case "ctrl+c", "ctrl+q":
			return m, tea.Quit
		case "esc":
			if m.focus == paneList {
				return m, tea.Quit
			}
			m.setFocus(paneList)
			return m, nil
		case "ctrl+n":
			m.dispatch(session.Create{}, "Created new document")
			m.setFocus(paneEditor)
			return m, nil
		case "ctrl+s":
			m.dispatch(session.Save{}, "Saved "+m.view.ActiveName)
			return m, nil
		case "ctrl+d":
			m.confirmDelete = true
			m.status = fmt.Sprintf("Delete %s? (y/N)", m.view.ActiveName)
			return m, nil
		case "ctrl+r":
			m.rename = newRenameModal(m.view.ActiveName, m.width)
			return m, nil
		case "ctrl+f":
			names := make([]string, len(m.view.Documents))
			for i, d := range m.view.Documents {
				names[i] = d.Name
			}
			m.find = newFindModal(names, m.width)
			return m, nil
		case "ctrl+p":
			m.preview.toggle()
			m.status = "Preview: " + m.preview.mode.String()
			return m, nil
		case "tab":
			m.setFocus((m.focus + 1) % paneCount)
			return m, nil
		case "shift+tab":
			m.setFocus((m.focus + paneCount - 1) % paneCount)
			return m, nil
		}
	}
	return m.updateFocused(msg)
}

func (m model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case paneList:
		if k, ok := msg.(tea.KeyMsg); ok && k.String() == "q" {
			return m, tea.Quit
		}
		before := m.list.Cursor()
		m.list, cmd = m.list.Update(msg)
		if cur := m.list.Cursor(); cur != before {
			m.selectDocument(cur)
		}
	case paneEditor:
		m.editor, cmd = m.editor.Update(msg)
		if text := m.editor.Value(); text != m.view.Buffer {
			m.dispatch(session.Edit{Text: text}, "")
		}
	case panePreview:
		m.preview.vp, cmd = m.preview.vp.Update(msg)
	}
	return m, cmd
}

func (m model) updateRename(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "esc":
		m.rename = nil
		m.status = "Rename cancelled"
		return m, nil
	case "enter":
		name := m.rename.value()
		m.rename = nil
		m.dispatch(session.Rename{Name: name}, "Renamed to "+name)
		return m, nil
	}
	var cmd tea.Cmd
	m.rename, cmd = m.rename.update(k)
	return m, cmd
}

func (m model) updateFind(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "esc":
		m.find = nil
		return m, nil
	case "enter":
		idx := m.find.best()
		m.find = nil
		if idx >= 0 {
			m.selectDocument(idx)
		} else {
			m.status = "No match"
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.find, cmd = m.find.update(k)
	return m, cmd
}

func (m model) updateConfirmDelete(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.confirmDelete = false
	if k.String() == "y" || k.String() == "Y" {
		name := m.view.ActiveName
		m.dispatch(session.Delete{}, "Deleted "+name)
		return m, nil
	}
	m.status = "Delete cancelled"
	return m, nil
}

// selectDocument switches documents; unsaved edits are dropped.
func (m *model) selectDocument(idx int) {
	dirty := m.view.Dirty
	m.dispatch(session.Select{Index: idx}, "")
	if m.status == "" {
		m.status = "Opened " + m.view.ActiveName
		if dirty {
			m.status += " (unsaved changes discarded)"
		}
	}
}

// dispatch runs one intent and mirrors the resulting view into the widgets.
func (m *model) dispatch(in session.Intent, okStatus string) {
	v, err := m.sess.Dispatch(m.ctx, in)
	m.apply(v)
	if err != nil {
		m.status = "Error: " + err.Error()
		return
	}
	m.status = okStatus
}

func (m *model) apply(v session.View) {
	m.view = v
	m.updateRows()
	m.list.SetCursor(v.ActiveIndex)
	if m.editor.Value() != v.Buffer {
		m.editor.SetValue(v.Buffer)
	}
	m.preview.set(v.Buffer, v.HTML)
}

func (m *model) setFocus(p pane) {
	m.focus = p
	m.list.Blur()
	m.editor.Blur()
	switch p {
	case paneList:
		m.list.Focus()
	case paneEditor:
		m.editor.Focus()
	}
}

func (m *model) resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	m.width, m.height = w, h
	// Footer line plus top and bottom borders.
	innerH := max(3, h-3)
	m.listW = min(36, max(18, w/4))
	// Three panes, two border columns each.
	rest := max(20, w-m.listW-6)
	editW := rest / 2

	m.list.SetWidth(m.listW)
	m.list.SetHeight(innerH)
	m.list.SetColumns(m.columnsFor(m.listW))
	m.editor.SetWidth(editW)
	m.editor.SetHeight(innerH)
	m.preview.resize(rest-editW, innerH)
}

func (m model) paneStyle(p pane) lipgloss.Style {
	color := lipgloss.Color("240")
	if m.focus == p {
		color = lipgloss.Color("63")
	}
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(color)
}

func (m model) renderFooter() string {
	left := "tab=focus • ctrl+n new • ctrl+s save • ctrl+r rename • ctrl+d delete • ctrl+f find • ctrl+p preview • ctrl+q quit"

	var right string
	if m.status != "" {
		right = m.status + " • "
	}
	if m.view.Dirty {
		right += "modified • "
	}
	right += fmt.Sprintf("%d documents ", len(m.view.Documents))

	space := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if space < 1 {
		// Narrow terminal: status wins over the key help.
		return right
	}
	return left + strings.Repeat(" ", space) + right
}

func (m model) View() string {
	switch {
	case m.rename != nil:
		return m.renderOverlay(m.rename.View())
	case m.find != nil:
		return m.renderOverlay(m.find.View())
	}
	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		m.paneStyle(paneList).Render(m.list.View()),
		m.paneStyle(paneEditor).Render(m.editor.View()),
		m.paneStyle(panePreview).Render(m.preview.View()),
	)
	return panes + "\n" + m.renderFooter()
}
