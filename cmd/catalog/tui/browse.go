// Package tui provides the interactive directory browser for the
// catalog usage report.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"catalog/pkg/catalog/analyze"
	"catalog/pkg/catalog/types"
)

// keyMap defines the browser key bindings.
type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	Back  key.Binding
	Quit  key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter", "l", "right"),
		key.WithHelp("enter", "open"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "h", "left", "backspace"),
		key.WithHelp("esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Model is the Bubble Tea model for the directory browser. It walks an
// immutable BrowseIndex; nothing here touches the filesystem.
type Model struct {
	index *analyze.BrowseIndex

	// current is the open directory, "" while on the root list.
	current string
	entries []analyze.BrowseEntry

	// history holds the path and cursor of each parent level.
	history []level

	cursor int
	offset int
	width  int
	height int
}

type level struct {
	path   string
	cursor int
}

// NewModel creates a browser over the given index, starting at the
// root list.
func NewModel(idx *analyze.BrowseIndex) Model {
	return Model{
		index:   idx,
		entries: idx.Roots(),
		width:   80,
		height:  24,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Enter):
			m = m.enter()
		case key.Matches(msg, keys.Back):
			m = m.back()
		}
	}
	return m, nil
}

// enter descends into the highlighted directory.
func (m Model) enter() Model {
	if m.cursor >= len(m.entries) {
		return m
	}
	target := m.entries[m.cursor]
	if !target.IsDir {
		return m
	}
	children := m.index.ChildrenFor(target.Path)
	if len(children) == 0 {
		return m
	}

	m.history = append(m.history, level{path: m.current, cursor: m.cursor})
	m.current = target.Path
	m.entries = children
	m.cursor = 0
	m.offset = 0
	return m
}

// back pops one level off the history, restoring the cursor.
func (m Model) back() Model {
	if len(m.history) == 0 {
		return m
	}
	last := m.history[len(m.history)-1]
	m.history = m.history[:len(m.history)-1]

	m.current = last.path
	if m.current == "" {
		m.entries = m.index.Roots()
	} else {
		m.entries = m.index.ChildrenFor(m.current)
	}
	m.cursor = last.cursor
	if m.cursor >= len(m.entries) {
		m.cursor = len(m.entries) - 1
	}
	m.offset = 0
	return m
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	title := "All roots"
	var total int64
	if m.current != "" {
		title = m.current
		total = m.index.TotalFor(m.current)
	} else {
		for _, e := range m.entries {
			total += e.Size
		}
	}
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s  (%s)", title, types.FormatSize(total))))
	b.WriteString("\n\n")

	visible := m.height - 5
	if visible < 1 {
		visible = 1
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	} else if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}

	if len(m.entries) == 0 {
		b.WriteString(mutedStyle.Render("  (empty)"))
		b.WriteString("\n")
	}
	for i := m.offset; i < m.offset+visible && i < len(m.entries); i++ {
		b.WriteString(m.renderRow(m.entries[i], total, i == m.cursor))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ move · enter open · esc back · q quit"))
	return b.String()
}

// renderRow renders one entry with a usage bar proportional to the
// level total.
func (m Model) renderRow(e analyze.BrowseEntry, total int64, highlighted bool) string {
	name := baseName(e.Path)
	if e.IsDir {
		name += "/"
	}

	barWidth := 20
	filled := 0
	if total > 0 {
		filled = int(float64(barWidth) * float64(e.Size) / float64(total))
	}
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	row := fmt.Sprintf("  %-10s %s  %s", types.FormatSize(e.Size), bar, name)
	if highlighted {
		return highlightStyle.Width(m.width).Render(row)
	}
	if e.IsDir {
		return dirStyle.Render(row)
	}
	return fileStyle.Render(row)
}

// baseName returns the last path component without importing
// path/filepath semantics for display.
func baseName(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 && i < len(path)-1 {
		return path[i+1:]
	}
	return path
}

// Browse runs the browser until the user quits.
func Browse(idx *analyze.BrowseIndex) error {
	p := tea.NewProgram(NewModel(idx), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00AAFF"))

	highlightStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#4A2040")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true)

	dirStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC"))
	fileStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)
