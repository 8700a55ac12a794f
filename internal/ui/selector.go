package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// SelectKeyMap defines keybindings for the multi-select list.
type SelectKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Toggle    key.Binding
	ToggleAll key.Binding
	Confirm   key.Binding
	Cancel    key.Binding
}

// DefaultSelectKeyMap returns the default keybindings.
func DefaultSelectKeyMap() SelectKeyMap {
	return SelectKeyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:    key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
		ToggleAll: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all/none")),
		Confirm:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Cancel:    key.NewBinding(key.WithKeys("esc", "q", "ctrl+c"), key.WithHelp("esc", "cancel")),
	}
}

// SelectModel is a scrollable multi-select list. Every item starts
// selected.
type SelectModel struct {
	Title     string
	Items     []string
	selected  []bool
	cursor    int
	offset    int
	height    int
	confirmed bool
	canceled  bool
	keys      SelectKeyMap
}

// NewSelect creates a list with all items preselected.
func NewSelect(title string, items []string) SelectModel {
	selected := make([]bool, len(items))
	for i := range selected {
		selected[i] = true
	}
	return SelectModel{
		Title:    title,
		Items:    items,
		selected: selected,
		height:   20,
		keys:     DefaultSelectKeyMap(),
	}
}

// Init implements tea.Model.
func (m SelectModel) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m SelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Title, blank line, footer and counter take four rows.
		m.height = max(msg.Height-4, 3)
		m.ensureVisible()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.canceled = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Confirm):
			m.confirmed = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.Items)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Toggle):
			if m.cursor < len(m.selected) {
				m.selected[m.cursor] = !m.selected[m.cursor]
			}
		case key.Matches(msg, m.keys.ToggleAll):
			all := m.countSelected() < len(m.selected)
			for i := range m.selected {
				m.selected[i] = all
			}
		}
		m.ensureVisible()
	}
	return m, nil
}

func (m *SelectModel) ensureVisible() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m SelectModel) countSelected() int {
	n := 0
	for _, s := range m.selected {
		if s {
			n++
		}
	}
	return n
}

// View implements tea.Model.
func (m SelectModel) View() string {
	if m.confirmed || m.canceled {
		return ""
	}
	var b strings.Builder
	b.WriteString(TitleStyle.Render(IconDiamond+" "+m.Title) + "\n\n")

	end := min(m.offset+m.height, len(m.Items))
	for i := m.offset; i < end; i++ {
		cursor := "  "
		if i == m.cursor {
			cursor = AccentStyle.Render(IconChevron) + " "
		}
		box := MutedStyle.Render("[ ]")
		if m.selected[i] {
			box = SuccessStyle.Render("[" + IconCheck + "]")
		}
		fmt.Fprintf(&b, "%s%s %s\n", cursor, box, m.Items[i])
	}

	fmt.Fprintf(&b, "\n%s\n", MutedStyle.Render(fmt.Sprintf(
		"%d/%d selected • space toggle • a all/none • enter confirm • esc cancel",
		m.countSelected(), len(m.Items))))
	return b.String()
}

// Selected returns the indices of the chosen items in list order.
func (m SelectModel) Selected() []int {
	var out []int
	for i, s := range m.selected {
		if s {
			out = append(out, i)
		}
	}
	return out
}

// Select runs the multi-select on stderr and returns the chosen indices.
func Select(title string, items []string) ([]int, error) {
	final, err := tea.NewProgram(NewSelect(title, items), tea.WithOutput(os.Stderr)).Run()
	if err != nil {
		return nil, fmt.Errorf("selection prompt: %w", err)
	}
	m := final.(SelectModel)
	if m.canceled {
		return nil, ErrCanceled
	}
	return m.Selected(), nil
}
