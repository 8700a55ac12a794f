package ui

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCanceled is returned when the user aborts a prompt.
var ErrCanceled = errors.New("canceled by user")

// ConfirmKeyMap defines keybindings for the confirm prompt.
type ConfirmKeyMap struct {
	Yes     key.Binding
	No      key.Binding
	Toggle  key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultConfirmKeyMap returns the default keybindings.
func DefaultConfirmKeyMap() ConfirmKeyMap {
	return ConfirmKeyMap{
		Yes:     key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
		No:      key.NewBinding(key.WithKeys("n", "N"), key.WithHelp("n", "no")),
		Toggle:  key.NewBinding(key.WithKeys("left", "right", "h", "l", "tab"), key.WithHelp("←/→", "toggle")),
		Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Cancel:  key.NewBinding(key.WithKeys("esc", "ctrl+c", "q"), key.WithHelp("esc", "cancel")),
	}
}

// ConfirmModel is a yes/no prompt. y and n answer immediately.
type ConfirmModel struct {
	Message   string
	Yes       bool
	Confirmed bool
	Canceled  bool
	keys      ConfirmKeyMap
}

// NewConfirm creates a prompt with the given default answer.
func NewConfirm(message string, def bool) ConfirmModel {
	return ConfirmModel{Message: message, Yes: def, keys: DefaultConfirmKeyMap()}
}

// Init implements tea.Model.
func (m ConfirmModel) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(kmsg, m.keys.Yes):
		m.Yes, m.Confirmed = true, true
	case key.Matches(kmsg, m.keys.No):
		m.Yes, m.Confirmed = false, true
	case key.Matches(kmsg, m.keys.Toggle):
		m.Yes = !m.Yes
	case key.Matches(kmsg, m.keys.Confirm):
		m.Confirmed = true
	case key.Matches(kmsg, m.keys.Cancel):
		m.Canceled = true
	}
	if m.Done() {
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model.
func (m ConfirmModel) View() string {
	if m.Done() {
		return ""
	}
	active := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary).Underline(true)
	inactive := MutedStyle

	yes, no := inactive.Render("Yes"), inactive.Render("No")
	if m.Yes {
		yes = active.Render("Yes")
	} else {
		no = active.Render("No")
	}
	return fmt.Sprintf("%s %s  %s / %s\n%s\n",
		AccentStyle.Render(IconDiamond), m.Message, yes, no,
		MutedStyle.Render("y/n answer • ←/→ toggle • enter confirm • esc cancel"))
}

// Done reports whether the prompt has been answered or canceled.
func (m ConfirmModel) Done() bool {
	return m.Confirmed || m.Canceled
}

// Result returns true if the user answered yes.
func (m ConfirmModel) Result() bool {
	return m.Confirmed && m.Yes
}

// Confirm runs the prompt on stderr and returns the answer.
func Confirm(message string, def bool) (bool, error) {
	final, err := tea.NewProgram(NewConfirm(message, def), tea.WithOutput(os.Stderr)).Run()
	if err != nil {
		return false, fmt.Errorf("confirm prompt: %w", err)
	}
	m := final.(ConfirmModel)
	if m.Canceled {
		return false, ErrCanceled
	}
	return m.Result(), nil
}
