// Package ui holds the terminal presentation layer: palette, progress
// sinks and the interactive selection and confirmation prompts.
package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// ─── Palette ─────────────────────────────────────────────────────────────────

var (
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#5A3FC0", Dark: "#A78BFA"}
	ColorCoral   = lipgloss.AdaptiveColor{Light: "#D9534F", Dark: "#FF7F6E"}
	ColorText    = lipgloss.AdaptiveColor{Light: "#1F2328", Dark: "#E6EDF3"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "#6E7781", Dark: "#8B949E"}
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#1A7F37", Dark: "#3FB950"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "#9A6700", Dark: "#D29922"}
	ColorError   = lipgloss.AdaptiveColor{Light: "#CF222E", Dark: "#F85149"}
)

// ─── Icons ───────────────────────────────────────────────────────────────────

const (
	IconDiamond = "◆"
	IconChevron = "›"
	IconCheck   = "✔"
	IconCross   = "✘"
	IconWarning = "⚠"
	IconBullet  = "•"
)

// ─── Styles ──────────────────────────────────────────────────────────────────

var (
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	MutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	WarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorError)
	AccentStyle  = lipgloss.NewStyle().Foreground(ColorCoral).Bold(true)
)

// IsTerminal reports whether f is attached to an interactive terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
