package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/selfrpg/internal/radar"
)

// The TUI shares the chart's accent so the radar tab and the lists match.
var (
	theme = radar.DefaultTheme()

	accent  = lipgloss.Color(theme.Data)
	muted   = lipgloss.Color(theme.Muted)
	danger  = lipgloss.Color("#EF4444")
	warning = lipgloss.Color("#F59E0B")
)

var (
	activeTabStyle   = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(accent)
	inactiveTabStyle = lipgloss.NewStyle().Padding(0, 1).Foreground(muted)

	dangerStyle   = lipgloss.NewStyle().Bold(true).Foreground(danger)
	warningStyle  = lipgloss.NewStyle().Italic(true).Foreground(warning)
	statusStyle   = lipgloss.NewStyle().Foreground(muted)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(accent)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)

	docStyle = lipgloss.NewStyle().Padding(1, 2)
)
