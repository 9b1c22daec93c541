package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jonathan/resume-builder/internal/autosave"
	"github.com/jonathan/resume-builder/internal/session"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF")).
			MarginBottom(1)
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
	focusedPanelStyle = panelStyle.BorderForeground(lipgloss.Color("#5B8DEF"))
	selectedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true)
	normalStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC"))
	hintStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	problemStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	infoStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
)

func stateStyle(s autosave.State) lipgloss.Style {
	switch s {
	case autosave.Clean:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	case autosave.Dirty:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true)
	case autosave.Saving:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	}
}

func notificationStyle(n session.Notification) lipgloss.Style {
	if n.Level == session.LevelError {
		return problemStyle
	}
	return infoStyle
}
