package tui

import "github.com/charmbracelet/lipgloss"

const (
	columnWidth    = 26
	columnGap      = 1
	headerHeight   = 2
	cardHeight     = 3
	boardTopOffset = 1
)

var (
	columnStyle = lipgloss.NewStyle().
			Width(columnWidth - 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))

	columnTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212"))

	cardStyle = lipgloss.NewStyle().
			Width(columnWidth - 4).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("238"))

	selectedCardStyle = cardStyle.
				BorderForeground(lipgloss.Color("212"))

	draggedCardStyle = cardStyle.
				BorderForeground(lipgloss.Color("226")).
				Faint(true)

	dropIndicatorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("226"))

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	priorityStyles = map[string]lipgloss.Style{
		"LOW":    lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
		"MEDIUM": lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		"HIGH":   lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		"URGENT": lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)
