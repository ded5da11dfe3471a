package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))

	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	columnTitleStyle = lipgloss.NewStyle().Bold(true)

	cardStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	selectedCardStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62"))
	draggedCardStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)

	runningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	pausedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	idleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)
)

// borderFor tints a column border with the column's hex color.
func borderFor(hex string) lipgloss.Style {
	if hex == "" {
		return columnStyle.BorderForeground(lipgloss.Color("62"))
	}
	return columnStyle.BorderForeground(lipgloss.Color(hex))
}
