package tui

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
	tabStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Padding(0, 1)
	activeTabStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#5B8DEF")).Padding(0, 1)
	panelStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#444444")).Padding(0, 1)
	dialogStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#5B8DEF")).Padding(0, 1)
	dialogTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	sectionStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	selectedStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF"))
	focusMarkerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801"))
	mutedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	hintStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	okStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))

	statusIdleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
	statusRunningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	statusStoppedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true)
)
