package ui

import "github.com/charmbracelet/lipgloss"

var (
	colorText    = lipgloss.Color("#e0def4")
	colorSubtext = lipgloss.Color("#908caa")
	colorOverlay = lipgloss.Color("#6e6a86")
	colorAccent  = lipgloss.Color("#c4a7e7")
	colorGreen   = lipgloss.Color("#9ccfd8")
	colorGold    = lipgloss.Color("#f6c177")
	colorRed     = lipgloss.Color("#eb6f92")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	tabStyle = lipgloss.NewStyle().
			Foreground(colorSubtext).
			Padding(0, 1)

	activeTabStyle = tabStyle.
			Foreground(colorText).
			Bold(true).
			Underline(true)

	cardStyle = lipgloss.NewStyle().
			Foreground(colorText)

	selectedCardStyle = cardStyle.
				Bold(true).
				Foreground(colorAccent)

	doneCardStyle = cardStyle.
			Foreground(colorOverlay).
			Strikethrough(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(colorSubtext)

	formLabelStyle = lipgloss.NewStyle().
			Foreground(colorSubtext).
			Width(10)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorSubtext).
			MarginTop(1)
)

var priorityStyles = map[int]lipgloss.Style{
	1: lipgloss.NewStyle().Foreground(colorSubtext),
	2: lipgloss.NewStyle().Foreground(colorGold),
	3: lipgloss.NewStyle().Foreground(colorRed).Bold(true),
}
