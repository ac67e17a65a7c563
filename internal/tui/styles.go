package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
const (
	colorPrimary   = "#2E8B57"
	colorSuccess   = "#04B575"
	colorError     = "#FF5F5F"
	colorInfo      = "#626262"
	colorHighlight = "#FAFAFA"
	colorWarn      = "#D7AF00"
)

// Styles for the console
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorPrimary)).
			MarginBottom(1)

	TabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorInfo)).
			Padding(0, 1)

	ActiveTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorHighlight)).
			Background(lipgloss.Color(colorPrimary)).
			Padding(0, 1)

	SelectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color(colorHighlight)).
				Background(lipgloss.Color(colorPrimary))

	BadgeDraftStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorWarn))

	BadgePublishedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(colorSuccess))

	BadgeArchivedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(colorInfo))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorError))

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorInfo))

	ToastStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorSuccess))

	FieldLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorPrimary))

	FieldErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorError)).
			Italic(true)
)

// badgeStyle picks the style for a derived badge label.
func badgeStyle(badge string) lipgloss.Style {
	switch badge {
	case "archived":
		return BadgeArchivedStyle
	case "draft":
		return BadgeDraftStyle
	default:
		return BadgePublishedStyle
	}
}
