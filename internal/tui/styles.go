package tui

import "github.com/charmbracelet/lipgloss"

var (
	FormStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))

	LabelStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	FocusedLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)

	SubmittingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	SuccessStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	ErrorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	HelpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)
