package lectureview

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	textStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	activeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("3"))
	cursorStyle   = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("3"))
	spokenStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).PaddingTop(1)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	spinnerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	paragraphBase = lipgloss.NewStyle().PaddingLeft(2)
)
