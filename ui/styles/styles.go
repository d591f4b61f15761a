package styles

import "github.com/charmbracelet/lipgloss"

const (
	brandGreen = lipgloss.Color("35")
	userGreen  = lipgloss.Color("114")
	botBlue    = lipgloss.Color("39")
	errorRed   = lipgloss.Color("203")
	muted      = lipgloss.Color("245")
)

func HeaderStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("231")).
		Background(brandGreen).
		Padding(0, 1).
		Width(width).
		Align(lipgloss.Center)
}

func SubHeaderStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(muted).
		Width(width).
		Align(lipgloss.Center)
}

func InputStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(brandGreen).
		Padding(0, 1).
		Width(max(width-4, 10))
}

// DisabledInputStyle is the input box while an answer is pending.
func DisabledInputStyle(width int) lipgloss.Style {
	return InputStyle(width).BorderForeground(lipgloss.Color("240"))
}

func StatusStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Background(lipgloss.Color("235")).
		Padding(0, 1).
		Width(width)
}

func NoticeStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("232")).
		Background(lipgloss.Color("221")).
		Padding(0, 1).
		Width(width)
}

func UserStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(userGreen).
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(userGreen).
		Padding(0, 1)
}

func AssistantStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(botBlue).
		Padding(0, 1).
		MarginLeft(2)
}

func ErrorStyle() lipgloss.Style {
	return AssistantStyle().
		Foreground(errorRed).
		BorderForeground(errorRed)
}

func TypingStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(muted).
		Italic(true).
		MarginLeft(2)
}

func SpinnerStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(botBlue)
}

func ProgramStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("141")).
		Bold(true).
		Padding(0, 2).
		Align(lipgloss.Center)
}

func PlaceholderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(muted).
		Padding(1, 2)
}
