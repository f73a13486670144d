package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Primary   = lipgloss.Color("#4ECDC4")
	Completed = lipgloss.Color("#95E1A3")
	Warning   = lipgloss.Color("#FFE66D")
	Danger    = lipgloss.Color("#FF6B6B")
	Surface   = lipgloss.Color("#16213e")
	Text      = lipgloss.Color("#FFFFFF")
	TextMuted = lipgloss.Color("#888888")
	Border    = lipgloss.Color("#333333")
)

// Styles
var (
	// Header
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			Padding(0, 1)

	// Weekday row above the grid
	WeekdayStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Bold(true).
			Align(lipgloss.Center)

	// Day cells
	DayCellStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(Border).
			Padding(0, 1)

	DayCellSelectedStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(Primary).
				Padding(0, 1)

	DayNumberStyle = lipgloss.NewStyle().Bold(true)

	TodayStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	// Task pane
	TaskPaneStyle = lipgloss.NewStyle().
			Padding(1, 2)

	TaskItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	TaskItemSelectedStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(Surface).
				Bold(true)

	TaskDoneStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Strikethrough(true).
			Padding(0, 1)

	MoreStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Italic(true)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border)

	// Input modal
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	// Help text
	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMuted)
)

// Swatch renders a colored block for a hex color.
func Swatch(hex string) string {
	if hex == "" {
		return "  "
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("  ")
}
