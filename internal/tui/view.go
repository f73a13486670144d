package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/daygrid/internal/calendar"
	"github.com/existflow/daygrid/internal/model"
)

var weekdayNames = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := m.renderHeader()
	grid := m.renderGrid()
	taskPane := m.renderTaskPane()
	statusBar := m.renderStatusBar()

	mainContent := lipgloss.JoinVertical(lipgloss.Left, header, grid, taskPane)

	switch m.mode {
	case ModeAddTask, ModeEditTask, ModeDuplicate, ModePaletteAdd:
		mainContent = m.placeModal(m.renderInputModal())
	case ModePaint:
		mainContent = m.placeModal(m.renderPaintModal())
	case ModePalette:
		mainContent = m.placeModal(m.renderPaletteModal())
	case ModeHelp:
		mainContent = m.renderHelp()
	}

	return lipgloss.JoinVertical(lipgloss.Left, mainContent, statusBar)
}

func (m Model) placeModal(modal string) string {
	return lipgloss.Place(
		m.width, m.height-2,
		lipgloss.Center, lipgloss.Center,
		modal,
		lipgloss.WithWhitespaceChars(" "),
	)
}

func (m Model) renderHeader() string {
	title := HeaderStyle.Render("daygrid")
	month := lipgloss.NewStyle().Bold(true).Render(m.month.String())
	user := HelpStyle.Render(m.api.Username())

	gap := m.width - lipgloss.Width(title) - lipgloss.Width(month) - lipgloss.Width(user) - 2
	if gap < 1 {
		gap = 1
	}
	return title + strings.Repeat(" ", gap/2) + month + strings.Repeat(" ", gap-gap/2) + user
}

// cellWidth is the inner width of one day cell.
func (m Model) cellWidth() int {
	w := m.width/7 - 4
	if w < 8 {
		w = 8
	}
	return w
}

func (m Model) renderGrid() string {
	cellW := m.cellWidth()

	var header string
	for _, name := range weekdayNames {
		header += WeekdayStyle.Width(cellW + 2).Render(name)
	}

	days := m.month.Days()
	lead := int(m.month.FirstWeekday())

	var rows []string
	var cells []string
	for i := 0; i < lead; i++ {
		cells = append(cells, m.renderBlankCell())
	}
	for day := 1; day <= days; day++ {
		cells = append(cells, m.renderDayCell(day))
		if len(cells) == 7 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
			cells = nil
		}
	}
	if len(cells) > 0 {
		for len(cells) < 7 {
			cells = append(cells, m.renderBlankCell())
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	return header + "\n" + strings.Join(rows, "\n")
}

func (m Model) renderBlankCell() string {
	return DayCellStyle.Width(m.cellWidth()).Height(calendar.MaxVisibleTasks + 2).Render("")
}

func (m Model) renderDayCell(day int) string {
	cellW := m.cellWidth()
	key := calendar.KeyFor(m.month.Year, m.month.Month, day)
	summary := calendar.Summarize(m.byDay[key])

	numStyle := DayNumberStyle
	if key == calendar.DateKey(time.Now()) {
		numStyle = TodayStyle
	}

	var lines []string
	num := numStyle.Render(fmt.Sprintf("%2d", day))
	if hex, ok := m.dayColor(key); ok {
		num += " " + Swatch(hex)
	}
	lines = append(lines, num)

	for _, t := range summary.Visible {
		lines = append(lines, m.renderCellTask(t, cellW))
	}
	if summary.Remaining > 0 {
		lines = append(lines, MoreStyle.Render(fmt.Sprintf("+%d more", summary.Remaining)))
	}
	for len(lines) < calendar.MaxVisibleTasks+2 {
		lines = append(lines, "")
	}

	style := DayCellStyle
	if day == m.day {
		style = DayCellSelectedStyle
	}
	return style.Width(cellW).Render(strings.Join(lines, "\n"))
}

func (m Model) renderCellTask(t model.Task, cellW int) string {
	marker := "·"
	style := lipgloss.NewStyle()
	if t.Completed {
		marker = "✓"
		style = style.Foreground(TextMuted).Strikethrough(true)
	} else if t.Color != "" {
		style = style.Foreground(lipgloss.Color(t.Color))
	}
	return style.Render(marker + " " + truncate(t.Text, cellW-3))
}

func (m Model) renderTaskPane() string {
	tasks := m.dayTasks()

	title := fmt.Sprintf("%s — %d tasks", m.selectedKey(), len(tasks))
	s := lipgloss.NewStyle().Bold(true).Foreground(Primary).Render(title) + "\n"

	if len(tasks) == 0 {
		s += HelpStyle.Render("  No tasks. Press 'a' to add one.")
		return TaskPaneStyle.Width(m.width).Render(s)
	}

	for i, t := range tasks {
		cursor := "  "
		style := TaskItemStyle
		if i == m.taskCursor && m.pane == PaneDayTasks {
			cursor = "❯ "
			style = TaskItemSelectedStyle
		}

		icon := "[ ]"
		if t.Completed {
			icon = "[x]"
			style = TaskDoneStyle
		}

		line := cursor + icon + " " + truncate(t.Text, m.width-20)
		if t.HasImage() {
			line += " 🖼"
		}
		rendered := style.Render(line)
		if t.Color != "" && !t.Completed {
			rendered += " " + Swatch(t.Color)
		}
		s += rendered + "\n"
	}

	return TaskPaneStyle.Width(m.width).Render(s)
}

func (m Model) renderStatusBar() string {
	help := "hjkl:move  []:month  t:today  a:add  e:edit  x:done  d:del  y:copy  c:paint  C:palette  ?:help  q:quit"
	if m.message != "" {
		help = m.message
	}
	return StatusBarStyle.Width(m.width).Render(help)
}

func (m Model) renderInputModal() string {
	title := "Add Task"
	switch m.mode {
	case ModeEditTask:
		title = "Edit Task"
	case ModeDuplicate:
		title = "Duplicate Task"
	case ModePaletteAdd:
		title = "New Palette Color"
	}
	if m.mode == ModeAddTask || m.mode == ModeDuplicate {
		title += " — " + m.selectedKey()
	}

	content := lipgloss.NewStyle().Bold(true).Render(title) + "\n\n"
	content += m.input.View() + "\n\n"
	content += HelpStyle.Render("Enter:save  Esc:cancel")

	return ModalStyle.Render(content)
}

func (m Model) renderPaintModal() string {
	content := lipgloss.NewStyle().Bold(true).Foreground(Primary).Render("Paint "+m.selectedKey()) + "\n\n"

	for i, c := range m.palette {
		marker := "  "
		style := lipgloss.NewStyle()
		if i == m.paintCursor {
			marker = "❯ "
			style = style.Bold(true)
		}
		content += style.Render(marker+Swatch(c.Hex)+" "+truncate(c.Name, 20)) + "\n"
	}

	content += "\n" + HelpStyle.Render("Enter:paint  x:clear  X:clear month  Esc:cancel")
	return ModalStyle.Render(content)
}

func (m Model) renderPaletteModal() string {
	content := lipgloss.NewStyle().Bold(true).Foreground(Primary).Render("Color Palette") + "\n\n"

	if len(m.palette) == 0 {
		content += HelpStyle.Render("No colors yet. Press 'a' to add one.") + "\n"
	}
	for i, c := range m.palette {
		marker := "  "
		style := lipgloss.NewStyle()
		if i == m.paletteCursor {
			marker = "❯ "
			style = style.Bold(true)
		}
		content += style.Render(marker+Swatch(c.Hex)+fmt.Sprintf(" %-16s %s", truncate(c.Name, 16), c.Hex)) + "\n"
	}

	content += "\n" + HelpStyle.Render("a:add  d:delete  Esc:close")
	return ModalStyle.Render(content)
}

func (m Model) renderHelp() string {
	help := `
╭────── Keyboard Shortcuts ──────╮
│                                │
│  Navigation                    │
│  ──────────                    │
│  h/l ←/→   Prev / next day     │
│  j/k ↓/↑   Down / up a week    │
│  [ / ]     Prev / next month   │
│  t         Jump to today       │
│  Tab       Focus task list     │
│                                │
│  Tasks                         │
│  ─────                         │
│  a         Add task            │
│  e         Edit task           │
│  x/Enter   Toggle done         │
│  d         Delete              │
│  y         Duplicate to date   │
│  R         Reset task colors   │
│                                │
│  Colors                        │
│  ──────                        │
│  c         Paint selected day  │
│  C         Manage palette      │
│                                │
│  Other                         │
│  ─────                         │
│  r         Refresh             │
│  ?         Toggle help         │
│  q         Quit                │
│                                │
╰────────────────────────────────╯

       Press any key to close
`
	return lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, help)
}
