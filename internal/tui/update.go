package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/daygrid/internal/calendar"
	"github.com/existflow/daygrid/internal/client"
)

// Init starts the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeAddTask, ModeEditTask, ModeDuplicate, ModePaletteAdd:
			return m.updateInput(msg)
		case ModePaint:
			return m.updatePaint(msg)
		case ModePalette:
			return m.updatePalette(msg)
		case ModeHelp:
			m.mode = ModeNormal
			return m, nil
		}
		return m.handleNormalKeys(msg)
	}

	return m, nil
}

// handleNormalKeys handles key presses in normal mode
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Tab):
		if m.pane == PaneCalendar {
			m.pane = PaneDayTasks
			m.taskCursor = 0
		} else {
			m.pane = PaneCalendar
		}

	case key.Matches(msg, keys.Left):
		m.moveDay(-1)

	case key.Matches(msg, keys.Right):
		m.moveDay(1)

	case key.Matches(msg, keys.Up):
		if m.pane == PaneDayTasks {
			if m.taskCursor > 0 {
				m.taskCursor--
			}
		} else {
			m.moveDay(-7)
		}

	case key.Matches(msg, keys.Down):
		if m.pane == PaneDayTasks {
			if m.taskCursor < len(m.dayTasks())-1 {
				m.taskCursor++
			}
		} else {
			m.moveDay(7)
		}

	case key.Matches(msg, keys.PrevMonth):
		m.setMonth(m.month.Prev())

	case key.Matches(msg, keys.NextMonth):
		m.setMonth(m.month.Next())

	case key.Matches(msg, keys.Today):
		now := time.Now().UTC()
		m.month = calendar.MonthOf(now)
		m.day = now.Day()
		m.taskCursor = 0
		m.loadMonth()

	case key.Matches(msg, keys.Add):
		return m.startInput(ModeAddTask, "Enter task...", "")

	case key.Matches(msg, keys.Edit):
		if task := m.currentTask(); task != nil {
			return m.startInput(ModeEditTask, "Edit task...", task.Text)
		}

	case key.Matches(msg, keys.Done), key.Matches(msg, keys.Enter):
		m.handleToggleDone()

	case key.Matches(msg, keys.Delete):
		m.handleDelete()

	case key.Matches(msg, keys.Duplicate):
		if m.currentTask() != nil {
			return m.startInput(ModeDuplicate, "Copy to date (YYYY-MM-DD)...", "")
		}

	case key.Matches(msg, keys.Paint):
		if len(m.palette) == 0 {
			m.message = "Palette is empty. Press C to add colors."
		} else {
			m.mode = ModePaint
			m.paintCursor = 0
		}

	case key.Matches(msg, keys.Palette):
		m.mode = ModePalette
		m.loadPalette()

	case key.Matches(msg, keys.Refresh):
		m.loadMonth()
		m.loadPalette()
		m.message = "Refreshed"

	case key.Matches(msg, keys.Reset):
		if err := m.api.ResetTaskColors(); err != nil {
			m.message = fmt.Sprintf("Reset failed: %v", err)
		} else {
			m.loadMonth()
			m.message = "Task colors reset to default"
		}

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp

	case key.Matches(msg, keys.Escape):
		m.message = ""
	}

	return m, nil
}

// moveDay moves the cursor by delta days, crossing month boundaries.
func (m *Model) moveDay(delta int) {
	target := m.selectedDate().AddDate(0, 0, delta)
	month := calendar.MonthOf(target)
	if month != m.month {
		m.month = month
		m.loadMonth()
	}
	m.day = target.Day()
	m.taskCursor = 0
}

func (m *Model) setMonth(month calendar.Month) {
	m.month = month
	if m.day > month.Days() {
		m.day = month.Days()
	}
	m.taskCursor = 0
	m.loadMonth()
}

func (m Model) startInput(mode Mode, placeholder, value string) (tea.Model, tea.Cmd) {
	m.mode = mode
	m.input.SetValue(value)
	m.input.Placeholder = placeholder
	m.input.Focus()
	m.input.CursorEnd()
	return m, textinput.Blink
}

func (m *Model) handleToggleDone() {
	task := m.currentTask()
	if task == nil {
		return
	}
	if _, err := m.api.SetCompleted(task.ID, !task.Completed); err != nil {
		m.message = fmt.Sprintf("Update failed: %v", err)
		return
	}
	m.loadMonth()
}

func (m *Model) handleDelete() {
	task := m.currentTask()
	if task == nil {
		return
	}
	if err := m.api.DeleteTask(task.ID); err != nil {
		m.message = fmt.Sprintf("Delete failed: %v", err)
		return
	}
	m.loadMonth()
	if m.taskCursor >= len(m.dayTasks()) && m.taskCursor > 0 {
		m.taskCursor--
	}
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		return m, nil

	case key.Matches(msg, keys.Enter):
		value := strings.TrimSpace(m.input.Value())
		if value == "" {
			m.mode = ModeNormal
			return m, nil
		}

		switch m.mode {
		case ModeAddTask:
			if _, err := m.api.CreateTask(m.selectedDate(), value, ""); err != nil {
				m.message = fmt.Sprintf("Error adding task: %v", err)
			} else {
				m.message = fmt.Sprintf("Added: %s", value)
			}

		case ModeEditTask:
			if task := m.currentTask(); task != nil {
				if _, err := m.api.UpdateTask(task.ID, client.TaskUpdate{Text: &value}); err != nil {
					m.message = fmt.Sprintf("Error updating task: %v", err)
				} else {
					m.message = fmt.Sprintf("Updated: %s", value)
				}
			}

		case ModeDuplicate:
			task := m.currentTask()
			if task != nil {
				date, err := calendar.ParseDateKey(value)
				if err != nil {
					m.message = "Invalid date, expected YYYY-MM-DD"
					return m, nil
				}
				if _, err := m.api.DuplicateTask(task.ID, date); err != nil {
					m.message = fmt.Sprintf("Error duplicating task: %v", err)
				} else {
					m.message = fmt.Sprintf("Copied to %s", value)
				}
			}

		case ModePaletteAdd:
			name, hex, ok := parsePaletteEntry(value)
			if !ok {
				m.message = "Expected: <name> #RRGGBB"
				return m, nil
			}
			if _, err := m.api.CreateColor(name, hex); err != nil {
				m.message = fmt.Sprintf("Error adding color: %v", err)
			} else {
				m.message = fmt.Sprintf("Added color: %s", name)
			}
			m.loadPalette()
			m.mode = ModePalette
			return m, nil
		}

		m.loadMonth()
		m.mode = ModeNormal
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updatePaint(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal

	case key.Matches(msg, keys.Up):
		if m.paintCursor > 0 {
			m.paintCursor--
		}

	case key.Matches(msg, keys.Down):
		if m.paintCursor < len(m.palette)-1 {
			m.paintCursor++
		}

	case key.Matches(msg, keys.Enter):
		if m.paintCursor < len(m.palette) {
			c := m.palette[m.paintCursor]
			if err := m.dayColors.Set(m.selectedKey(), c.Hex); err != nil {
				m.message = fmt.Sprintf("Error saving color: %v", err)
			} else {
				m.message = fmt.Sprintf("Painted %s %s", m.selectedKey(), c.Name)
			}
		}
		m.mode = ModeNormal

	case key.Matches(msg, keys.Delete), key.Matches(msg, keys.Done):
		if err := m.dayColors.Delete(m.selectedKey()); err != nil {
			m.message = fmt.Sprintf("Error clearing color: %v", err)
		} else {
			m.message = fmt.Sprintf("Cleared color on %s", m.selectedKey())
		}
		m.mode = ModeNormal

	case msg.String() == "X":
		cleared := 0
		for _, k := range m.dayColors.Keys() {
			if m.month.Contains(k) {
				if err := m.dayColors.Delete(k); err == nil {
					cleared++
				}
			}
		}
		m.message = fmt.Sprintf("Cleared %d painted days in %s", cleared, m.month)
		m.mode = ModeNormal
	}

	return m, nil
}

func (m Model) updatePalette(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape), key.Matches(msg, keys.Quit):
		m.mode = ModeNormal

	case key.Matches(msg, keys.Up):
		if m.paletteCursor > 0 {
			m.paletteCursor--
		}

	case key.Matches(msg, keys.Down):
		if m.paletteCursor < len(m.palette)-1 {
			m.paletteCursor++
		}

	case key.Matches(msg, keys.Add):
		return m.startInput(ModePaletteAdd, "name #RRGGBB", "")

	case key.Matches(msg, keys.Delete):
		if m.paletteCursor < len(m.palette) {
			c := m.palette[m.paletteCursor]
			if err := m.api.DeleteColor(c.ID); err != nil {
				m.message = fmt.Sprintf("Error deleting color: %v", err)
			} else {
				m.message = fmt.Sprintf("Deleted color: %s", c.Name)
			}
			m.loadPalette()
			if m.paletteCursor >= len(m.palette) && m.paletteCursor > 0 {
				m.paletteCursor--
			}
		}
	}

	return m, nil
}

// parsePaletteEntry splits "name #RRGGBB" input into its parts.
func parsePaletteEntry(value string) (name, hex string, ok bool) {
	idx := strings.LastIndex(value, " ")
	if idx < 0 {
		return "", "", false
	}
	name = strings.TrimSpace(value[:idx])
	hex = strings.TrimSpace(value[idx+1:])
	if name == "" || !strings.HasPrefix(hex, "#") {
		return "", "", false
	}
	return name, hex, true
}
