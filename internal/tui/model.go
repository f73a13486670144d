// Package tui is the interactive month-calendar client. It renders
// tasks fetched from a daygrid server into a Sunday-first grid and
// keeps per-day color overrides in a local key/value store.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/existflow/daygrid/internal/calendar"
	"github.com/existflow/daygrid/internal/client"
	"github.com/existflow/daygrid/internal/kv"
	"github.com/existflow/daygrid/internal/logger"
	"github.com/existflow/daygrid/internal/model"
)

// Pane represents which pane is focused
type Pane int

const (
	PaneCalendar Pane = iota
	PaneDayTasks
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeAddTask
	ModeEditTask
	ModeDuplicate
	ModePaint
	ModePalette
	ModePaletteAdd
	ModeHelp
)

// Model is the main TUI model
type Model struct {
	api       *client.Client
	dayColors kv.Store

	month   calendar.Month
	day     int // 1-based day of month under the cursor
	byDay   map[string][]model.Task
	palette []model.UserColor

	// UI state
	width         int
	height        int
	pane          Pane
	mode          Mode
	taskCursor    int
	paintCursor   int
	paletteCursor int

	// Input
	input textinput.Model

	message string
}

// NewModel creates a TUI model focused on the current month.
func NewModel(api *client.Client, dayColors kv.Store) Model {
	logger.Info("Initializing TUI model")

	ti := textinput.New()
	ti.Placeholder = "Enter task..."
	ti.CharLimit = 256
	ti.Width = 50

	now := time.Now().UTC()
	m := Model{
		api:       api,
		dayColors: dayColors,
		month:     calendar.MonthOf(now),
		day:       now.Day(),
		byDay:     map[string][]model.Task{},
		pane:      PaneCalendar,
		mode:      ModeNormal,
		input:     ti,
	}

	m.loadMonth()
	m.loadPalette()
	logger.Debug("TUI model initialized",
		logger.F("month", m.month.String()),
		logger.F("tasks", len(m.byDay)))
	return m
}

func (m *Model) loadMonth() {
	tasks, err := m.api.TasksForMonth(m.month)
	if err != nil {
		logger.Error("Failed to load month", logger.F("error", err))
		m.message = "Load failed: " + err.Error()
		return
	}
	m.byDay = calendar.Bucket(tasks)
	if m.taskCursor >= len(m.dayTasks()) {
		m.taskCursor = 0
	}
}

func (m *Model) loadPalette() {
	palette, err := m.api.Colors()
	if err != nil {
		logger.Error("Failed to load palette", logger.F("error", err))
		return
	}
	m.palette = palette
	if m.paletteCursor >= len(m.palette) {
		m.paletteCursor = 0
	}
}

// selectedKey is the canonical date key of the day under the cursor.
func (m *Model) selectedKey() string {
	return calendar.KeyFor(m.month.Year, m.month.Month, m.day)
}

// selectedDate is the day under the cursor as midnight UTC.
func (m *Model) selectedDate() time.Time {
	return m.month.Day(m.day)
}

func (m *Model) dayTasks() []model.Task {
	return m.byDay[m.selectedKey()]
}

func (m *Model) currentTask() *model.Task {
	tasks := m.dayTasks()
	if m.taskCursor < len(tasks) {
		return &tasks[m.taskCursor]
	}
	return nil
}

// dayColor returns the local override color for a date key, if any.
func (m *Model) dayColor(key string) (string, bool) {
	if m.dayColors == nil {
		return "", false
	}
	return m.dayColors.Get(key)
}
