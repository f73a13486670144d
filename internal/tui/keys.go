package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	PrevMonth key.Binding
	NextMonth key.Binding
	Today     key.Binding
	Tab       key.Binding
	Enter     key.Binding
	Add       key.Binding
	Edit      key.Binding
	Done      key.Binding
	Delete    key.Binding
	Duplicate key.Binding
	Paint     key.Binding
	Palette   key.Binding
	Refresh   key.Binding
	Reset     key.Binding
	Help      key.Binding
	Quit      key.Binding
	Escape    key.Binding
}

var keys = keyMap{
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev day")),
	Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next day")),
	PrevMonth: key.NewBinding(key.WithKeys("[", "H"), key.WithHelp("[", "prev month")),
	NextMonth: key.NewBinding(key.WithKeys("]", "L"), key.WithHelp("]", "next month")),
	Today:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
	Tab:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
	Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select/toggle")),
	Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
	Edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit task")),
	Done:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "toggle done")),
	Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Duplicate: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "duplicate")),
	Paint:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "paint day")),
	Palette:   key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "palette")),
	Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Reset:     key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset colors")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Escape:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
}
