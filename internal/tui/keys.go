package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the board.
type KeyMap struct {
	// Navigation
	Up   key.Binding
	Down key.Binding

	// Actions
	Complete key.Binding // Complete the selected task
	Undo     key.Binding // Revert today's completion of a habit

	// View
	Refresh   key.Binding // Resync from the backend
	Tab       key.Binding // Cycle all / habits / todos
	DueToday  key.Binding // Toggle due-today filter
	HideDone  key.Binding // Toggle hiding completed tasks
	Help      key.Binding // Show full help
	Quit      key.Binding
	ClearNote key.Binding // Dismiss the notice line
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Complete: key.NewBinding(
			key.WithKeys(" ", "space", "enter", "c"),
			key.WithHelp("space", "complete"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "undo"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "habits/todos"),
		),
		DueToday: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "due today"),
		),
		HideDone: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pending only"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		ClearNote: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "dismiss"),
		),
	}
}

// ShortHelp returns keybindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Complete, k.Undo, k.Tab, k.DueToday, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Complete, k.Undo, k.Refresh},
		{k.Tab, k.DueToday, k.HideDone},
		{k.ClearNote, k.Help, k.Quit},
	}
}
