package styles

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// PanelKeyMap defines keybindings for the interactive settings panel.
type PanelKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Toggle   key.Binding
	Next     key.Binding
	Prev     key.Binding
	FontUp   key.Binding
	FontDown key.Binding
	Reset    key.Binding
	Open     key.Binding
	Rotate   key.Binding
	Help     key.Binding
	Close    key.Binding
	Quit     key.Binding
}

// ShortHelp returns keybindings to show in compact help.
func (k PanelKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.FontUp, k.FontDown, k.Help, k.Close}
}

// FullHelp returns keybindings for expanded help.
func (k PanelKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle},
		{k.Next, k.Prev},
		{k.FontUp, k.FontDown, k.Reset},
		{k.Open, k.Rotate},
		{k.Help, k.Close, k.Quit},
	}
}

// DefaultPanelKeyMap returns the default settings panel keybindings.
func DefaultPanelKeyMap() PanelKeyMap {
	return PanelKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("space", "toggle"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next option"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous option"),
		),
		FontUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "larger text"),
		),
		FontDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "smaller text"),
		),
		Reset: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reset"),
		),
		Open: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "open panel"),
		),
		Rotate: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "rotate device"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// NewStyledHelp creates a themed help model.
func NewStyledHelp(theme *Theme) help.Model {
	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(theme.Accent)
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(theme.Muted)
	h.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(theme.Border)
	h.Styles.FullKey = lipgloss.NewStyle().Foreground(theme.Accent)
	h.Styles.FullDesc = lipgloss.NewStyle().Foreground(theme.Text)
	h.Styles.FullSeparator = lipgloss.NewStyle().Foreground(theme.Border)
	return h
}
