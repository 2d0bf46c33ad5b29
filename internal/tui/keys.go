package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next     key.Binding
	Cascade  key.Binding
	Tile     key.Binding
	Minimize key.Binding
	Maximize key.Binding
	Close    key.Binding
	Recents  key.Binding
	Clear    key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next window"),
		),
		Cascade: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "cascade"),
		),
		Tile: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "tile"),
		),
		Minimize: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "minimize"),
		),
		Maximize: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "maximize"),
		),
		Close: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "close"),
		),
		Recents: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "recents"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "close all"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Cascade, k.Tile, k.Minimize, k.Maximize, k.Close, k.Recents, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Clear}}
}
