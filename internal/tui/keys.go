package tui

import (
	"fotoroute/internal/gesture"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	Prev       key.Binding
	Next       key.Binding
	PrevGroup  key.Binding
	NextGroup  key.Binding
	First      key.Binding
	Last       key.Binding
	Fullscreen key.Binding
	Stats      key.Binding
	Search     key.Binding
	Reload     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Prev:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "prev")),
		Next:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next")),
		PrevGroup:  key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "prev country")),
		NextGroup:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "next country")),
		First:      key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first")),
		Last:       key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last")),
		Fullscreen: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fullscreen")),
		Stats:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stats (ss: upload)")),
		Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "find place")),
		Reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "tutorial")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.NextGroup, k.Fullscreen, k.Stats, k.Search, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.PrevGroup, k.NextGroup},
		{k.First, k.Last, k.Fullscreen, k.Search},
		{k.Stats, k.Reload, k.Help, k.Quit},
	}
}

// directionalKey maps a key press to the router's terminal-independent key.
func (k keyMap) directionalKey(msg tea.KeyMsg) gesture.Key {
	switch {
	case key.Matches(msg, k.Prev):
		return gesture.KeyLeft
	case key.Matches(msg, k.Next):
		return gesture.KeyRight
	case key.Matches(msg, k.PrevGroup):
		return gesture.KeyUp
	case key.Matches(msg, k.NextGroup):
		return gesture.KeyDown
	}
	return gesture.KeyNone
}
