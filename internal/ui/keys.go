package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap defines the key bindings of the filter view
type keyMap struct {
	ClearSearch key.Binding
	NextFacet   key.Binding
	PrevFacet   key.Binding
	PrevTag     key.Binding
	NextTag     key.Binding
	Toggle      key.Binding
	ClearFacet  key.Binding
	Reset       key.Binding
	Reload      key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		ClearSearch: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear search")),
		NextFacet:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next facet")),
		PrevFacet:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous facet")),
		PrevTag:     key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "previous tag")),
		NextTag:     key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next tag")),
		Toggle:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "toggle tag")),
		ClearFacet:  key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "clear facet")),
		Reset:       key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reset")),
		Reload:      key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "reload catalog")),
		Help:        key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help")),
		Quit:        key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextFacet, k.Toggle, k.ClearSearch, k.Reset, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ClearSearch},
		{k.NextFacet, k.PrevFacet, k.PrevTag, k.NextTag, k.Toggle},
		{k.ClearFacet, k.Reset, k.Reload},
		{k.Help, k.Quit},
	}
}
