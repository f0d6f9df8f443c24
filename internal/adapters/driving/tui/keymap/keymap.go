// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/throughnateseyes/playbook/internal/surface"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help shows the help view.
	Help key.Binding

	// Back returns to the previous view.
	Back key.Binding

	// Palette opens the command palette.
	Palette key.Binding

	// Up navigates up in a list.
	Up key.Binding

	// Down navigates down in a list.
	Down key.Binding

	// Select confirms a selection.
	Select key.Binding

	// NextFocus moves focus forward within the active surface.
	NextFocus key.Binding

	// PrevFocus moves focus backward within the active surface.
	PrevFocus key.Binding

	// NextMatch jumps to the next highlighted match.
	NextMatch key.Binding

	// PrevMatch jumps to the previous highlighted match.
	PrevMatch key.Binding

	// Filter focuses the sidebar filter.
	Filter key.Binding

	// Search focuses the inline search box.
	Search key.Binding

	// Pin pins or unpins the selected SOP.
	Pin key.Binding

	// Settings opens the settings view.
	Settings key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Palette: key.NewBinding(
			key.WithKeys(surface.KeyPalette, surface.KeyPaletteSlash),
			key.WithHelp("ctrl+k", "palette"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		NextFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		PrevFocus: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous field"),
		),
		NextMatch: key.NewBinding(
			key.WithKeys("enter", "n"),
			key.WithHelp("enter/n", "next match"),
		),
		PrevMatch: key.NewBinding(
			key.WithKeys("shift+enter", "N"),
			key.WithHelp("N", "previous match"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter"),
		),
		Search: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "search"),
		),
		Pin: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pin"),
		),
		Settings: key.NewBinding(
			key.WithKeys(","),
			key.WithHelp(",", "settings"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Palette, k.Help, k.Quit}
}

// BrowseHelp returns keybindings for the browse view.
func (k *KeyMap) BrowseHelp() []key.Binding {
	return []key.Binding{k.Palette, k.Search, k.Filter, k.Pin, k.Select, k.Help}
}

// SurfaceHelp returns keybindings for an open search surface.
func (k *KeyMap) SurfaceHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.NextFocus, k.Back}
}

// DetailHelp returns keybindings for the detail view.
func (k *KeyMap) DetailHelp() []key.Binding {
	return []key.Binding{k.NextMatch, k.PrevMatch, k.Pin, k.Back}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back},
		{k.Palette, k.Search, k.Filter, k.Pin},
		{k.NextMatch, k.PrevMatch, k.NextFocus, k.PrevFocus},
		{k.Settings, k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
