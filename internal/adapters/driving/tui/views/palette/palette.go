// Package palette provides the modal command palette.
package palette

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/throughnateseyes/playbook/internal/adapters/driving/tui/components/finder"
	"github.com/throughnateseyes/playbook/internal/adapters/driving/tui/keymap"
	"github.com/throughnateseyes/playbook/internal/adapters/driving/tui/messages"
	"github.com/throughnateseyes/playbook/internal/adapters/driving/tui/styles"
	"github.com/throughnateseyes/playbook/internal/core/ports/driving"
	"github.com/throughnateseyes/playbook/internal/surface"
)

// View is the palette overlay. While open it owns every keystroke.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	finder *finder.Finder
	width  int
	height int
}

// NewView creates a closed palette searching sopService's index.
func NewView(s *styles.Styles, km *keymap.KeyMap, sopService driving.SOPService, debounce time.Duration) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	var entries finder.EntrySource
	if sopService != nil {
		entries = sopService.Entries
	}

	return &View{
		styles: s,
		keymap: km,
		finder: finder.New(messages.SurfacePalette, s, km, finder.EntryMatcher(entries), debounce, "Jump to an SOP or section..."),
		width:  80,
		height: 24,
	}
}

// Open shows the palette.
func (v *View) Open() tea.Cmd {
	return v.finder.Open()
}

// Close hides the palette.
func (v *View) Close() {
	v.finder.Close()
}

// IsOpen reports whether the palette is shown.
func (v *View) IsOpen() bool {
	return v.finder.IsOpen()
}

// State returns the surface state.
func (v *View) State() surface.State {
	return v.finder.State()
}

// Finder exposes the underlying finder.
func (v *View) Finder() *finder.Finder {
	return v.finder
}

// SetDebounce updates the settle delay.
func (v *View) SetDebounce(d time.Duration) {
	v.finder.SetDebounce(d)
}

// Update handles palette messages.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	var cmd tea.Cmd
	v.finder, cmd = v.finder.Update(msg)
	return v, cmd
}

// View renders the palette box centred in the terminal.
func (v *View) View() string {
	if !v.IsOpen() {
		return ""
	}

	hints := make([]string, 0, len(v.keymap.SurfaceHelp()))
	for _, b := range v.keymap.SurfaceHelp() {
		h := b.Help()
		hints = append(hints, h.Key+" "+h.Desc)
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		v.styles.Title.Render("Search"),
		"",
		v.finder.View(),
		"",
		v.styles.Help.Render(strings.Join(hints, "  ")),
	)
	box := v.styles.Palette.Width(v.boxWidth()).Render(body)

	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Top, box)
}

func (v *View) boxWidth() int {
	w := v.width * 2 / 3
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.finder.SetDimensions(v.boxWidth()-4, height-10)
}
