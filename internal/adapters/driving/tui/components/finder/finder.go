// Package finder provides the search-as-you-type component shared by the
// command palette and the inline browse search.
package finder

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/throughnateseyes/playbook/internal/adapters/driving/tui/components/input"
	"github.com/throughnateseyes/playbook/internal/adapters/driving/tui/components/list"
	"github.com/throughnateseyes/playbook/internal/adapters/driving/tui/keymap"
	"github.com/throughnateseyes/playbook/internal/adapters/driving/tui/messages"
	"github.com/throughnateseyes/playbook/internal/adapters/driving/tui/styles"
	"github.com/throughnateseyes/playbook/internal/core/domain"
	"github.com/throughnateseyes/playbook/internal/index"
	"github.com/throughnateseyes/playbook/internal/surface"
)

// Focusable elements inside a finder.
const (
	FocusInput   = "input"
	FocusResults = "results"
)

// Finder binds a surface.Model to a text input and a result list. Keystrokes
// update the immediate query; results only change when a QuerySettled
// message for the latest token arrives.
type Finder struct {
	name     messages.Surface
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	model    *surface.Model
	input    *input.SearchInput
	list     *list.ResultList
	focus    *surface.FocusRing
	debounce time.Duration
	pending  bool
	token    uint64
	width    int
}

// New creates a closed finder. match runs settled queries.
func New(
	name messages.Surface,
	s *styles.Styles,
	km *keymap.KeyMap,
	match surface.Matcher,
	debounce time.Duration,
	placeholder string,
) *Finder {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	in := input.NewSearchInput(s, "", placeholder)
	in.Blur()

	return &Finder{
		name:     name,
		styles:   s,
		keymap:   km,
		model:    surface.NewModel(match),
		input:    in,
		list:     list.NewResultList(s),
		focus:    surface.NewFocusRing(FocusInput, FocusResults),
		debounce: debounce,
		width:    60,
	}
}

// EntrySource yields the current index snapshot.
type EntrySource func() []domain.SearchEntry

// EntryMatcher returns a Matcher over the live index snapshot.
func EntryMatcher(entries EntrySource) surface.Matcher {
	return func(query string) []domain.SearchEntry {
		if entries == nil {
			return nil
		}
		return index.Search(entries(), query)
	}
}

// Open shows the finder with an empty query and focuses the input.
func (f *Finder) Open() tea.Cmd {
	f.model.Close()
	f.model.Open()
	f.input.Reset()
	f.focus.Reset()
	f.pending = false
	f.sync()
	return f.input.Focus()
}

// Close hides the finder. Any pending settle becomes stale.
func (f *Finder) Close() {
	f.model.Close()
	f.input.Reset()
	f.input.Blur()
	f.pending = false
	f.sync()
}

// IsOpen reports whether the finder is shown.
func (f *Finder) IsOpen() bool {
	return f.model.IsOpen()
}

// State returns the surface state.
func (f *Finder) State() surface.State {
	return f.model.State()
}

// Pending reports whether a keystroke is waiting for its settle.
func (f *Finder) Pending() bool {
	return f.pending
}

// Query returns the immediate query.
func (f *Finder) Query() string {
	return f.model.Query()
}

// Results returns the rendered results for the settled query.
func (f *Finder) Results() []domain.SearchResult {
	return f.list.Results()
}

// Cursor returns the selected result index, or -1.
func (f *Finder) Cursor() int {
	return f.model.Cursor()
}

// Token returns the settle token of the latest keystroke.
func (f *Finder) Token() uint64 {
	return f.token
}

// Focused returns the focused element.
func (f *Finder) Focused() string {
	return f.focus.Current()
}

// InputFocused reports whether keystrokes go to the text input.
func (f *Finder) InputFocused() bool {
	return f.IsOpen() && f.focus.Is(FocusInput)
}

// SetDebounce changes the settle delay for subsequent keystrokes.
func (f *Finder) SetDebounce(d time.Duration) {
	f.debounce = d
}

// Update handles finder messages. A committed selection is returned as a
// navigation command; the finder is closed afterwards.
func (f *Finder) Update(msg tea.Msg) (*Finder, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.QuerySettled:
		if msg.Surface != f.name {
			return f, nil
		}
		if f.model.Settle(msg.Token) {
			f.pending = false
			f.sync()
		}
		return f, nil

	case messages.SOPsChanged:
		f.model.Refresh()
		f.sync()
		return f, nil

	case tea.KeyMsg:
		if !f.IsOpen() {
			return f, nil
		}
		return f.handleKey(msg)
	}

	if f.InputFocused() {
		var cmd tea.Cmd
		f.input, cmd = f.input.Update(msg)
		return f, cmd
	}
	return f, nil
}

func (f *Finder) handleKey(msg tea.KeyMsg) (*Finder, tea.Cmd) {
	switch {
	case keymap.Matches(msg.String(), f.keymap.Back):
		f.Close()
		return f, nil

	case keymap.Matches(msg.String(), f.keymap.NextFocus):
		f.focus.Next()
		return f, f.applyFocus()

	case keymap.Matches(msg.String(), f.keymap.PrevFocus):
		f.focus.Prev()
		return f, f.applyFocus()

	case msg.Type == tea.KeyEnter:
		sel, ok := f.model.Commit()
		if !ok {
			return f, nil
		}
		f.Close()
		return f, messages.Navigate(sel)
	}

	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyUp, tea.KeyCtrlP:
		f.model.MoveUp()
		f.list.SetSelected(f.model.Cursor())
		return f, nil
	case tea.KeyDown, tea.KeyCtrlN:
		f.model.MoveDown()
		f.list.SetSelected(f.model.Cursor())
		return f, nil
	}

	if f.focus.Is(FocusResults) {
		switch msg.String() {
		case "k":
			f.model.MoveUp()
		case "j":
			f.model.MoveDown()
		}
		f.list.SetSelected(f.model.Cursor())
		return f, nil
	}

	before := f.input.Value()
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	after := f.input.Value()
	if after == before {
		return f, cmd
	}

	f.token = f.model.Type(after)
	f.pending = true
	return f, tea.Batch(cmd, messages.SettleAfter(f.name, f.token, f.debounce))
}

func (f *Finder) applyFocus() tea.Cmd {
	if f.focus.Is(FocusInput) {
		return f.input.Focus()
	}
	f.input.Blur()
	return nil
}

// sync copies the model's settled results into the list.
func (f *Finder) sync() {
	f.list.SetResults(index.Present(f.model.Results(), f.model.SettledQuery()))
	f.list.SetSelected(f.model.Cursor())
}

// View renders the input and, below it, the state-dependent body.
func (f *Finder) View() string {
	if !f.IsOpen() {
		return ""
	}

	sections := []string{f.input.View(), ""}

	switch f.model.State() {
	case surface.StateOpenEmpty:
		sections = append(sections, f.styles.Muted.Render("Type to search titles and sections"))
	case surface.StateOpenNoResults:
		sections = append(sections,
			f.styles.Warning.Render(fmt.Sprintf("No matches for %q", f.model.SettledQuery())),
			f.styles.Muted.Render("enter: search all SOPs"),
		)
	case surface.StateOpenResults:
		sections = append(sections, f.list.View())
	case surface.StateClosed:
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the finder dimensions.
func (f *Finder) SetDimensions(width, height int) {
	f.width = width
	f.input.SetWidth(width)
	f.list.SetDimensions(width, height-3)
}

// Width returns the current width.
func (f *Finder) Width() int {
	return f.width
}
