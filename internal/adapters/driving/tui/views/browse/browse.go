// Package browse provides the home view: category sidebar, SOP list,
// list filter and the inline search dropdown.
package browse

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/throughnateseyes/playbook/internal/adapters/driving/tui/components/finder"
	"github.com/throughnateseyes/playbook/internal/adapters/driving/tui/components/input"
	"github.com/throughnateseyes/playbook/internal/adapters/driving/tui/components/status"
	"github.com/throughnateseyes/playbook/internal/adapters/driving/tui/keymap"
	"github.com/throughnateseyes/playbook/internal/adapters/driving/tui/messages"
	"github.com/throughnateseyes/playbook/internal/adapters/driving/tui/styles"
	"github.com/throughnateseyes/playbook/internal/core/domain"
	"github.com/throughnateseyes/playbook/internal/core/ports/driving"
	"github.com/throughnateseyes/playbook/internal/surface"
)

// ErrNoSOPService indicates that no SOP service was provided.
var ErrNoSOPService = errors.New("sop service is required")

// Panes that take focus when no surface is open.
const (
	paneSidebar = "sidebar"
	paneList    = "list"
)

// sidebarKind says what a sidebar row selects.
type sidebarKind int

const (
	sidebarAll sidebarKind = iota
	sidebarPinned
	sidebarCategory
)

type sidebarItem struct {
	kind     sidebarKind
	category domain.Category
	label    string
	count    int
}

// View is the browse view.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	statusbar *status.Bar
	filter    *input.SearchInput
	search    *finder.Finder
	panes     *surface.FocusRing

	sopService      driving.SOPService
	settingsService driving.SettingsService
	ctx             context.Context

	sidebar       []sidebarItem
	sidebarCursor int
	sops          []domain.SOP
	pinned        []string
	selected      int
	scrollOffset  int
	filtering     bool

	width  int
	height int
	ready  bool
	err    error
}

// NewView creates a browse view. inlineDebounce is the settle delay of the
// inline search dropdown.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	sopService driving.SOPService,
	settingsService driving.SettingsService,
	inlineDebounce time.Duration,
) *View {
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

	filter := input.NewSearchInput(s, "Filter: ", "title, tag or overview")
	filter.Blur()

	v := &View{
		styles:          s,
		keymap:          km,
		statusbar:       status.NewBar(s, km),
		filter:          filter,
		search:          finder.New(messages.SurfaceInline, s, km, finder.EntryMatcher(entries), inlineDebounce, ""),
		panes:           surface.NewFocusRing(paneList, paneSidebar),
		sopService:      sopService,
		settingsService: settingsService,
		ctx:             context.Background(),
		width:           80,
		height:          24,
	}
	v.statusbar.SetHints(km.BrowseHelp())
	return v
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the sidebar and SOP list.
func (v *View) Init() tea.Cmd {
	return v.load()
}

// load returns a command reading the current filter's SOPs and the
// sidebar counts.
func (v *View) load() tea.Cmd {
	sopService := v.sopService
	settingsService := v.settingsService
	ctx := v.ctx
	f := v.currentFilter()

	return func() tea.Msg {
		if sopService == nil {
			return messages.SOPsLoaded{Err: ErrNoSOPService}
		}

		var pinned []string
		if settingsService != nil {
			pinned = settingsService.Pinned()
		}
		f.Pinned = pinned

		sops, err := sopService.Filter(ctx, f)
		if err != nil {
			return messages.SOPsLoaded{Err: err}
		}
		all, err := sopService.List(ctx)
		if err != nil {
			return messages.SOPsLoaded{Err: err}
		}

		return messages.SOPsLoaded{
			SOPs:       sops,
			Categories: sopService.Categories(ctx),
			Pinned:     pinned,
			Total:      len(all),
		}
	}
}

func (v *View) currentFilter() domain.SOPFilter {
	f := domain.SOPFilter{Text: v.filter.Value()}
	if v.sidebarCursor < len(v.sidebar) {
		item := v.sidebar[v.sidebarCursor]
		switch item.kind {
		case sidebarPinned:
			f.PinnedOnly = true
		case sidebarCategory:
			f.Category = item.category
		case sidebarAll:
		}
	}
	return f
}

// Update handles messages for the browse view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SOPsLoaded:
		v.handleLoaded(msg)
		return v, nil

	case messages.SOPsChanged:
		var cmd tea.Cmd
		v.search, cmd = v.search.Update(msg)
		return v, tea.Batch(cmd, v.load())

	case messages.PinToggled:
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		if msg.Pinned {
			v.statusbar.SetMessage("Pinned")
		} else {
			v.statusbar.SetMessage("Unpinned")
		}
		return v, v.load()

	case messages.QuerySettled:
		var cmd tea.Cmd
		v.search, cmd = v.search.Update(msg)
		v.syncSearchStatus()
		return v, cmd

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	if v.search.IsOpen() {
		var cmd tea.Cmd
		v.search, cmd = v.search.Update(msg)
		return v, cmd
	}
	if v.filtering {
		var cmd tea.Cmd
		v.filter, cmd = v.filter.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) handleLoaded(msg messages.SOPsLoaded) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}
	v.err = nil
	v.sops = msg.SOPs
	v.pinned = msg.Pinned

	sidebar := make([]sidebarItem, 0, len(msg.Categories)+2)
	sidebar = append(sidebar,
		sidebarItem{kind: sidebarAll, label: "All", count: msg.Total},
		sidebarItem{kind: sidebarPinned, label: "Pinned", count: len(msg.Pinned)},
	)
	for _, c := range msg.Categories {
		sidebar = append(sidebar, sidebarItem{kind: sidebarCategory, category: c.Category, label: c.Category.String(), count: c.Count})
	}
	v.sidebar = sidebar
	if v.sidebarCursor >= len(v.sidebar) {
		v.sidebarCursor = 0
	}

	if v.selected >= len(v.sops) {
		v.selected = len(v.sops) - 1
	}
	if v.selected < 0 {
		v.selected = 0
	}
	if !v.search.IsOpen() && v.statusbar.State() != status.StateError {
		v.statusbar.SetState(status.StateReady)
	}
	v.statusbar.SetResultCount(0)
	v.statusbar.SetMessage(fmt.Sprintf("%d SOPs", len(v.sops)))
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.search.IsOpen() {
		var cmd tea.Cmd
		v.search, cmd = v.search.Update(msg)
		if !v.search.IsOpen() {
			v.statusbar.SetHints(v.keymap.BrowseHelp())
			v.statusbar.SetState(status.StateReady)
		} else {
			v.syncSearchStatus()
		}
		return v, cmd
	}

	if v.filtering {
		return v.handleFilterKey(msg)
	}

	key := msg.String()
	switch {
	case keymap.Matches(key, v.keymap.Search):
		v.statusbar.SetHints(v.keymap.SurfaceHelp())
		return v, v.search.Open()

	case keymap.Matches(key, v.keymap.Filter):
		v.filtering = true
		return v, v.filter.Focus()

	case keymap.Matches(key, v.keymap.NextFocus), keymap.Matches(key, v.keymap.PrevFocus):
		v.panes.Next()
		return v, nil

	case keymap.Matches(key, v.keymap.Pin):
		return v, v.togglePin()

	case keymap.Matches(key, v.keymap.Up):
		v.move(-1)
		return v, v.loadIfSidebar()

	case keymap.Matches(key, v.keymap.Down):
		v.move(1)
		return v, v.loadIfSidebar()

	case keymap.Matches(key, v.keymap.Select):
		if v.panes.Is(paneSidebar) {
			v.panes.Reset()
			return v, nil
		}
		if sop := v.SelectedSOP(); sop != nil {
			id := sop.ID
			return v, func() tea.Msg { return messages.OpenSOP{ID: id} }
		}
	}

	return v, nil
}

func (v *View) handleFilterKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEsc:
		v.filtering = false
		v.filter.Blur()
		v.filter.Reset()
		return v, v.load()
	case tea.KeyEnter, tea.KeyTab:
		v.filtering = false
		v.filter.Blur()
		return v, nil
	}

	before := v.filter.Value()
	var cmd tea.Cmd
	v.filter, cmd = v.filter.Update(msg)
	if v.filter.Value() == before {
		return v, cmd
	}
	v.selected = 0
	v.scrollOffset = 0
	return v, tea.Batch(cmd, v.load())
}

func (v *View) move(delta int) {
	if v.panes.Is(paneSidebar) {
		next := v.sidebarCursor + delta
		if next >= 0 && next < len(v.sidebar) {
			v.sidebarCursor = next
			v.selected = 0
			v.scrollOffset = 0
		}
		return
	}

	next := v.selected + delta
	if next < 0 || next >= len(v.sops) {
		return
	}
	v.selected = next
	visible := v.visibleRows()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	}
	if v.selected >= v.scrollOffset+visible {
		v.scrollOffset = v.selected - visible + 1
	}
}

func (v *View) loadIfSidebar() tea.Cmd {
	if v.panes.Is(paneSidebar) {
		return v.load()
	}
	return nil
}

func (v *View) togglePin() tea.Cmd {
	sop := v.SelectedSOP()
	if sop == nil || v.settingsService == nil {
		return nil
	}
	id := sop.ID
	settingsService := v.settingsService
	return func() tea.Msg {
		pinned, err := settingsService.TogglePin(id)
		return messages.PinToggled{ID: id, Pinned: pinned, Err: err}
	}
}

func (v *View) syncSearchStatus() {
	if !v.search.IsOpen() {
		return
	}
	v.statusbar.SetState(status.FromSurface(v.search.State(), v.search.Pending()))
	v.statusbar.SetMessage("")
	v.statusbar.SetResultCount(len(v.search.Results()))
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// View renders the browse view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	header := v.styles.Title.Render("Playbook")
	var top string
	switch {
	case v.search.IsOpen():
		top = v.search.View()
	case v.filtering || v.filter.Value() != "":
		top = v.filter.View()
	default:
		top = v.styles.Muted.Render("s: search  f: filter  ctrl+k: palette")
	}

	sidebar := v.styles.Sidebar.Height(v.bodyHeight()).Render(v.renderSidebar())
	main := v.renderList()
	if v.search.IsOpen() {
		// The dropdown covers the list while open.
		main = ""
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, "  ", main)

	sections := []string{header, "", top, ""}
	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}
	sections = append(sections, body, "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderSidebar() string {
	lines := make([]string, 0, len(v.sidebar))
	for i, item := range v.sidebar {
		label := fmt.Sprintf("%s (%d)", item.label, item.count)
		switch {
		case i == v.sidebarCursor && v.panes.Is(paneSidebar):
			lines = append(lines, v.styles.Selected.Render("> "+label))
		case i == v.sidebarCursor:
			lines = append(lines, v.styles.Subtitle.Render("  "+label))
		case item.kind == sidebarCategory:
			lines = append(lines, "  "+v.styles.Category(item.category)+v.styles.Muted.Render(fmt.Sprintf(" (%d)", item.count)))
		default:
			lines = append(lines, v.styles.Normal.Render("  "+label))
		}
	}
	return strings.Join(lines, "\n")
}

func (v *View) renderList() string {
	if len(v.sops) == 0 {
		return v.styles.Muted.Render("No SOPs")
	}

	visible := v.visibleRows()
	end := v.scrollOffset + visible
	if end > len(v.sops) {
		end = len(v.sops)
	}

	lines := make([]string, 0, visible)
	for i := v.scrollOffset; i < end; i++ {
		sop := &v.sops[i]
		indicator := "  "
		if i == v.selected && v.panes.Is(paneList) {
			indicator = "> "
		}
		pin := " "
		if v.isPinned(sop.ID) {
			pin = "*"
		}
		title := indicator + pin + " " + sop.Title
		if i == v.selected && v.panes.Is(paneList) {
			title = v.styles.Selected.Render(title)
		} else {
			title = v.styles.Normal.Render(title)
		}
		meta := v.styles.Category(sop.Category)
		if sop.LastUpdated != "" {
			meta += v.styles.Muted.Render("  " + sop.LastUpdated)
		}
		lines = append(lines, title+"  "+meta)
	}
	return strings.Join(lines, "\n")
}

func (v *View) isPinned(id string) bool {
	for _, p := range v.pinned {
		if p == id {
			return true
		}
	}
	return false
}

func (v *View) bodyHeight() int {
	h := v.height - 8
	if h < 3 {
		h = 3
	}
	return h
}

func (v *View) visibleRows() int {
	return v.bodyHeight()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.filter.SetWidth(width / 2)
	v.search.SetDimensions(width-4, height-6)
	v.statusbar.SetWidth(width)
}

// SetInlineDebounce updates the inline search settle delay.
func (v *View) SetInlineDebounce(d time.Duration) {
	v.search.SetDebounce(d)
}

// SOPs returns the listed SOPs.
func (v *View) SOPs() []domain.SOP {
	return v.sops
}

// SelectedSOP returns the SOP under the list cursor, or nil.
func (v *View) SelectedSOP() *domain.SOP {
	if v.selected < 0 || v.selected >= len(v.sops) {
		return nil
	}
	return &v.sops[v.selected]
}

// SidebarSelection returns the label of the selected sidebar row.
func (v *View) SidebarSelection() string {
	if v.sidebarCursor >= len(v.sidebar) {
		return ""
	}
	return v.sidebar[v.sidebarCursor].label
}

// FocusedPane returns "sidebar" or "list".
func (v *View) FocusedPane() string {
	return v.panes.Current()
}

// Search exposes the inline search finder.
func (v *View) Search() *finder.Finder {
	return v.search
}

// TextInputFocused reports whether keystrokes currently go to a text
// input. Global shortcuts that are printable characters must not fire then.
func (v *View) TextInputFocused() bool {
	return v.filtering || v.search.InputFocused()
}

// SurfaceOpen reports whether the inline search is open.
func (v *View) SurfaceOpen() bool {
	return v.search.IsOpen()
}

// Filtering reports whether the filter input has focus.
func (v *View) Filtering() bool {
	return v.filtering
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
