// Package detail provides the SOP detail view with in-document match
// highlighting and cycling.
package detail

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/throughnateseyes/playbook/internal/adapters/driving/tui/components/status"
	"github.com/throughnateseyes/playbook/internal/adapters/driving/tui/keymap"
	"github.com/throughnateseyes/playbook/internal/adapters/driving/tui/messages"
	"github.com/throughnateseyes/playbook/internal/adapters/driving/tui/styles"
	"github.com/throughnateseyes/playbook/internal/core/domain"
	"github.com/throughnateseyes/playbook/internal/core/ports/driving"
	"github.com/throughnateseyes/playbook/internal/index"
	"github.com/throughnateseyes/playbook/internal/surface"
)

// ErrNoSOPService indicates that no SOP service was provided.
var ErrNoSOPService = errors.New("sop service is required")

// View shows one SOP. When opened with a query, every occurrence is
// highlighted and the first one is scrolled into view after a delay.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	statusbar *status.Bar

	sopService      driving.SOPService
	settingsService driving.SettingsService
	ctx             context.Context

	sop     *domain.SOP
	id      string
	query   string
	pinned  bool
	loading bool
	err     error

	lines      []string
	matchLines []int
	matches    surface.MatchCursor

	scroll         int
	scrollMargin   int
	highlightDelay time.Duration
	token          uint64

	width  int
	height int
	ready  bool
}

// NewView creates a new detail view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	sopService driving.SOPService,
	settingsService driving.SettingsService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	defaults := domain.DefaultAppSettings()
	bar := status.NewBar(s, km)
	bar.SetHints(km.DetailHelp())

	return &View{
		styles:          s,
		keymap:          km,
		statusbar:       bar,
		sopService:      sopService,
		settingsService: settingsService,
		ctx:             context.Background(),
		scrollMargin:    defaults.Search.ScrollOffset,
		highlightDelay:  defaults.Search.HighlightDelay,
		width:           80,
		height:          24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetTiming sets the delay before scrolling to the first match and how
// many lines stay visible above a match scrolled into view.
func (v *View) SetTiming(highlightDelay time.Duration, scrollMargin int) {
	v.highlightDelay = highlightDelay
	if scrollMargin < 0 {
		scrollMargin = 0
	}
	v.scrollMargin = scrollMargin
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Open loads the SOP with id and highlights query in it.
func (v *View) Open(id, query string) tea.Cmd {
	v.id = id
	v.query = strings.TrimSpace(query)
	v.sop = nil
	v.err = nil
	v.loading = true
	v.scroll = 0
	v.lines = nil
	v.matchLines = nil
	v.matches.Reset(0)
	v.token++
	return v.load(v.query)
}

func (v *View) load(query string) tea.Cmd {
	sopService := v.sopService
	ctx := v.ctx
	id := v.id
	return func() tea.Msg {
		if sopService == nil {
			return messages.SOPLoaded{Query: query, Err: ErrNoSOPService}
		}
		sop, err := sopService.Get(ctx, id)
		return messages.SOPLoaded{SOP: sop, Query: query, Err: err}
	}
}

// Update handles messages for the detail view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SOPLoaded:
		return v, v.handleLoaded(msg)

	case messages.ScrollToMatch:
		if msg.Token == v.token {
			v.scrollToMatch()
		}
		return v, nil

	case messages.SOPsChanged:
		if v.id == "" {
			return v, nil
		}
		return v, v.load(v.query)

	case messages.PinToggled:
		if msg.Err != nil {
			v.statusbar.SetState(status.StateError)
			v.statusbar.SetMessage(msg.Err.Error())
			return v, nil
		}
		if msg.ID == v.id {
			v.pinned = msg.Pinned
			v.render()
		}
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

func (v *View) handleLoaded(msg messages.SOPLoaded) tea.Cmd {
	v.loading = false
	if msg.Err != nil {
		v.err = msg.Err
		v.sop = nil
		v.lines = nil
		return nil
	}
	if msg.SOP == nil || msg.SOP.ID != v.id {
		return nil
	}

	reopened := v.sop != nil
	v.err = nil
	v.sop = msg.SOP
	v.pinned = v.isPinned(v.sop.ID)

	// A reload after an edit keeps the reader's place.
	current := v.matches.Current()
	v.render()
	v.matches.Reset(len(v.matchLines))
	if reopened && current > 0 && current < v.matches.Total() {
		for v.matches.Current() != current {
			v.matches.Next()
		}
	}
	v.render()
	v.updateStatus()

	if reopened || v.matches.Total() == 0 {
		v.clampScroll()
		return nil
	}

	token := v.token
	return tea.Tick(v.highlightDelay, func(time.Time) tea.Msg {
		return messages.ScrollToMatch{Token: token}
	})
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	switch {
	case keymap.Matches(key, v.keymap.Back):
		return v, func() tea.Msg { return messages.Back{} }

	case keymap.Matches(key, v.keymap.NextMatch):
		if v.matches.Next() >= 0 {
			v.render()
			v.scrollToMatch()
			v.updateStatus()
		}

	case keymap.Matches(key, v.keymap.PrevMatch):
		if v.matches.Prev() >= 0 {
			v.render()
			v.scrollToMatch()
			v.updateStatus()
		}

	case keymap.Matches(key, v.keymap.Pin):
		return v, v.togglePin()

	case keymap.Matches(key, v.keymap.Up):
		v.scroll--
		v.clampScroll()

	case keymap.Matches(key, v.keymap.Down):
		v.scroll++
		v.clampScroll()

	case key == "pgup" || key == "ctrl+u":
		v.scroll -= v.visibleLines()
		v.clampScroll()

	case key == "pgdown" || key == "ctrl+d":
		v.scroll += v.visibleLines()
		v.clampScroll()

	case key == "home" || key == "g":
		v.scroll = 0

	case key == "end" || key == "G":
		v.scroll = v.maxScroll()
	}

	return v, nil
}

func (v *View) togglePin() tea.Cmd {
	if v.sop == nil || v.settingsService == nil {
		return nil
	}
	id := v.sop.ID
	settingsService := v.settingsService
	return func() tea.Msg {
		pinned, err := settingsService.TogglePin(id)
		return messages.PinToggled{ID: id, Pinned: pinned, Err: err}
	}
}

// scrollToMatch puts the current match scrollMargin lines below the top.
func (v *View) scrollToMatch() {
	i := v.matches.Current()
	if i < 0 || i >= len(v.matchLines) {
		return
	}
	v.scroll = v.matchLines[i] - v.scrollMargin
	v.clampScroll()
}

func (v *View) updateStatus() {
	v.statusbar.SetState(status.StateReady)
	switch {
	case v.query == "":
		v.statusbar.SetMessage("")
	case v.matches.Total() == 0:
		v.statusbar.SetState(status.StateNoResults)
		v.statusbar.SetMessage("")
	default:
		v.statusbar.SetMessage(fmt.Sprintf("Match %s for %q", v.MatchCounter(), v.query))
	}
}

// MatchCounter returns "i/N" for the current match, or "" without matches.
func (v *View) MatchCounter() string {
	if v.matches.Total() == 0 {
		return ""
	}
	return fmt.Sprintf("%d/%d", v.matches.Current()+1, v.matches.Total())
}

// render lays the SOP out as lines and records the line of every match.
func (v *View) render() {
	v.lines = nil
	v.matchLines = nil
	if v.sop == nil {
		return
	}

	r := &renderer{v: v, width: v.contentWidth(), active: v.matches.Current()}
	sop := v.sop

	r.text(sop.Title, v.styles.Title, 0)
	meta := v.styles.Category(sop.Category)
	if sop.LastUpdated != "" {
		meta += v.styles.Muted.Render("  updated " + sop.LastUpdated)
	}
	if v.pinned {
		meta += v.styles.Warning.Render("  pinned")
	}
	if len(sop.Tags) > 0 {
		meta += v.styles.Muted.Render("  #" + strings.Join(sop.Tags, " #"))
	}
	r.raw(meta)

	if sop.Overview != "" {
		r.heading(domain.SectionOverview)
		r.text(sop.Overview, v.styles.Normal, 2)
	}

	if len(sop.Steps) > 0 {
		r.heading("Steps")
		for i, step := range sop.Steps {
			r.raw("  " + v.styles.Subtitle.Render(index.StepLabel(i)))
			r.text(step.Title, v.styles.Normal.Bold(true), 4)
			if step.Text != "" && step.Text != step.Title {
				r.text(step.Text, v.styles.Normal, 4)
			}
			if step.Script != "" {
				r.text(step.Script, v.styles.Script, 6)
			}
			if step.ImageURL != "" {
				r.raw(v.styles.Muted.Render("    image: " + step.ImageURL))
			}
		}
	}

	if len(sop.EdgeCases) > 0 {
		r.heading("Edge Cases")
		for _, ec := range sop.EdgeCases {
			r.text(ec.Title, v.styles.Normal.Bold(true), 2)
			r.text(ec.Description, v.styles.Normal, 4)
		}
	}

	if !sop.Escalation.IsZero() {
		r.heading(domain.SectionEscalation)
		if sop.Escalation.When != "" {
			r.labelled("When: ", sop.Escalation.When)
		}
		if sop.Escalation.Who != "" {
			r.labelled("Who:  ", sop.Escalation.Who)
		}
	}

	if len(sop.Contacts) > 0 {
		r.heading("Contacts")
		for _, c := range sop.Contacts {
			r.text(c.Name, v.styles.Normal.Bold(true), 2)
			if c.Role != "" {
				r.text(c.Role, v.styles.Normal, 4)
			}
			if c.Department != "" {
				r.raw(v.styles.Muted.Render("    " + c.Department))
			}
			if c.Description != "" {
				r.text(c.Description, v.styles.Muted, 4)
			}
			for _, link := range []string{c.Email, c.Phone, c.TeamsURL, c.LinkedInURL} {
				if link != "" {
					r.raw(v.styles.Muted.Render("    " + link))
				}
			}
		}
	}

	if len(sop.ReferenceMaterials) > 0 {
		r.heading("Reference Materials")
		for _, ref := range sop.ReferenceMaterials {
			line := "  " + ref.Title
			if ref.FileURL != "" {
				line += "  " + ref.FileURL
			}
			r.raw(v.styles.Normal.Render(line))
			if ref.Caption != "" {
				r.raw(v.styles.Muted.Render("    " + ref.Caption))
			}
		}
	}
}

// renderer accumulates lines and match positions for one render pass.
type renderer struct {
	v      *View
	width  int
	active int
	seen   int
}

func (r *renderer) raw(line string) {
	r.v.lines = append(r.v.lines, strings.Split(line, "\n")...)
}

func (r *renderer) heading(title string) {
	r.v.lines = append(r.v.lines, "", r.v.styles.Subtitle.Render(title))
}

func (r *renderer) labelled(label, text string) {
	r.textWithPrefix(r.v.styles.Muted.Render(label), text, r.v.styles.Normal, 2)
}

func (r *renderer) text(text string, base lipgloss.Style, indent int) {
	r.textWithPrefix("", text, base, indent)
}

func (r *renderer) textWithPrefix(prefix, text string, base lipgloss.Style, indent int) {
	if text == "" {
		return
	}
	segments := index.Highlight(text, r.v.query)
	count := 0
	for _, seg := range segments {
		if seg.IsMatch {
			count++
		}
	}

	active := -1
	if r.active >= r.seen && r.active < r.seen+count {
		active = r.active - r.seen
	}

	body := prefix + r.v.styles.Segments(segments, base, active)
	wrapped := lipgloss.NewStyle().Width(r.width).PaddingLeft(indent).Render(body)

	start := len(r.v.lines)
	for i := 0; i < count; i++ {
		r.v.matchLines = append(r.v.matchLines, start)
	}
	r.seen += count
	r.v.lines = append(r.v.lines, strings.Split(wrapped, "\n")...)
}

func (v *View) contentWidth() int {
	w := v.width - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (v *View) visibleLines() int {
	// Reserve lines for the status bar and padding
	available := v.height - 3
	if available < 1 {
		available = 1
	}
	return available
}

func (v *View) maxScroll() int {
	m := len(v.lines) - v.visibleLines()
	if m < 0 {
		m = 0
	}
	return m
}

func (v *View) clampScroll() {
	if v.scroll > v.maxScroll() {
		v.scroll = v.maxScroll()
	}
	if v.scroll < 0 {
		v.scroll = 0
	}
}

func (v *View) isPinned(id string) bool {
	if v.settingsService == nil {
		return false
	}
	for _, p := range v.settingsService.Pinned() {
		if p == id {
			return true
		}
	}
	return false
}

// View renders the detail view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var body string
	switch {
	case v.loading:
		body = v.styles.Muted.Render("Loading SOP...")
	case v.err != nil:
		body = v.styles.Error.Render("Error: " + v.err.Error())
	case v.sop == nil:
		body = v.styles.Muted.Render("(No SOP selected)")
	default:
		end := v.scroll + v.visibleLines()
		if end > len(v.lines) {
			end = len(v.lines)
		}
		body = strings.Join(v.lines[v.scroll:end], "\n")
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, "", v.statusbar.View())
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.statusbar.SetWidth(width)
	v.render()
	v.clampScroll()
}

// SOP returns the displayed SOP.
func (v *View) SOP() *domain.SOP {
	return v.sop
}

// Query returns the highlighted query.
func (v *View) Query() string {
	return v.query
}

// Scroll returns the index of the first visible line.
func (v *View) Scroll() int {
	return v.scroll
}

// MatchLine returns the line of match i, or -1.
func (v *View) MatchLine(i int) int {
	if i < 0 || i >= len(v.matchLines) {
		return -1
	}
	return v.matchLines[i]
}

// CurrentMatch returns the selected match index, or -1.
func (v *View) CurrentMatch() int {
	return v.matches.Current()
}

// MatchTotal returns the number of matches.
func (v *View) MatchTotal() int {
	return v.matches.Total()
}

// Pinned reports whether the displayed SOP is pinned.
func (v *View) Pinned() bool {
	return v.pinned
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
