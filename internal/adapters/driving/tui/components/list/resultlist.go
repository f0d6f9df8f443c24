// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/throughnateseyes/playbook/internal/adapters/driving/tui/styles"
	"github.com/throughnateseyes/playbook/internal/core/domain"
)

// ResultList displays search results grouped into SOP matches and section
// matches, in ranked order.
type ResultList struct {
	results  []domain.SearchResult
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		results:  nil,
		selected: 0,
		styles:   s,
		width:    80,
		height:   10,
	}
}

// Init initialises the result list.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the result list.
func (r *ResultList) View() string {
	if len(r.results) == 0 {
		return r.styles.Muted.Render("No results")
	}

	lines := make([]string, 0, len(r.results)*2+4)

	// Each result takes two lines; headers take one each.
	visibleCount := (r.height - 2) / 2
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(r.results) {
		end = len(r.results)
	}

	lastKind := domain.EntryKind("")
	for i := start; i < end; i++ {
		kind := r.results[i].Entry.Kind
		if kind != lastKind {
			lines = append(lines, r.renderHeader(kind))
			lastKind = kind
		}
		lines = append(lines, r.renderResult(i, &r.results[i]))
	}

	return strings.Join(lines, "\n")
}

func (r *ResultList) renderHeader(kind domain.EntryKind) string {
	count := 0
	for i := range r.results {
		if r.results[i].Entry.Kind == kind {
			count++
		}
	}
	label := "Sections"
	if kind == domain.EntryKindDocument {
		label = "SOPs"
	}
	return r.styles.Subtitle.Render(fmt.Sprintf("%s (%d)", label, count))
}

// renderResult formats a single result with its highlighted snippet.
func (r *ResultList) renderResult(index int, result *domain.SearchResult) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	entry := result.Entry
	maxTitleLen := r.width - 24
	if maxTitleLen < 10 {
		maxTitleLen = 10
	}
	title := truncate(entry.DocumentTitle, maxTitleLen)

	var titleLine string
	if entry.IsDocument() {
		label := indicator + title
		if index == r.selected {
			titleLine = r.styles.Selected.Render(label)
		} else {
			titleLine = r.styles.Normal.Render(label)
		}
		titleLine += "  " + r.styles.Category(entry.DocumentCategory)
	} else {
		label := indicator + title + " › " + entry.SectionLabel
		if index == r.selected {
			titleLine = r.styles.Selected.Render(label)
		} else {
			titleLine = r.styles.Normal.Render(indicator+title) + r.styles.Muted.Render(" › "+entry.SectionLabel)
		}
	}

	if entry.IsDocument() || len(result.Segments) == 0 {
		return titleLine
	}

	preview := r.styles.Segments(result.Segments, r.styles.Muted, -1)
	return titleLine + "\n" + lipgloss.NewStyle().PaddingLeft(4).MaxWidth(r.width).Render(preview)
}

// SetResults updates the result list.
func (r *ResultList) SetResults(results []domain.SearchResult) {
	r.results = results
	r.selected = 0
}

// Results returns the current results.
func (r *ResultList) Results() []domain.SearchResult {
	return r.results
}

// Selected returns the index of the selected result.
func (r *ResultList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *ResultList) SetSelected(index int) {
	if index >= 0 && index < len(r.results) {
		r.selected = index
	}
}

// SelectedResult returns the currently selected result, or nil if none.
func (r *ResultList) SelectedResult() *domain.SearchResult {
	if len(r.results) == 0 || r.selected < 0 || r.selected >= len(r.results) {
		return nil
	}
	return &r.results[r.selected]
}

// MoveUp moves selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.results)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Width returns the current width.
func (r *ResultList) Width() int {
	return r.width
}

// Height returns the current height.
func (r *ResultList) Height() int {
	return r.height
}

// Count returns the number of results.
func (r *ResultList) Count() int {
	return len(r.results)
}

// IsEmpty returns whether the list is empty.
func (r *ResultList) IsEmpty() bool {
	return len(r.results) == 0
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
