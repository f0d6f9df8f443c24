package surface

import (
	"strings"

	"github.com/throughnateseyes/playbook/internal/core/domain"
)

// State is the visible state of a search surface.
type State int

// Surface states.
const (
	// StateClosed means the surface is not shown.
	StateClosed State = iota

	// StateOpenEmpty means the settled query is blank.
	StateOpenEmpty

	// StateOpenResults means the settled query matched something.
	StateOpenResults

	// StateOpenNoResults means the settled query matched nothing.
	StateOpenNoResults
)

// String returns the string representation.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpenEmpty:
		return "open-empty"
	case StateOpenResults:
		return "open-results"
	case StateOpenNoResults:
		return "open-no-results"
	default:
		return "unknown"
	}
}

// Matcher runs a settled query against the current index snapshot.
type Matcher func(query string) []domain.SearchEntry

// SelectionKind says what a commit navigates to.
type SelectionKind int

// Selection kinds.
const (
	// SelectDocument opens an SOP.
	SelectDocument SelectionKind = iota

	// SelectSection opens an SOP and highlights Query inside it.
	SelectSection

	// SelectFallback runs a free-text search with no entry selected.
	SelectFallback
)

// Selection is the result of committing a surface.
type Selection struct {
	Kind       SelectionKind
	DocumentID string
	Query      string
	Entry      domain.SearchEntry
}

// Model is the search surface state machine. It is not safe for
// concurrent use.
type Model struct {
	match   Matcher
	open    bool
	query   string
	settled string
	results []domain.SearchEntry
	cursor  int
	token   uint64
}

// NewModel creates a closed surface that queries through match.
func NewModel(match Matcher) *Model {
	return &Model{match: match, cursor: -1}
}

// Open shows the surface. Opening an open surface is a no-op.
func (m *Model) Open() {
	m.open = true
}

// Close hides the surface and clears the query, results and cursor.
// Pending settle tokens become stale.
func (m *Model) Close() {
	m.open = false
	m.query = ""
	m.settled = ""
	m.results = nil
	m.cursor = -1
	m.token++
}

// IsOpen reports whether the surface is shown.
func (m *Model) IsOpen() bool {
	return m.open
}

// State returns the current state.
func (m *Model) State() State {
	switch {
	case !m.open:
		return StateClosed
	case strings.TrimSpace(m.settled) == "":
		return StateOpenEmpty
	case len(m.results) == 0:
		return StateOpenNoResults
	default:
		return StateOpenResults
	}
}

// Type records the immediate query and returns the token that settles it.
func (m *Model) Type(query string) uint64 {
	m.query = query
	m.token++
	return m.token
}

// Settle applies the immediate query if token is still the latest one.
// It reports whether the matcher ran.
func (m *Model) Settle(token uint64) bool {
	if !m.open || token != m.token {
		return false
	}
	m.settled = m.query
	m.refresh()
	return true
}

// Refresh re-runs the settled query, e.g. after the index changed.
func (m *Model) Refresh() {
	if m.open {
		m.refresh()
	}
}

func (m *Model) refresh() {
	if strings.TrimSpace(m.settled) == "" || m.match == nil {
		m.results = nil
	} else {
		m.results = m.match(m.settled)
	}
	if len(m.results) == 0 {
		m.cursor = -1
	} else {
		m.cursor = 0
	}
}

// MoveDown moves the cursor down, stopping at the last result.
func (m *Model) MoveDown() {
	if m.cursor < len(m.results)-1 {
		m.cursor++
	}
}

// MoveUp moves the cursor up, stopping at the first result.
func (m *Model) MoveUp() {
	if m.cursor > 0 {
		m.cursor--
	}
}

// SetCursor moves the cursor to i when it is in range.
func (m *Model) SetCursor(i int) {
	if i >= 0 && i < len(m.results) {
		m.cursor = i
	}
}

// Cursor returns the selected index, or -1 when nothing is selected.
func (m *Model) Cursor() int {
	return m.cursor
}

// Query returns the immediate query.
func (m *Model) Query() string {
	return m.query
}

// SettledQuery returns the query the results were computed for.
func (m *Model) SettledQuery() string {
	return m.settled
}

// Results returns the current results.
func (m *Model) Results() []domain.SearchEntry {
	return m.results
}

// Selected returns the entry under the cursor.
func (m *Model) Selected() (domain.SearchEntry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.results) {
		return domain.SearchEntry{}, false
	}
	return m.results[m.cursor], true
}

// Commit resolves Enter. A selected entry wins; otherwise typed free text
// becomes a fallback selection. Committing closes the surface.
func (m *Model) Commit() (Selection, bool) {
	activeQuery := m.settled
	if strings.TrimSpace(activeQuery) == "" {
		activeQuery = m.query
	}

	var sel Selection
	if entry, ok := m.Selected(); ok {
		sel = Selection{DocumentID: entry.DocumentID, Entry: entry}
		if entry.IsDocument() {
			sel.Kind = SelectDocument
		} else {
			sel.Kind = SelectSection
			sel.Query = strings.TrimSpace(activeQuery)
		}
	} else {
		q := strings.TrimSpace(m.query)
		if q == "" {
			return Selection{}, false
		}
		sel = Selection{Kind: SelectFallback, Query: q}
	}

	m.Close()
	return sel, true
}
