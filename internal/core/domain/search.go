package domain

// EntryKind distinguishes whole-SOP entries from section entries.
type EntryKind string

// Entry kinds.
const (
	// EntryKindDocument matches on the SOP title.
	EntryKindDocument EntryKind = "document"

	// EntryKindSection matches on the text of one section.
	EntryKindSection EntryKind = "section"
)

// Section labels used by the index builder.
const (
	SectionOverview   = "Overview"
	SectionEdgeCase   = "Edge Case"
	SectionEscalation = "Escalation"
	SectionContact    = "Contact"
)

// SearchEntry is a derived, read-only projection of an SOP or one of its
// sections. Entries are rebuilt from the current SOP set and never persisted.
type SearchEntry struct {
	// Kind is document or section.
	Kind EntryKind `json:"kind"`

	// EntryID is unique within one build, e.g. "sop:1" or "sec:1:step:0".
	EntryID string `json:"entryId"`

	// DocumentID is the owning SOP.
	DocumentID string `json:"documentId"`

	// DocumentTitle is the owning SOP's title.
	DocumentTitle string `json:"documentTitle"`

	// DocumentCategory is only set on document entries.
	DocumentCategory Category `json:"documentCategory,omitempty"`

	// SectionLabel is only set on section entries, e.g. "Step 2".
	SectionLabel string `json:"sectionLabel,omitempty"`

	// Text is the searchable text of a section entry.
	Text string `json:"text,omitempty"`
}

// IsDocument returns true for whole-SOP entries.
func (e SearchEntry) IsDocument() bool {
	return e.Kind == EntryKindDocument
}

// MatchText returns the text the matcher runs against.
func (e SearchEntry) MatchText() string {
	if e.IsDocument() {
		return e.DocumentTitle
	}
	return e.Text
}

// Segment is one piece of highlighted text.
// Concatenating every segment's Text reproduces the input.
type Segment struct {
	Text    string `json:"text"`
	IsMatch bool   `json:"isMatch"`
}

// SearchOptions configures a search query.
type SearchOptions struct {
	// Limit is the maximum number of results after ranking. Zero means no
	// limit beyond the ranker's own section cap.
	Limit int
}

// SearchResult is a ranked entry with display helpers attached.
type SearchResult struct {
	// Entry is the matched entry.
	Entry SearchEntry `json:"entry"`

	// Snippet is a bounded excerpt around the match.
	Snippet string `json:"snippet"`

	// Segments is the snippet split into matching and non-matching parts.
	Segments []Segment `json:"segments"`
}

// CategoryCount is one row of the sidebar.
type CategoryCount struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
}
