package domain

import (
	"fmt"
	"strings"
)

// Category groups SOPs in the sidebar.
// Stored as a free string; only the UI and service layers validate it.
type Category string

// Known categories.
const (
	CategoryOperations      Category = "Operations"
	CategoryResidentSupport Category = "Resident Support"
	CategoryFinance         Category = "Finance"
	CategoryLeasing         Category = "Leasing"
)

// DefaultCategory is substituted when a record carries no category.
const DefaultCategory = CategoryOperations

// DefaultTitle is substituted when a record carries no title.
const DefaultTitle = "Untitled"

// Categories returns the known categories in sidebar order.
func Categories() []Category {
	return []Category{
		CategoryOperations,
		CategoryResidentSupport,
		CategoryFinance,
		CategoryLeasing,
	}
}

// IsKnown returns true if the category is one of the known set.
func (c Category) IsKnown() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// String returns the string representation.
func (c Category) String() string {
	return string(c)
}

// SOP is a standard operating procedure: the unit of retrieval.
// It is the canonical representation after normalisation. Collections
// are never nil once a record has passed through the normaliser.
type SOP struct {
	// ID is the opaque identifier, unique within a workspace.
	ID string `json:"id"`

	// Title is the short human-readable name.
	Title string `json:"title"`

	// Category is the sidebar grouping.
	Category Category `json:"category"`

	// Overview is free text describing the procedure.
	Overview string `json:"overview"`

	// Steps are executed in order.
	Steps []Step `json:"steps"`

	// EdgeCases are conditional branches from the main procedure.
	EdgeCases []EdgeCase `json:"edgeCases"`

	// Escalation is the single escalation path for the whole SOP.
	Escalation Escalation `json:"escalation"`

	// Contacts are people relevant to execution or escalation.
	Contacts []Contact `json:"contacts"`

	// ReferenceMaterials are attached supporting documents.
	ReferenceMaterials []ReferenceMaterial `json:"referenceMaterials"`

	// Tags feed the sidebar filter.
	Tags []string `json:"tags"`

	// LastUpdated is a display date, usually YYYY-MM-DD.
	LastUpdated string `json:"lastUpdated"`
}

// Step is one instruction in an SOP.
type Step struct {
	// Text is the mandatory descriptive text.
	Text string `json:"text"`

	// Title is an optional short heading.
	Title string `json:"title,omitempty"`

	// Script is a verbatim block to read out or run.
	Script string `json:"script,omitempty"`

	// ImageURL references an illustrative image.
	ImageURL string `json:"imageUrl,omitempty"`
}

// EdgeCase is a conditional branch from the main procedure.
type EdgeCase struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Escalation says when to escalate and to whom.
type Escalation struct {
	When string `json:"when"`
	Who  string `json:"who"`
}

// IsZero returns true if neither field carries content.
func (e Escalation) IsZero() bool {
	return strings.TrimSpace(e.When) == "" && strings.TrimSpace(e.Who) == ""
}

// Contact is a person relevant to an SOP.
type Contact struct {
	Name        string `json:"name"`
	Role        string `json:"role"`
	Department  string `json:"department"`
	Description string `json:"description,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	TeamsURL    string `json:"teamsUrl,omitempty"`
	LinkedInURL string `json:"linkedinUrl,omitempty"`
}

// ReferenceMaterial is a supporting document attached to an SOP.
type ReferenceMaterial struct {
	Title        string `json:"title"`
	Caption      string `json:"caption,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	FileURL      string `json:"fileUrl,omitempty"`
}

// Validate checks the form-input contract for a new or edited SOP.
// The search index never depends on it: a normalised record is always
// indexable whether or not it validates.
func (s *SOP) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if !s.Category.IsKnown() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidInput, s.Category)
	}
	for i := range s.Steps {
		if strings.TrimSpace(s.Steps[i].Text) == "" {
			return fmt.Errorf("%w: step %d has no text", ErrInvalidInput, i+1)
		}
	}
	return nil
}

// Clone returns a copy that shares no slices with s.
func (s *SOP) Clone() SOP {
	out := *s
	out.Steps = cloneSlice(s.Steps)
	out.EdgeCases = cloneSlice(s.EdgeCases)
	out.Contacts = cloneSlice(s.Contacts)
	out.ReferenceMaterials = cloneSlice(s.ReferenceMaterials)
	out.Tags = cloneSlice(s.Tags)
	return out
}

// CloneSOPs deep-copies a collection.
func CloneSOPs(sops []SOP) []SOP {
	if sops == nil {
		return nil
	}
	out := make([]SOP, len(sops))
	for i := range sops {
		out[i] = sops[i].Clone()
	}
	return out
}

// cloneSlice keeps nil as nil and empty as empty.
func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	return append(make([]T, 0, len(in)), in...)
}

// HasTag reports whether the SOP carries the tag, ignoring case.
func (s *SOP) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// SOPFilter narrows the sidebar list.
type SOPFilter struct {
	// Category limits results to one category. Empty means all.
	Category Category

	// Text matches title, tags and overview, ignoring case.
	Text string

	// PinnedOnly limits results to IDs in Pinned.
	PinnedOnly bool

	// Pinned is the set of pinned SOP IDs.
	Pinned []string
}

// Matches reports whether the SOP passes the filter.
func (f SOPFilter) Matches(s *SOP) bool {
	if f.Category != "" && s.Category != f.Category {
		return false
	}
	if f.PinnedOnly && !containsString(f.Pinned, s.ID) {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Text))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(s.Title), q) ||
		strings.Contains(strings.ToLower(s.Overview), q) {
		return true
	}
	for _, tag := range s.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
