package index

import (
	"strconv"
	"strings"

	"github.com/throughnateseyes/playbook/internal/core/domain"
)

// Separators used when joining section fields into searchable text.
const (
	stepSeparator       = " — "
	edgeCaseSeparator   = ": "
	escalationSeparator = " — "
	contactSeparator    = " · "
)

// Build flattens sops into search entries. For each SOP, in input order,
// the document entry comes first, followed by overview, steps, edge cases,
// escalation and contacts. Sections with no displayable text are skipped.
func Build(sops []domain.SOP) []domain.SearchEntry {
	entries := make([]domain.SearchEntry, 0, len(sops)*8)

	for i := range sops {
		sop := &sops[i]
		entries = append(entries, domain.SearchEntry{
			Kind:             domain.EntryKindDocument,
			EntryID:          "sop:" + sop.ID,
			DocumentID:       sop.ID,
			DocumentTitle:    sop.Title,
			DocumentCategory: sop.Category,
		})

		add := func(suffix, label, text string) {
			if strings.TrimSpace(text) == "" {
				return
			}
			entries = append(entries, domain.SearchEntry{
				Kind:          domain.EntryKindSection,
				EntryID:       "sec:" + sop.ID + ":" + suffix,
				DocumentID:    sop.ID,
				DocumentTitle: sop.Title,
				SectionLabel:  label,
				Text:          text,
			})
		}

		add("overview", domain.SectionOverview, sop.Overview)

		for j := range sop.Steps {
			add("step:"+strconv.Itoa(j), StepLabel(j), StepText(sop.Steps[j]))
		}

		for j, ec := range sop.EdgeCases {
			add("edge:"+strconv.Itoa(j), domain.SectionEdgeCase,
				join(edgeCaseSeparator, ec.Title, ec.Description))
		}

		add("escalation", domain.SectionEscalation,
			join(escalationSeparator, sop.Escalation.When, sop.Escalation.Who))

		for j := range sop.Contacts {
			add("contact:"+strconv.Itoa(j), domain.SectionContact, ContactText(sop.Contacts[j]))
		}
	}

	return entries
}

// StepLabel returns the 1-based label for the step at index i.
func StepLabel(i int) string {
	return "Step " + strconv.Itoa(i+1)
}

// StepText joins a step's title, text and script. Text equal to the title
// is dropped so legacy title-only steps are not indexed twice.
func StepText(s domain.Step) string {
	text := s.Text
	if text == s.Title {
		text = ""
	}
	return join(stepSeparator, s.Title, text, s.Script)
}

// ContactText joins name, role and description. Department is displayed
// alongside a contact but is not searchable.
func ContactText(c domain.Contact) string {
	return join(contactSeparator, c.Name, c.Role, c.Description)
}

// join concatenates the non-empty parts with sep.
func join(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
