// Package sop normalises arbitrary and legacy-shaped SOP records into the
// canonical domain.SOP. Normalisation never fails: any field of the wrong
// type is replaced with an empty value or a default.
package sop

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/throughnateseyes/playbook/internal/core/domain"
	"github.com/throughnateseyes/playbook/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles JSON SOP files.
type Normaliser struct{}

// New creates a new SOP normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"application/json"}
}

// Normalise decodes a JSON file holding one SOP, an array of SOPs, or an
// object with a "sops" array.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	sops, err := DecodeJSON(raw.Content)
	if err != nil {
		return nil, fmt.Errorf("normalise %s: %w", raw.URI, err)
	}

	return &driven.NormaliseResult{SOPs: sops}, nil
}

// DecodeJSON decodes JSON and normalises whatever it holds. Decoding is the
// only failure mode.
func DecodeJSON(data []byte) ([]domain.SOP, error) {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	switch v := raw.(type) {
	case []any:
		return NormaliseAll(v), nil
	case map[string]any:
		if list, ok := v["sops"].([]any); ok {
			return NormaliseAll(list), nil
		}
		return []domain.SOP{Normalise(v)}, nil
	default:
		return []domain.SOP{}, nil
	}
}

// Normalise coerces any value into a canonical SOP.
func Normalise(raw any) domain.SOP {
	r := obj(raw)
	return domain.SOP{
		ID:                 idValue(r["id"]),
		Title:              strOr(r["title"], domain.DefaultTitle),
		Category:           domain.Category(strOr(r["category"], string(domain.DefaultCategory))),
		Overview:           str(r["overview"]),
		Steps:              mapSlice(r["steps"], normaliseStep),
		EdgeCases:          mapSlice(r["edgeCases"], normaliseEdgeCase),
		Escalation:         normaliseEscalation(r["escalation"]),
		Contacts:           mapSlice(r["contacts"], normaliseContact),
		ReferenceMaterials: mapSlice(r["referenceMaterials"], normaliseReferenceMaterial),
		Tags:               tags(r["tags"]),
		LastUpdated:        str(r["lastUpdated"]),
	}
}

// NormaliseAll normalises each element of a slice. Any non-slice input
// yields an empty, non-nil slice.
func NormaliseAll(raw any) []domain.SOP {
	switch v := raw.(type) {
	case []any:
		out := make([]domain.SOP, 0, len(v))
		for _, item := range v {
			out = append(out, Normalise(item))
		}
		return out
	case []map[string]any:
		out := make([]domain.SOP, 0, len(v))
		for _, item := range v {
			out = append(out, Normalise(item))
		}
		return out
	default:
		return []domain.SOP{}
	}
}

// Canonical runs an already-typed SOP back through normalisation so
// defaults and legacy reconciliation apply uniformly.
func Canonical(s domain.SOP) domain.SOP {
	m, err := ToMap(s)
	if err != nil {
		// A domain.SOP always marshals; keep the input if it somehow does not.
		return s
	}
	return Normalise(m)
}

// ToMap converts an SOP into its decoded-JSON form.
func ToMap(s domain.SOP) (map[string]any, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// Merge overlays patch onto base and normalises the result.
// Keys in patch replace keys in base wholesale.
func Merge(base domain.SOP, patch map[string]any) domain.SOP {
	m, err := ToMap(base)
	if err != nil {
		m = map[string]any{}
	}
	for k, v := range patch {
		m[k] = v
	}
	return Normalise(m)
}

func normaliseStep(raw any) domain.Step {
	if s, ok := raw.(string); ok {
		return domain.Step{Text: s}
	}
	r := obj(raw)
	step := domain.Step{
		Text:     firstString(r["text"], r["description"], r["title"]),
		Title:    str(r["title"]),
		Script:   str(r["script"]),
		ImageURL: str(r["imageUrl"]),
	}
	if step.ImageURL == "" {
		step.ImageURL = firstImageAttachment(r["attachments"])
	}
	return step
}

// firstImageAttachment reads the legacy attachments list.
func firstImageAttachment(raw any) string {
	list, ok := raw.([]any)
	if !ok {
		return ""
	}
	for _, item := range list {
		a := obj(item)
		if str(a["type"]) == "image" {
			if url := str(a["url"]); url != "" {
				return url
			}
		}
	}
	return ""
}

func normaliseEdgeCase(raw any) domain.EdgeCase {
	r := obj(raw)
	return domain.EdgeCase{
		Title:       str(r["title"]),
		Description: str(r["description"]),
	}
}

func normaliseEscalation(raw any) domain.Escalation {
	r := obj(raw)
	return domain.Escalation{
		When: str(r["when"]),
		Who:  firstString(r["who"], r["contact"]),
	}
}

func normaliseContact(raw any) domain.Contact {
	r := obj(raw)
	return domain.Contact{
		Name:        str(r["name"]),
		Role:        firstString(r["role"], r["label"]),
		Department:  firstString(r["department"], r["team"]),
		Description: firstString(r["description"], r["reason"]),
		Email:       str(r["email"]),
		Phone:       str(r["phone"]),
		AvatarURL:   str(r["avatarUrl"]),
		TeamsURL:    str(r["teamsUrl"]),
		LinkedInURL: str(r["linkedinUrl"]),
	}
}

func normaliseReferenceMaterial(raw any) domain.ReferenceMaterial {
	r := obj(raw)
	return domain.ReferenceMaterial{
		Title:        str(r["title"]),
		Caption:      str(r["caption"]),
		ThumbnailURL: str(r["thumbnailUrl"]),
		FileURL:      str(r["fileUrl"]),
	}
}

func obj(v any) map[string]any {
	if m, ok := v.(map[string]any); ok && m != nil {
		return m
	}
	return map[string]any{}
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

// strOr returns fallback unless v is a non-empty string.
func strOr(v any, fallback string) string {
	if s := str(v); s != "" {
		return s
	}
	return fallback
}

// firstString returns the first non-empty string among values.
func firstString(values ...any) string {
	for _, v := range values {
		if s := str(v); s != "" {
			return s
		}
	}
	return ""
}

// idValue keeps string IDs and renders legacy numeric IDs in decimal.
func idValue(v any) string {
	switch id := v.(type) {
	case string:
		if id != "" {
			return id
		}
	case json.Number:
		return id.String()
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case int:
		return strconv.Itoa(id)
	case int64:
		return strconv.FormatInt(id, 10)
	}
	return uuid.New().String()
}

func tags(v any) []string {
	list, ok := v.([]any)
	if !ok {
		if typed, ok := v.([]string); ok {
			return append([]string{}, typed...)
		}
		return []string{}
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func mapSlice[T any](v any, fn func(any) T) []T {
	list, ok := v.([]any)
	if !ok {
		return []T{}
	}
	out := make([]T, 0, len(list))
	for _, item := range list {
		out = append(out, fn(item))
	}
	return out
}
