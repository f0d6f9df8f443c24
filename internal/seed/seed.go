// Package seed provides the SOP set written to an empty workspace.
package seed

import (
	_ "embed"

	"github.com/throughnateseyes/playbook/internal/core/domain"
	"github.com/throughnateseyes/playbook/internal/normalisers/sop"
)

// The file keeps the legacy field names (label, team, reason, contact)
// so loading it also exercises legacy reconciliation.
//
//go:embed sops.json
var raw []byte

// SOPs returns a fresh, normalised copy of the seed set.
func SOPs() []domain.SOP {
	sops, err := sop.DecodeJSON(raw)
	if err != nil {
		return []domain.SOP{}
	}
	return sops
}

// Raw returns the embedded JSON.
func Raw() []byte {
	out := make([]byte, len(raw))
	copy(out, raw)
	return out
}
