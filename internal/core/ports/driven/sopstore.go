package driven

import (
	"context"

	"github.com/throughnateseyes/playbook/internal/core/domain"
)

// SOPStore persists SOP collections, one collection per workspace.
// Implementations return SOPs in insertion order.
type SOPStore interface {
	// ListSOPs returns every SOP in the workspace.
	ListSOPs(ctx context.Context, workspace string) ([]domain.SOP, error)

	// SaveSOP inserts or replaces an SOP. Replacing keeps its position.
	SaveSOP(ctx context.Context, workspace string, sop *domain.SOP) error

	// DeleteSOP removes an SOP. Deleting an unknown ID is not an error.
	DeleteSOP(ctx context.Context, workspace, id string) error

	// ReplaceAll swaps the whole workspace collection atomically.
	ReplaceAll(ctx context.Context, workspace string, sops []domain.SOP) error
}
