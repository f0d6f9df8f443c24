package driving

import (
	"context"

	"github.com/throughnateseyes/playbook/internal/core/domain"
)

// SOPService manages the SOP collection of the current workspace and keeps
// the search index in step with it.
type SOPService interface {
	// List returns all SOPs in insertion order.
	List(ctx context.Context) ([]domain.SOP, error)

	// Get returns one SOP or domain.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.SOP, error)

	// Create normalises and appends an SOP.
	// Returns domain.ErrPermissionDenied when creation is disabled.
	Create(ctx context.Context, sop domain.SOP) (*domain.SOP, error)

	// Update merges patch over the stored SOP and re-normalises it.
	// Returns domain.ErrNotFound for unknown IDs.
	Update(ctx context.Context, id string, patch map[string]any) (*domain.SOP, error)

	// Delete removes an SOP. Unknown IDs are ignored.
	Delete(ctx context.Context, id string) error

	// Seed writes sops only when the workspace is empty and returns
	// the resulting collection either way.
	Seed(ctx context.Context, sops []domain.SOP) ([]domain.SOP, error)

	// Import upserts sops by ID and returns how many were written.
	Import(ctx context.Context, sops []domain.SOP) (int, error)

	// Filter returns SOPs passing the sidebar filter.
	Filter(ctx context.Context, filter domain.SOPFilter) ([]domain.SOP, error)

	// Categories returns per-category counts in sidebar order.
	Categories(ctx context.Context) []domain.CategoryCount

	// Entries returns the current immutable search index snapshot.
	Entries() []domain.SearchEntry

	// CanCreate reports whether the create affordance is enabled.
	CanCreate() bool

	// OnChange registers a callback run after every change to the collection.
	OnChange(fn func())
}
