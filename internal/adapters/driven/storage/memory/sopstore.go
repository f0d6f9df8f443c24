package memory

import (
	"context"
	"sync"

	"github.com/throughnateseyes/playbook/internal/core/domain"
	"github.com/throughnateseyes/playbook/internal/core/ports/driven"
)

// Ensure SOPStore implements the interface.
var _ driven.SOPStore = (*SOPStore)(nil)

// SOPStore is an in-memory implementation of driven.SOPStore.
// Contents are lost when the process exits.
type SOPStore struct {
	mu         sync.RWMutex
	workspaces map[string][]domain.SOP
}

// NewSOPStore creates a new in-memory SOP store.
func NewSOPStore() *SOPStore {
	return &SOPStore{
		workspaces: make(map[string][]domain.SOP),
	}
}

// ListSOPs returns the workspace's SOPs in insertion order.
func (s *SOPStore) ListSOPs(_ context.Context, workspace string) ([]domain.SOP, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := domain.CloneSOPs(s.workspaces[workspace])
	if out == nil {
		out = []domain.SOP{}
	}
	return out, nil
}

// SaveSOP inserts or replaces an SOP, keeping its position on replace.
func (s *SOPStore) SaveSOP(_ context.Context, workspace string, sop *domain.SOP) error {
	if sop == nil {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := s.workspaces[workspace]
	for i := range stored {
		if stored[i].ID == sop.ID {
			stored[i] = sop.Clone()
			return nil
		}
	}
	s.workspaces[workspace] = append(stored, sop.Clone())
	return nil
}

// DeleteSOP removes an SOP. Missing IDs are not an error.
func (s *SOPStore) DeleteSOP(_ context.Context, workspace, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := s.workspaces[workspace]
	kept := make([]domain.SOP, 0, len(stored))
	for i := range stored {
		if stored[i].ID != id {
			kept = append(kept, stored[i])
		}
	}
	s.workspaces[workspace] = kept
	return nil
}

// ReplaceAll overwrites the workspace's collection.
func (s *SOPStore) ReplaceAll(_ context.Context, workspace string, sops []domain.SOP) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	replaced := domain.CloneSOPs(sops)
	if replaced == nil {
		replaced = []domain.SOP{}
	}
	s.workspaces[workspace] = replaced
	return nil
}
