package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/throughnateseyes/playbook/internal/core/domain"
	"github.com/throughnateseyes/playbook/internal/core/ports/driven"
	"github.com/throughnateseyes/playbook/internal/core/ports/driving"
	"github.com/throughnateseyes/playbook/internal/index"
	"github.com/throughnateseyes/playbook/internal/logger"
	"github.com/throughnateseyes/playbook/internal/normalisers/sop"
)

// Ensure SOPService implements the interface.
var _ driving.SOPService = (*SOPService)(nil)

// snapshot is one immutable generation of the collection and its index.
type snapshot struct {
	sops    []domain.SOP
	entries []domain.SearchEntry
}

// SOPService owns the SOP collection of one workspace. The store is written
// through on every change, but the in-memory collection is authoritative:
// store failures are logged and swallowed.
type SOPService struct {
	store     driven.SOPStore
	workspace string
	canCreate bool
	now       func() time.Time

	// mu serialises writers; readers only load current.
	mu        sync.Mutex
	current   atomic.Pointer[snapshot]
	listeners []func()
}

// NewSOPService creates a service for workspace. canCreate gates Create
// and Import.
func NewSOPService(store driven.SOPStore, workspace string, canCreate bool) *SOPService {
	if workspace == "" {
		workspace = domain.DefaultWorkspace
	}
	s := &SOPService{
		store:     store,
		workspace: workspace,
		canCreate: canCreate,
		now:       time.Now,
	}
	s.current.Store(&snapshot{sops: []domain.SOP{}, entries: []domain.SearchEntry{}})
	return s
}

// Workspace returns the workspace this service manages.
func (s *SOPService) Workspace() string {
	return s.workspace
}

// Load replaces the in-memory collection with the stored one. A failing
// store leaves the service with an empty collection.
func (s *SOPService) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	logger.Section("Load SOPs")
	sops, err := s.store.ListSOPs(ctx, s.workspace)
	if err != nil {
		logger.Warn("Reading %s failed, starting empty: %v", domain.WorkspaceKey(s.workspace), err)
		sops = nil
	}

	normalised := make([]domain.SOP, 0, len(sops))
	for i := range sops {
		normalised = append(normalised, sop.Canonical(sops[i]))
	}

	s.mu.Lock()
	s.publish(normalised)
	s.mu.Unlock()
	s.notify()

	logger.Debug("Loaded %d SOPs for workspace %q", len(normalised), s.workspace)
	return nil
}

// List returns all SOPs in insertion order.
func (s *SOPService) List(_ context.Context) ([]domain.SOP, error) {
	return s.snapshotSOPs(), nil
}

// Get returns one SOP.
func (s *SOPService) Get(_ context.Context, id string) (*domain.SOP, error) {
	for _, item := range s.current.Load().sops {
		if item.ID == id {
			found := item.Clone()
			return &found, nil
		}
	}
	return nil, fmt.Errorf("sop %q: %w", id, domain.ErrNotFound)
}

// Create normalises and appends an SOP.
func (s *SOPService) Create(ctx context.Context, in domain.SOP) (*domain.SOP, error) {
	if !s.canCreate {
		return nil, fmt.Errorf("create sop: %w", domain.ErrPermissionDenied)
	}

	created := sop.Canonical(in)
	if created.LastUpdated == "" {
		created.LastUpdated = s.today()
	}

	s.mu.Lock()
	sops := s.snapshotSOPs()
	for i := range sops {
		if sops[i].ID == created.ID {
			s.mu.Unlock()
			return nil, fmt.Errorf("create sop %q: %w", created.ID, domain.ErrAlreadyExists)
		}
	}
	s.publish(append(sops, created))
	s.mu.Unlock()

	s.persist(ctx, func() error { return s.store.SaveSOP(ctx, s.workspace, &created) })
	s.notify()

	logger.Debug("Created SOP %q (%s)", created.Title, created.ID)
	out := created.Clone()
	return &out, nil
}

// Update merges patch over the stored SOP. The ID cannot be changed.
func (s *SOPService) Update(ctx context.Context, id string, patch map[string]any) (*domain.SOP, error) {
	s.mu.Lock()
	sops := s.snapshotSOPs()
	idx := -1
	for i := range sops {
		if sops[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return nil, fmt.Errorf("update sop %q: %w", id, domain.ErrNotFound)
	}

	updated := sop.Merge(sops[idx], patch)
	updated.ID = id
	if _, ok := patch["lastUpdated"]; !ok {
		updated.LastUpdated = s.today()
	}
	sops[idx] = updated
	s.publish(sops)
	s.mu.Unlock()

	s.persist(ctx, func() error { return s.store.SaveSOP(ctx, s.workspace, &updated) })
	s.notify()

	logger.Debug("Updated SOP %q (%s)", updated.Title, updated.ID)
	out := updated.Clone()
	return &out, nil
}

// Delete removes an SOP. Unknown IDs are ignored.
func (s *SOPService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	sops := s.snapshotSOPs()
	kept := sops[:0]
	for i := range sops {
		if sops[i].ID != id {
			kept = append(kept, sops[i])
		}
	}
	if len(kept) == len(sops) {
		s.mu.Unlock()
		logger.Debug("Delete of unknown SOP %q ignored", id)
		return nil
	}
	s.publish(kept)
	s.mu.Unlock()

	s.persist(ctx, func() error { return s.store.DeleteSOP(ctx, s.workspace, id) })
	s.notify()
	return nil
}

// Seed writes sops only when the workspace is empty.
func (s *SOPService) Seed(ctx context.Context, sops []domain.SOP) ([]domain.SOP, error) {
	s.mu.Lock()
	if existing := s.current.Load().sops; len(existing) > 0 {
		s.mu.Unlock()
		logger.Debug("Workspace %q already has %d SOPs, not seeding", s.workspace, len(existing))
		return s.snapshotSOPs(), nil
	}

	seeded := make([]domain.SOP, 0, len(sops))
	for i := range sops {
		seeded = append(seeded, sop.Canonical(sops[i]))
	}
	s.publish(seeded)
	s.mu.Unlock()

	s.persist(ctx, func() error { return s.store.ReplaceAll(ctx, s.workspace, seeded) })
	s.notify()

	logger.Debug("Seeded workspace %q with %d SOPs", s.workspace, len(seeded))
	return s.snapshotSOPs(), nil
}

// Import upserts sops by ID. Existing SOPs keep their position.
func (s *SOPService) Import(ctx context.Context, sops []domain.SOP) (int, error) {
	if !s.canCreate {
		return 0, fmt.Errorf("import sops: %w", domain.ErrPermissionDenied)
	}
	if len(sops) == 0 {
		return 0, nil
	}

	incoming := make([]domain.SOP, 0, len(sops))
	for i := range sops {
		incoming = append(incoming, sop.Canonical(sops[i]))
	}

	s.mu.Lock()
	current := s.snapshotSOPs()
	position := make(map[string]int, len(current))
	for i := range current {
		position[current[i].ID] = i
	}
	for i := range incoming {
		if idx, ok := position[incoming[i].ID]; ok {
			current[idx] = incoming[i]
			continue
		}
		position[incoming[i].ID] = len(current)
		current = append(current, incoming[i])
	}
	s.publish(current)
	s.mu.Unlock()

	for i := range incoming {
		item := incoming[i]
		s.persist(ctx, func() error { return s.store.SaveSOP(ctx, s.workspace, &item) })
	}
	s.notify()

	logger.Debug("Imported %d SOPs into workspace %q", len(incoming), s.workspace)
	return len(incoming), nil
}

// Filter returns SOPs passing the sidebar filter.
func (s *SOPService) Filter(_ context.Context, filter domain.SOPFilter) ([]domain.SOP, error) {
	sops := s.current.Load().sops
	out := make([]domain.SOP, 0, len(sops))
	for i := range sops {
		if filter.Matches(&sops[i]) {
			out = append(out, sops[i].Clone())
		}
	}
	return out, nil
}

// Categories returns per-category counts in sidebar order.
func (s *SOPService) Categories(_ context.Context) []domain.CategoryCount {
	counts := make(map[domain.Category]int)
	for _, item := range s.current.Load().sops {
		counts[item.Category]++
	}

	out := make([]domain.CategoryCount, 0, len(domain.Categories()))
	for _, c := range domain.Categories() {
		out = append(out, domain.CategoryCount{Category: c, Count: counts[c]})
	}
	return out
}

// Entries returns the current index snapshot. Callers must not modify it.
func (s *SOPService) Entries() []domain.SearchEntry {
	return s.current.Load().entries
}

// CanCreate reports whether creation is enabled.
func (s *SOPService) CanCreate() bool {
	return s.canCreate
}

// OnChange registers fn to run after every change.
func (s *SOPService) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// publish builds a new snapshot. Caller must hold mu.
func (s *SOPService) publish(sops []domain.SOP) {
	start := time.Now()
	entries := index.Build(sops)
	s.current.Store(&snapshot{sops: sops, entries: entries})
	logger.Timed(start, "Rebuilt index: %d SOPs, %d entries", len(sops), len(entries))
}

func (s *SOPService) notify() {
	s.mu.Lock()
	listeners := append([]func(){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// persist runs a store write and swallows its failure.
func (s *SOPService) persist(ctx context.Context, write func() error) {
	if err := write(); err != nil {
		logger.Warn("Writing %s failed, keeping in-memory state: %v", domain.WorkspaceKey(s.workspace), err)
		return
	}
	if ctx.Err() != nil {
		logger.Debug("Context done after write: %v", ctx.Err())
	}
}

// snapshotSOPs returns a deep copy of the current collection that the
// caller may modify freely.
func (s *SOPService) snapshotSOPs() []domain.SOP {
	return domain.CloneSOPs(s.current.Load().sops)
}

func (s *SOPService) today() string {
	return s.now().Format("2006-01-02")
}
