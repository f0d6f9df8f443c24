package main

import (
	"context"
	"fmt"

	"github.com/throughnateseyes/playbook/internal/adapters/driven/config/file"
	"github.com/throughnateseyes/playbook/internal/adapters/driven/storage/memory"
	"github.com/throughnateseyes/playbook/internal/adapters/driven/storage/sqlite"
	"github.com/throughnateseyes/playbook/internal/adapters/driving/cli"
	"github.com/throughnateseyes/playbook/internal/core/domain"
	"github.com/throughnateseyes/playbook/internal/core/ports/driven"
	"github.com/throughnateseyes/playbook/internal/core/services"
	"github.com/throughnateseyes/playbook/internal/logger"
	"github.com/throughnateseyes/playbook/internal/seed"
)

// newServices wires storage and core services. Flags in opts override the
// values stored in config.toml for this run only.
func newServices(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	logger.Debug("Config: %s", configStore.Path())

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	workspace := settings.Workspace
	if opts.Workspace != "" {
		workspace = opts.Workspace
	}

	backend := settings.Storage.Backend
	if opts.Backend != "" {
		backend = domain.StorageBackend(opts.Backend)
		if !backend.IsValid() {
			return nil, fmt.Errorf("%w: unknown storage backend %q", domain.ErrInvalidInput, opts.Backend)
		}
	}

	dataDir := settings.Storage.DataDir
	if opts.DataDir != "" {
		dataDir = opts.DataDir
	}

	store, closeStore, err := openSOPStore(backend, dataDir)
	if err != nil {
		return nil, err
	}

	sopService := services.NewSOPService(store, workspace, settings.Permissions.CanCreateSOP)
	if err := sopService.Load(ctx); err != nil {
		_ = closeStore()
		return nil, fmt.Errorf("loading SOPs: %w", err)
	}
	if _, err := sopService.Seed(ctx, seed.SOPs()); err != nil {
		_ = closeStore()
		return nil, fmt.Errorf("seeding SOPs: %w", err)
	}

	return &cli.Services{
		SOP:      sopService,
		Search:   services.NewSearchService(sopService),
		Settings: settingsService,
		Close:    closeStore,
	}, nil
}

// openSOPStore opens the configured backend and returns its closer.
func openSOPStore(backend domain.StorageBackend, dataDir string) (driven.SOPStore, func() error, error) {
	switch backend {
	case domain.StorageMemory:
		logger.Debug("Storage: memory")
		return memory.NewSOPStore(), func() error { return nil }, nil
	case domain.StorageSQLite:
		store, err := sqlite.NewStore(dataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		logger.Debug("Storage: sqlite at %s", store.Path())
		return store.SOPStore(), store.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown storage backend %q", domain.ErrInvalidInput, backend)
	}
}
