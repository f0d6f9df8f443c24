package cli

import (
	"context"
	"errors"

	"github.com/throughnateseyes/playbook/internal/adapters/driven/storage/memory"
	"github.com/throughnateseyes/playbook/internal/core/domain"
	"github.com/throughnateseyes/playbook/internal/core/services"
	"github.com/throughnateseyes/playbook/internal/seed"
)

// setupTestServices installs memory-backed services holding the seed SOPs
// and returns a function restoring the previous ones.
func setupTestServices() func() {
	oldSOP, oldSearch, oldSettings := sopService, searchService, settingsService
	oldFactory, oldClose := serviceFactory, closeServices

	sops := services.NewSOPService(memory.NewSOPStore(), domain.DefaultWorkspace, true)
	if _, err := sops.Seed(context.Background(), seed.SOPs()); err != nil {
		panic(err)
	}

	sopService = sops
	searchService = services.NewSearchService(sops)
	settingsService = services.NewSettingsService(memory.NewConfigStore())
	serviceFactory = nil
	closeServices = nil

	return func() {
		sopService, searchService, settingsService = oldSOP, oldSearch, oldSettings
		serviceFactory, closeServices = oldFactory, oldClose
	}
}

// mockSearchServiceError always fails.
type mockSearchServiceError struct{}

func (m *mockSearchServiceError) Search(
	_ context.Context, _ string, _ domain.SearchOptions,
) ([]domain.SearchResult, error) {
	return nil, errors.New("search error")
}
