package mcp

import (
	"context"
	"testing"

	"github.com/throughnateseyes/playbook/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results   []domain.SearchResult
	err       error
	lastQuery string
	lastOpts  domain.SearchOptions
}

func (m *mockSearchService) Search(
	_ context.Context,
	query string,
	opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	m.lastQuery = query
	m.lastOpts = opts
	return m.results, m.err
}

// mockSOPService is a mock implementation of driving.SOPService.
type mockSOPService struct {
	sops       []domain.SOP
	err        error
	lastFilter domain.SOPFilter
}

func (m *mockSOPService) List(_ context.Context) ([]domain.SOP, error) {
	return m.sops, m.err
}

func (m *mockSOPService) Get(_ context.Context, id string) (*domain.SOP, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.sops {
		if m.sops[i].ID == id {
			return &m.sops[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockSOPService) Create(_ context.Context, sop domain.SOP) (*domain.SOP, error) {
	return &sop, m.err
}

func (m *mockSOPService) Update(_ context.Context, _ string, _ map[string]any) (*domain.SOP, error) {
	return nil, m.err
}

func (m *mockSOPService) Delete(_ context.Context, _ string) error {
	return m.err
}

func (m *mockSOPService) Seed(_ context.Context, _ []domain.SOP) ([]domain.SOP, error) {
	return m.sops, m.err
}

func (m *mockSOPService) Import(_ context.Context, sops []domain.SOP) (int, error) {
	return len(sops), m.err
}

func (m *mockSOPService) Filter(_ context.Context, filter domain.SOPFilter) ([]domain.SOP, error) {
	m.lastFilter = filter
	if m.err != nil {
		return nil, m.err
	}
	out := []domain.SOP{}
	for i := range m.sops {
		if filter.Matches(&m.sops[i]) {
			out = append(out, m.sops[i])
		}
	}
	return out, nil
}

func (m *mockSOPService) Categories(_ context.Context) []domain.CategoryCount {
	return nil
}

func (m *mockSOPService) Entries() []domain.SearchEntry {
	return nil
}

func (m *mockSOPService) CanCreate() bool {
	return true
}

func (m *mockSOPService) OnChange(_ func()) {}

func testSOPs() []domain.SOP {
	return []domain.SOP{
		{
			ID:       "1",
			Title:    "Emergency Maintenance Request",
			Category: domain.CategoryOperations,
			Tags:     []string{"Urgent"},
			Steps:    []domain.Step{{Text: "Assess the severity"}},
		},
		{
			ID:       "6",
			Title:    "Lease Renewal Outreach",
			Category: domain.CategoryLeasing,
			Tags:     []string{"Retention"},
		},
		{
			ID:       "team/7",
			Title:    "Slash In ID",
			Category: domain.CategoryFinance,
		},
	}
}

func newTestServer(t *testing.T) (*Server, *mockSearchService, *mockSOPService) {
	t.Helper()
	search := &mockSearchService{}
	sops := &mockSOPService{sops: testSOPs()}
	server, err := NewServer(&Ports{Search: search, SOP: sops})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return server, search, sops
}
