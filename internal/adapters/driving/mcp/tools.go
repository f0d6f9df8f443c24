package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/throughnateseyes/playbook/internal/core/domain"
)

// defaultSearchLimit applies when the caller does not ask for a limit.
const defaultSearchLimit = 10

// SearchInput is the input schema for the search_sops tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"text to find in SOP titles and sections"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// SearchOutput is the output schema for the search_sops tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	SOPID    string `json:"sop_id"`
	SOPTitle string `json:"sop_title"`
	Category string `json:"category"`
	Kind     string `json:"kind"`
	Section  string `json:"section,omitempty"`
	Snippet  string `json:"snippet"`
	URI      string `json:"uri"`
}

// GetSOPInput is the input schema for the get_sop tool.
type GetSOPInput struct {
	ID string `json:"id" jsonschema:"the SOP id"`
}

// GetSOPOutput is the output schema for the get_sop tool.
type GetSOPOutput struct {
	SOP domain.SOP `json:"sop"`
}

// ListSOPsInput is the input schema for the list_sops tool.
type ListSOPsInput struct {
	Category string `json:"category,omitempty" jsonschema:"only list SOPs in this category"`
	Filter   string `json:"filter,omitempty" jsonschema:"text to match against title, tags and overview"`
}

// ListSOPsOutput is the output schema for the list_sops tool.
type ListSOPsOutput struct {
	SOPs  []SOPSummary `json:"sops"`
	Count int          `json:"count"`
}

// SOPSummary is the short form of an SOP used in listings.
type SOPSummary struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	LastUpdated string   `json:"last_updated,omitempty"`
	URI         string   `json:"uri"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_sops",
		Description: "Search standard operating procedures by title and section text",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_sop",
		Description: "Fetch one standard operating procedure with all its steps, contacts and escalation",
	}, s.handleGetSOP)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_sops",
		Description: "List standard operating procedures, optionally by category",
	}, s.handleListSOPs)
}

// handleSearch handles the search_sops tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	results, err := s.ports.Search.Search(ctx, input.Query, domain.SearchOptions{Limit: limit})
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		entry := results[i].Entry
		output.Results[i] = SearchResultOutput{
			SOPID:    entry.DocumentID,
			SOPTitle: entry.DocumentTitle,
			Category: entry.DocumentCategory.String(),
			Kind:     string(entry.Kind),
			Section:  entry.SectionLabel,
			Snippet:  results[i].Snippet,
			URI:      sopURI(entry.DocumentID),
		}
	}

	return nil, output, nil
}

// handleGetSOP handles the get_sop tool invocation.
func (s *Server) handleGetSOP(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetSOPInput,
) (*mcp.CallToolResult, GetSOPOutput, error) {
	sop, err := s.ports.SOP.Get(ctx, input.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, GetSOPOutput{}, fmt.Errorf("no SOP with id %q", input.ID)
		}
		return nil, GetSOPOutput{}, err
	}
	return nil, GetSOPOutput{SOP: *sop}, nil
}

// handleListSOPs handles the list_sops tool invocation.
func (s *Server) handleListSOPs(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListSOPsInput,
) (*mcp.CallToolResult, ListSOPsOutput, error) {
	sops, err := s.ports.SOP.Filter(ctx, domain.SOPFilter{
		Category: domain.Category(input.Category),
		Text:     input.Filter,
	})
	if err != nil {
		return nil, ListSOPsOutput{}, err
	}

	summaries := summarise(sops)
	return nil, ListSOPsOutput{SOPs: summaries, Count: len(summaries)}, nil
}

func summarise(sops []domain.SOP) []SOPSummary {
	out := make([]SOPSummary, len(sops))
	for i := range sops {
		out[i] = SOPSummary{
			ID:          sops[i].ID,
			Title:       sops[i].Title,
			Category:    sops[i].Category.String(),
			Tags:        sops[i].Tags,
			LastUpdated: sops[i].LastUpdated,
			URI:         sopURI(sops[i].ID),
		}
	}
	return out
}
