package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/throughnateseyes/playbook/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for playbook resources.
	uriScheme = "playbook://"

	sopsPrefix   = uriScheme + "sops/"
	jsonMIMEType = "application/json"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "sops",
		Name:        "sops",
		Description: "Every SOP in the workspace, in summary form",
		MIMEType:    jsonMIMEType,
	}, s.handleSOPsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "sops/{sopId}",
		Name:        "sop",
		Description: "One SOP in full",
		MIMEType:    jsonMIMEType,
	}, s.handleSOPResource)
}

// handleSOPsResource lists every SOP.
func (s *Server) handleSOPsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	sops, err := s.ports.SOP.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sops: %w", err)
	}
	return jsonResource(req.Params.URI, summarise(sops))
}

// handleSOPResource returns one SOP.
func (s *Server) handleSOPResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractSOPID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	sop, err := s.ports.SOP.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return nil, fmt.Errorf("getting sop: %w", err)
	}
	return jsonResource(req.Params.URI, sop)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: jsonMIMEType,
			Text:     string(data),
		}},
	}, nil
}

// sopURI builds the resource URI for an SOP. IDs are path-escaped.
func sopURI(id string) string {
	return sopsPrefix + url.PathEscape(id)
}

// extractSOPID extracts the SOP ID from a URI like playbook://sops/{sopId}.
func extractSOPID(uri string) string {
	if !strings.HasPrefix(uri, sopsPrefix) {
		return ""
	}
	raw := strings.TrimPrefix(uri, sopsPrefix)
	if raw == "" || strings.Contains(raw, "/") {
		return ""
	}
	id, err := url.PathUnescape(raw)
	if err != nil {
		return ""
	}
	return id
}
