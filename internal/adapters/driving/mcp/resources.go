package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for Scout resources.
	uriScheme = "scout://"

	sourcesURI = uriScheme + "sources"
	stateURI   = uriScheme + "state"
)

// sourceInfo is one entry of the sources resource.
type sourceInfo struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         sourcesURI,
		Name:        "sources",
		Description: "Club accounts the search may draw from",
		MIMEType:    "application/json",
	}, s.handleSourcesResource)

	if s.ports.Session != nil {
		s.server.AddResource(&mcp.Resource{
			URI:         stateURI,
			Name:        "state",
			Description: "Events and citations of the most recent find_events call",
			MIMEType:    "application/json",
		}, s.handleStateResource)
	}
}

// handleSourcesResource returns the candidate source list.
func (s *Server) handleSourcesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	sources := s.ports.Search.Sources()
	infos := make([]sourceInfo, len(sources))
	for i, src := range sources {
		infos[i] = sourceInfo{Name: src.Name(), URL: src.String()}
	}
	return jsonResource(req.Params.URI, infos)
}

// handleStateResource returns the session snapshot.
func (s *Server) handleStateResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return jsonResource(req.Params.URI, s.ports.Session.State())
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
