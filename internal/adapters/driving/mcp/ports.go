package mcp

import (
	"github.com/custodia-labs/scout-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search runs the event pipeline and lists candidate sources.
	Search driving.EventSearchService

	// Session is optional. When set, tool calls go through it so only one
	// query runs at a time and the latest results are readable as a resource.
	Session driving.SessionService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p == nil || p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
