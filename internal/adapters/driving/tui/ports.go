// Package tui provides an interactive terminal user interface for scout.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/scout-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
type Ports struct {
	// Session runs queries; only one is in flight at a time.
	Session driving.SessionService

	// Search lists the candidate sources.
	Search driving.EventSearchService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(session driving.SessionService, search driving.EventSearchService) *Ports {
	return &Ports{
		Session: session,
		Search:  search,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Session == nil {
		return ErrMissingSessionService
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
