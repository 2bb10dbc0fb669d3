// Package httpapi serves the search session over HTTP.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/custodia-labs/scout-cli/internal/core/ports/driving"
)

// Ports holds the driving ports the HTTP API depends on.
type Ports struct {
	// Session runs queries and holds the latest result set.
	Session driving.SessionService

	// Search lists the candidate sources.
	Search driving.EventSearchService

	// Metrics serves /metrics when set.
	Metrics http.Handler
}

// Validate checks that required ports are present.
func (p *Ports) Validate() error {
	if p == nil {
		return errors.New("ports cannot be nil")
	}
	if p.Session == nil {
		return errors.New("session service is required")
	}
	if p.Search == nil {
		return errors.New("search service is required")
	}
	return nil
}
