package driven

import "github.com/custodia-labs/scout-cli/internal/core/domain"

// SourceRegistry provides the allow-listed club channels.
// The list is loaded once and never refreshed during the process lifetime.
type SourceRegistry interface {
	// Sources returns the handles in registry order.
	// Callers must not modify the returned slice.
	Sources() []domain.SourceHandle
}
