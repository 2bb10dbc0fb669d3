package driving

import (
	"context"

	"github.com/custodia-labs/scout-cli/internal/core/domain"
)

// EventSearchService runs the query-to-event pipeline for external actors.
type EventSearchService interface {
	// Search builds a retrieval request for query, calls the grounded generator,
	// and returns the normalised, classified events with their citations.
	// A malformed response yields an empty result, not an error.
	// A failed retrieval yields an error matching domain.ErrRetrieval.
	Search(ctx context.Context, query string) (*domain.SearchResult, error)

	// Sources returns the candidate sources used for every query.
	Sources() []domain.SourceHandle
}

// SessionService holds the state a rendering layer displays.
// At most one query is in flight at a time.
type SessionService interface {
	// Submit runs query unless another is in flight, in which case it
	// returns domain.ErrQueryInFlight. The previous result set is replaced
	// wholesale when the query completes.
	Submit(ctx context.Context, query string) (*domain.SearchResult, error)

	// State returns a snapshot of the loading flag, events and citations.
	State() domain.SessionState
}
