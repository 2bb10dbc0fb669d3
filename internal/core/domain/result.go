package domain

import "time"

// SearchResult is the outcome of one pipeline run.
type SearchResult struct {
	// RunID identifies the run in logs.
	RunID string `json:"runId"`

	Query         string    `json:"query"`
	ReferenceDate time.Time `json:"referenceDate"`

	// Events are normalised and classified, in generator order.
	Events []EventRecord `json:"events"`

	// Citations are surfaced as verified sources.
	Citations []Citation `json:"citations"`

	// Warnings lists per-record repairs and drops.
	Warnings []RecordShapeWarning `json:"-"`

	// Malformed is set when the response could not be decoded.
	// Events is then empty.
	Malformed bool `json:"malformed,omitempty"`
}

// IsEmpty returns true if no events were found.
func (r *SearchResult) IsEmpty() bool {
	return r == nil || len(r.Events) == 0
}

// SessionState is the snapshot a rendering layer reads.
type SessionState struct {
	// Loading is true while a query is in flight.
	Loading bool `json:"loading"`

	// Query is the most recently submitted query.
	Query string `json:"query,omitempty"`

	// Events of the most recent completed query.
	Events []EventRecord `json:"events"`

	// Citations of the most recent retrieval.
	Citations []Citation `json:"citations"`

	// Failed is set when the most recent query ended in a terminal error.
	Failed bool `json:"failed,omitempty"`

	// UpdatedAt is when the result set was last replaced.
	UpdatedAt time.Time `json:"updatedAt"`
}

// Display messages shared by all surfaces.
const (
	// EmptyStateMessage is shown when a query yields no events.
	EmptyStateMessage = "We couldn't find specific upcoming events for that interest right now."

	// FailureMessage is shown when a query ends in a terminal error.
	FailureMessage = "Couldn't find anything right now. Please try again."
)

// SuggestedQueries are offered to users who have not typed anything yet.
func SuggestedQueries() []string {
	return []string{"Tech & Coding", "Hiring & Executives", "Business & Finance"}
}
