package domain

import "time"

// RetrievalRequest is one instruction for the grounded generator.
// It is built per search and discarded after use.
type RetrievalRequest struct {
	// Query is the user's topic of interest.
	Query string

	// ReferenceDate anchors "future" and "past" for the generator.
	ReferenceDate time.Time

	// CandidateSources are the handles the generator may draw from.
	CandidateSources []SourceHandle

	// Instruction is the rendered prompt text.
	Instruction string

	// SearchGrounding enables the provider's search tool.
	SearchGrounding bool
}

// Citation is one web source reported by the generator.
type Citation struct {
	URI   string `json:"uri"`
	Title string `json:"title,omitempty"`
}

// Label returns the title, or the URI when no title was given.
func (c Citation) Label() string {
	if c.Title != "" {
		return c.Title
	}
	return c.URI
}

// RawResponse is the untrusted output of a grounded generation call.
type RawResponse struct {
	// Text may be empty, prose, or a JSON array wrapped in code fences.
	Text string

	// Citations lists the sources the generator grounded on.
	Citations []Citation
}
