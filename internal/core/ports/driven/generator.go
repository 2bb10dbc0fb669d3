// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import (
	"context"

	"github.com/custodia-labs/scout-cli/internal/core/domain"
)

// GroundedGenerator runs a search-augmented text generation call.
// The output is untrusted: all validation belongs to the normaliser.
//
// Implementations include:
//   - Gemini (Google Search grounding)
//   - OpenAI (Responses API web_search tool)
//   - Anthropic (Messages API web_search tool)
type GroundedGenerator interface {
	// Retrieve sends the request instruction and returns the raw text and citations.
	// It blocks until the service responds and never retries.
	Retrieve(ctx context.Context, req domain.RetrievalRequest) (domain.RawResponse, error)

	// Provider returns the provider identifier.
	Provider() domain.GeneratorProvider

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable and the credentials are accepted.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
