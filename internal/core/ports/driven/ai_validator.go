package driven

import "github.com/custodia-labs/scout-cli/internal/core/domain"

// GeneratorValidator validates generator configurations.
// Implementations verify settings by testing connectivity to the provider.
type GeneratorValidator interface {
	// ValidateGenerator pings the configured provider.
	// Returns nil if the configuration works.
	ValidateGenerator(settings *domain.GeneratorSettings) error
}
