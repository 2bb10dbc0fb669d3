package driving

import "github.com/custodia-labs/scout-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetProvider configures the generator provider and model.
	SetProvider(provider domain.GeneratorProvider, model string) error

	// SetAPIKey stores the API key for the current provider.
	SetAPIKey(apiKey string) error

	// Validate checks that the current settings are well formed.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateGeneratorConfig validates the current generator by pinging the provider.
	ValidateGeneratorConfig() error
}
