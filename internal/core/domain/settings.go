package domain

import "time"

const unknownDescription = "Unknown"

// GeneratorProvider identifies a grounded generation service.
type GeneratorProvider string

// Available generator providers.
const (
	// ProviderGemini is Google Gemini with Google Search grounding.
	ProviderGemini GeneratorProvider = "gemini"

	// ProviderOpenAI is the OpenAI Responses API with web search.
	ProviderOpenAI GeneratorProvider = "openai"

	// ProviderAnthropic is the Anthropic Messages API with web search.
	ProviderAnthropic GeneratorProvider = "anthropic"
)

// IsValid returns true if the provider is recognised.
func (p GeneratorProvider) IsValid() bool {
	switch p {
	case ProviderGemini, ProviderOpenAI, ProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider cannot run without an API key.
// Gemini can fall back to Application Default Credentials.
func (p GeneratorProvider) RequiresAPIKey() bool {
	return p == ProviderOpenAI || p == ProviderAnthropic
}

// String returns the string representation.
func (p GeneratorProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p GeneratorProvider) Description() string {
	switch p {
	case ProviderGemini:
		return "Google Gemini (Google Search grounding)"
	case ProviderOpenAI:
		return "OpenAI (web search tool)"
	case ProviderAnthropic:
		return "Anthropic (web search tool)"
	default:
		return unknownDescription
	}
}

// AllProviders returns every supported generator provider.
func AllProviders() []GeneratorProvider {
	return []GeneratorProvider{ProviderGemini, ProviderOpenAI, ProviderAnthropic}
}

// DefaultModels returns the default model for each provider.
func DefaultModels() map[GeneratorProvider]string {
	return map[GeneratorProvider]string{
		ProviderGemini:    "gemini-2.5-flash",
		ProviderOpenAI:    "gpt-4.1-mini",
		ProviderAnthropic: "claude-3-7-sonnet-latest",
	}
}

// GeneratorSettings holds grounded generator configuration.
type GeneratorSettings struct {
	// Provider is the generation service.
	Provider GeneratorProvider `validate:"required"`

	// Model is the model name. Empty means the provider default.
	Model string

	// BaseURL overrides the provider endpoint.
	BaseURL string `validate:"omitempty,url"`

	// APIKey authenticates with the provider.
	APIKey string

	// RequestsPerMinute bounds outgoing calls. Zero disables limiting.
	RequestsPerMinute int `validate:"gte=0,lte=600"`

	// Timeout bounds one retrieval call.
	Timeout time.Duration `validate:"gte=0"`
}

// IsConfigured returns true if the provider is set up.
func (g GeneratorSettings) IsConfigured() bool {
	if !g.Provider.IsValid() {
		return false
	}
	if g.Provider.RequiresAPIKey() && g.APIKey == "" {
		return false
	}
	return true
}

// ModelOrDefault returns Model, or the provider default when empty.
func (g GeneratorSettings) ModelOrDefault() string {
	if g.Model != "" {
		return g.Model
	}
	return DefaultModels()[g.Provider]
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Generator holds grounded generator settings.
	Generator GeneratorSettings

	// SourcesFile optionally replaces the built-in source registry.
	SourcesFile string
}

// DefaultAppSettings returns settings with sensible defaults.
// The API key is left empty; users supply it via settings or environment.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Generator: GeneratorSettings{
			Provider:          ProviderGemini,
			Model:             DefaultModels()[ProviderGemini],
			RequestsPerMinute: 10,
			Timeout:           90 * time.Second,
		},
	}
}
