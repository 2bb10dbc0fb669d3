package services

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/custodia-labs/scout-cli/internal/core/domain"
	"github.com/custodia-labs/scout-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scout-cli/internal/core/ports/driving"
	"github.com/custodia-labs/scout-cli/internal/validate"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyProvider          = "generator.provider"
	keyModel             = "generator.model"
	keyBaseURL           = "generator.base_url"
	keyAPIKey            = "generator.api_key"
	keyRequestsPerMinute = "generator.requests_per_minute"
	keyTimeoutSeconds    = "generator.timeout_seconds"
	keySourcesFile       = "sources.file"
)

// apiKeyEnv lists the environment variables consulted when no key is stored,
// most specific first.
var apiKeyEnv = map[domain.GeneratorProvider][]string{
	domain.ProviderGemini:    {"GEMINI_API_KEY", "GOOGLE_API_KEY", "API_KEY"},
	domain.ProviderOpenAI:    {"OPENAI_API_KEY", "API_KEY"},
	domain.ProviderAnthropic: {"ANTHROPIC_API_KEY", "API_KEY"},
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	validator   driven.GeneratorValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
// The validator parameter is optional (can be nil).
func NewSettingsService(configStore driven.ConfigStore, validator driven.GeneratorValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		validator:   validator,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings.
// A stored API key wins over the environment.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	provider := s.getProvider(defaults.Generator.Provider)
	model := s.configStore.GetString(keyModel)
	if model == "" {
		model = domain.DefaultModels()[provider]
	}
	timeout := defaults.Generator.Timeout
	if secs := s.configStore.GetInt(keyTimeoutSeconds); secs > 0 {
		timeout = time.Duration(secs) * time.Second
	}

	settings := &domain.AppSettings{
		Generator: domain.GeneratorSettings{
			Provider:          provider,
			Model:             model,
			BaseURL:           s.configStore.GetString(keyBaseURL),
			APIKey:            s.configStore.GetString(keyAPIKey),
			RequestsPerMinute: s.getInt(keyRequestsPerMinute, defaults.Generator.RequestsPerMinute),
			Timeout:           timeout,
		},
		SourcesFile: s.configStore.GetString(keySourcesFile),
	}
	if settings.Generator.APIKey == "" {
		settings.Generator.APIKey = s.envAPIKey(provider)
	}
	return settings, nil
}

// Save persists application settings.
// An API key that came from the environment is not written back.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	g := settings.Generator
	if err := s.configStore.Set(keyProvider, g.Provider.String()); err != nil {
		return fmt.Errorf("save generator provider: %w", err)
	}
	if err := s.configStore.Set(keyModel, g.Model); err != nil {
		return fmt.Errorf("save generator model: %w", err)
	}
	if err := s.configStore.Set(keyBaseURL, g.BaseURL); err != nil {
		return fmt.Errorf("save generator base_url: %w", err)
	}
	if g.APIKey != "" && g.APIKey != s.envAPIKey(g.Provider) {
		if err := s.configStore.Set(keyAPIKey, g.APIKey); err != nil {
			return fmt.Errorf("save generator api_key: %w", err)
		}
	}
	if err := s.configStore.Set(keyRequestsPerMinute, g.RequestsPerMinute); err != nil {
		return fmt.Errorf("save generator requests_per_minute: %w", err)
	}
	if err := s.configStore.Set(keyTimeoutSeconds, int(g.Timeout/time.Second)); err != nil {
		return fmt.Errorf("save generator timeout_seconds: %w", err)
	}
	if err := s.configStore.Set(keySourcesFile, settings.SourcesFile); err != nil {
		return fmt.Errorf("save sources file: %w", err)
	}
	return nil
}

// SetProvider configures the generator provider and model.
// An empty model selects the provider default.
func (s *SettingsService) SetProvider(provider domain.GeneratorProvider, model string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid generator provider: %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	if settings.Generator.Provider != provider {
		// Keys are provider specific.
		settings.Generator.APIKey = ""
		if err := s.configStore.Set(keyAPIKey, ""); err != nil {
			return fmt.Errorf("clear generator api_key: %w", err)
		}
		settings.Generator.BaseURL = ""
	}
	settings.Generator.Provider = provider
	settings.Generator.Model = model
	if model == "" {
		settings.Generator.Model = domain.DefaultModels()[provider]
	}

	return s.Save(settings)
}

// SetAPIKey stores the API key for the current provider.
func (s *SettingsService) SetAPIKey(apiKey string) error {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return fmt.Errorf("%w: API key is empty", domain.ErrInvalidInput)
	}
	if err := s.configStore.Set(keyAPIKey, apiKey); err != nil {
		return fmt.Errorf("save generator api_key: %w", err)
	}
	return nil
}

// Validate checks that the current settings are well formed.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	fes, err := validate.Struct(settings.Generator)
	if err != nil {
		return err
	}
	if len(fes) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(validate.Messages(fes), "; "))
	}
	if !settings.Generator.Provider.IsValid() {
		return fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, settings.Generator.Provider)
	}
	if !settings.Generator.IsConfigured() {
		return fmt.Errorf("%w: %s requires an API key (set %s or run 'scout settings key')",
			domain.ErrProviderNotConfigured,
			settings.Generator.Provider.Description(),
			apiKeyEnv[settings.Generator.Provider][0])
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateGeneratorConfig validates the current generator by pinging the provider.
func (s *SettingsService) ValidateGeneratorConfig() error {
	if s.validator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if err := s.validator.ValidateGenerator(&settings.Generator); err != nil {
		return errors.Join(domain.ErrGeneratorUnavailable, err)
	}
	return nil
}

// Helper methods for reading config with defaults.

func (s *SettingsService) envAPIKey(provider domain.GeneratorProvider) string {
	for _, name := range apiKeyEnv[provider] {
		if v := strings.TrimSpace(s.getenv(name)); v != "" {
			return v
		}
	}
	return ""
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getProvider(defaultVal domain.GeneratorProvider) domain.GeneratorProvider {
	val := s.configStore.GetString(keyProvider)
	if val == "" {
		return defaultVal
	}
	provider := domain.GeneratorProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
