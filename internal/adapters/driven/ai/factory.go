// Package ai provides factory functions for creating grounded generator adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	anthropicllm "github.com/custodia-labs/scout-cli/internal/adapters/driven/llm/anthropic"
	geminillm "github.com/custodia-labs/scout-cli/internal/adapters/driven/llm/gemini"
	openaillm "github.com/custodia-labs/scout-cli/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/scout-cli/internal/adapters/driven/llm/ratelimit"
	"github.com/custodia-labs/scout-cli/internal/core/domain"
	"github.com/custodia-labs/scout-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateGenerator creates the grounded generator selected by settings,
// wrapped in a rate limiter. Construction does not contact the provider.
func CreateGenerator(ctx context.Context, settings *domain.GeneratorSettings) (driven.GroundedGenerator, error) {
	if settings == nil || !settings.IsConfigured() {
		provider := domain.GeneratorProvider("")
		if settings != nil {
			provider = settings.Provider
		}
		return nil, fmt.Errorf("%w: %s. Run 'scout settings provider' or 'scout settings key' to fix",
			domain.ErrProviderNotConfigured, provider.Description())
	}

	gen, err := createProvider(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGeneratorUnavailable, err)
	}
	return ratelimit.New(gen, settings.RequestsPerMinute), nil
}

// CreateAndValidateGenerator creates a generator and validates connectivity.
// Returns the generator if successful, or an error with guidance.
func CreateAndValidateGenerator(ctx context.Context, settings *domain.GeneratorSettings) (driven.GroundedGenerator, error) {
	gen, err := CreateGenerator(ctx, settings)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := gen.Ping(pingCtx); err != nil {
		gen.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'scout settings show' to check",
			domain.ErrGeneratorUnavailable, err)
	}
	return gen, nil
}

// ValidateGeneratorConfig creates a generator from settings and pings it.
// Intended for validating credentials right after they are configured.
func ValidateGeneratorConfig(settings *domain.GeneratorSettings) error {
	gen, err := CreateAndValidateGenerator(context.Background(), settings)
	if err != nil {
		return err
	}
	return gen.Close()
}

// createProvider builds the bare provider adapter.
func createProvider(ctx context.Context, settings *domain.GeneratorSettings) (driven.GroundedGenerator, error) {
	switch settings.Provider {
	case domain.ProviderGemini:
		return geminillm.NewGenerator(ctx, geminillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.ModelOrDefault(),
			Timeout: settings.Timeout,
		})

	case domain.ProviderOpenAI:
		return openaillm.NewGenerator(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.ModelOrDefault(),
			Timeout: settings.Timeout,
		})

	case domain.ProviderAnthropic:
		return anthropicllm.NewGenerator(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.ModelOrDefault(),
			Timeout: settings.Timeout,
		})

	default:
		return nil, fmt.Errorf("unsupported generator provider: %s", settings.Provider)
	}
}
