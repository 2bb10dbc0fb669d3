// Command scout finds upcoming UBC club events, deadlines and spotlights
// for an interest by asking a search-grounded model about a fixed list of
// club accounts.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/scout-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/scout-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/scout-cli/internal/adapters/driven/metrics/prom"
	"github.com/custodia-labs/scout-cli/internal/adapters/driven/registry"
	"github.com/custodia-labs/scout-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/scout-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scout-cli/internal/core/services"
	"github.com/custodia-labs/scout-cli/internal/logger"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx)
	stop()
	os.Exit(code)
}

func run(ctx context.Context) int {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	settings, err := settingsService.Get()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	sources, err := registry.Load(settings.SourcesFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: load sources: %v\n", err)
		return 1
	}

	prompts, err := file.NewPromptStore("", map[string]string{
		driven.PromptEventSearch: services.DefaultEventSearchPrompt,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// A missing generator is not fatal: settings and sources still work,
	// and commands that need one report genErr.
	generator, genErr := ai.CreateGenerator(ctx, &settings.Generator)
	if genErr != nil {
		logger.Debug("Generator unavailable: %v", genErr)
	}
	if generator != nil {
		defer func() {
			if err := generator.Close(); err != nil {
				logger.Warn("Close generator: %v", err)
			}
		}()
	}

	metrics := prom.New()
	searchService := services.NewEventSearchService(generator, sources, metrics)
	searchService.SetPromptStore(prompts)

	cli.SetVersion(version)
	cli.SetServices(&cli.Services{
		Search:       searchService,
		Session:      services.NewSession(searchService),
		Settings:     settingsService,
		Prompts:      prompts,
		Metrics:      metrics.Handler(),
		GeneratorErr: genErr,
	})

	// Cobra has already printed the error.
	if err := cli.Execute(ctx); err != nil {
		return 1
	}
	return 0
}
