// Package cli implements the scout command line.
package cli

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scout-cli/internal/core/ports/driving"
	"github.com/custodia-labs/scout-cli/internal/logger"
)

// PromptWatcher reloads prompt templates when their files change.
type PromptWatcher interface {
	Watch(ctx context.Context) (<-chan string, error)
}

// Services holds everything the commands depend on.
type Services struct {
	Search   driving.EventSearchService
	Session  driving.SessionService
	Settings driving.SettingsService

	// Prompts is optional. Long-running commands watch it for edits.
	Prompts PromptWatcher

	// Metrics is optional. It is mounted at /metrics by serve.
	Metrics http.Handler

	// GeneratorErr records why no generator could be created at startup.
	// Commands that need one report it instead of a generic failure.
	GeneratorErr error
}

var (
	version = "dev"
	verbose bool

	searchService   driving.EventSearchService
	sessionService  driving.SessionService
	settingsService driving.SettingsService
	promptWatcher   PromptWatcher
	metricsHandler  http.Handler
	generatorErr    error
)

var rootCmd = &cobra.Command{
	Use:   "scout",
	Short: "Find upcoming UBC club events and deadlines",
	Long: `Scout asks a search-grounded model which campus clubs have upcoming
events, recruitment deadlines or activity matching your interest, and
shows the answer as event cards with the sources it was grounded on.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging to stderr")
}

// SetServices injects the services used by the commands.
func SetServices(s *Services) {
	searchService = s.Search
	sessionService = s.Session
	settingsService = s.Settings
	promptWatcher = s.Prompts
	metricsHandler = s.Metrics
	generatorErr = s.GeneratorErr
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// watchPrompts logs prompt edits until ctx is done.
// It is a no-op without a watcher.
func watchPrompts(ctx context.Context) {
	if promptWatcher == nil {
		return
	}
	changes, err := promptWatcher.Watch(ctx)
	if err != nil {
		logger.Warn("Prompt files will not be reloaded: %v", err)
		return
	}
	go func() {
		for name := range changes {
			logger.Info("Prompt %q reloaded", name)
		}
	}()
}

// requireGenerator fails long-running commands early when startup could
// not create a generator.
func requireGenerator() error {
	if generatorErr == nil {
		return nil
	}
	return fmt.Errorf("%w\nRun 'scout settings provider' to configure a model", generatorErr)
}
