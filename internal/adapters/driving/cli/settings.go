package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/scout-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the grounded search model.

Use subcommands to choose a provider or store an API key.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsProviderCmd = &cobra.Command{
	Use:   "provider",
	Short: "Choose the search model provider",
	Long: `Select the provider and model used for grounded web search.

Available providers:
  gemini    - Google Gemini with Google Search grounding
  openai    - OpenAI Responses API with web search
  anthropic - Anthropic Messages API with web search`,
	RunE: runSettingsProvider,
}

var settingsKeyCmd = &cobra.Command{
	Use:   "key",
	Short: "Store the API key for the current provider",
	RunE:  runSettingsKey,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsProviderCmd)
	settingsCmd.AddCommand(settingsKeyCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	g := settings.Generator
	cmd.Println("[Generator]")
	cmd.Printf("  Provider: %s\n", g.Provider.Description())
	cmd.Printf("  Model: %s\n", g.ModelOrDefault())
	if g.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", g.BaseURL)
	}
	if g.APIKey != "" {
		cmd.Printf("  API Key: %s\n", maskAPIKey(g.APIKey))
	} else {
		cmd.Printf("  API Key: (not set)\n")
	}
	if g.RequestsPerMinute > 0 {
		cmd.Printf("  Rate limit: %d requests/minute\n", g.RequestsPerMinute)
	} else {
		cmd.Printf("  Rate limit: none\n")
	}
	cmd.Printf("  Timeout: %s\n", g.Timeout)
	cmd.Println()

	cmd.Println("[Sources]")
	if settings.SourcesFile != "" {
		cmd.Printf("  File: %s\n", settings.SourcesFile)
	} else {
		cmd.Printf("  File: (built-in)\n")
	}
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'scout settings provider' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsProvider(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Select Provider")
	cmd.Println("---------------")
	providers := domain.AllProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	selected := providers[idx-1]

	defaultModel := domain.DefaultModels()[selected]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)

	if err := settingsService.SetProvider(selected, model); err != nil {
		return fmt.Errorf("failed to set provider: %w", err)
	}
	if model == "" {
		model = defaultModel
	}
	cmd.Printf("Provider set to: %s (%s)\n", selected.Description(), model)

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if settings.Generator.APIKey == "" && selected.RequiresAPIKey() {
		if err := promptAPIKey(cmd, reader); err != nil {
			return err
		}
	}

	return validateGenerator(cmd)
}

func runSettingsKey(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := promptAPIKey(cmd, bufio.NewReader(cmd.InOrStdin())); err != nil {
		return err
	}
	return validateGenerator(cmd)
}

func promptAPIKey(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Print("Enter API key: ")
	apiKey := readPassword(reader)
	cmd.Println()
	if apiKey == "" {
		return errors.New("API key is required for this provider")
	}
	if err := settingsService.SetAPIKey(apiKey); err != nil {
		return fmt.Errorf("failed to save API key: %w", err)
	}
	cmd.Printf("API key saved: %s\n", maskAPIKey(apiKey))
	return nil
}

// validateGenerator pings the provider with the saved settings.
func validateGenerator(cmd *cobra.Command) error {
	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateGeneratorConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("generator configuration validation failed: %w", err)
	}
	cmd.Println("OK")
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// stdinIsTerminal is replaced in tests.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// readPassword reads without echo when stdin is a terminal and falls back
// to a plain line read otherwise.
func readPassword(fallback io.Reader) string {
	if stdinIsTerminal() {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	reader, ok := fallback.(*bufio.Reader)
	if !ok {
		reader = bufio.NewReader(fallback)
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
