package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scout-cli/internal/core/domain"
	"github.com/custodia-labs/scout-cli/internal/logger"
)

var searchJSON bool

var searchCmd = &cobra.Command{
	Use:   "search <interest>",
	Short: "Find events for an interest",
	Long: `Asks the configured model to search the web for upcoming events,
recruitment deadlines and club highlights matching your interest.

Examples:
  scout search hackathons
  scout search "consulting recruitment"
  scout search --json ski trips`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	if searchService == nil {
		return errors.New("search service not configured")
	}

	result, err := searchService.Search(cmd.Context(), query)
	if err != nil {
		return searchFailure(err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, result)
	}
	outputSearchCards(cmd, result)
	return nil
}

// searchFailure turns a pipeline error into what the user sees.
// Details go to the debug log; the user gets the generic message unless
// the cause is something they can fix.
func searchFailure(err error) error {
	switch {
	case errors.Is(err, domain.ErrEmptyQuery):
		return err
	case errors.Is(err, domain.ErrGeneratorUnavailable) && generatorErr != nil:
		return requireGenerator()
	}
	logger.Warn("Search failed: %v", err)
	return errors.New(domain.FailureMessage)
}

func outputSearchJSON(cmd *cobra.Command, result *domain.SearchResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchCards(cmd *cobra.Command, result *domain.SearchResult) {
	if result.IsEmpty() {
		cmd.Println(domain.EmptyStateMessage)
	} else {
		for i := range result.Events {
			printEventCard(cmd, &result.Events[i])
			cmd.Println()
		}
	}

	if len(result.Citations) > 0 {
		cmd.Println("Verified sources:")
		for _, c := range result.Citations {
			cmd.Printf("  - %s (%s)\n", c.Label(), c.URI)
		}
	}
}

// printEventCard renders one record as a text card:
//
//	OCT 24  [DEADLINE] PM Case Competition
//	        UBC PMC · 11:59 PM · Online
func printEventCard(cmd *cobra.Command, rec *domain.EventRecord) {
	header := fmt.Sprintf("%-3s %-2s", rec.Style.DateLabel, rec.Badge.Day)
	title := rec.Title
	if rec.Style.Badge != "" {
		title = "[" + rec.Style.Badge + "] " + title
	}
	cmd.Printf("  %s  %s\n", header, title)

	indent := strings.Repeat(" ", utf8.RuneCountInString(header)+4)
	details := []string{rec.ClubName}
	if rec.Style.ShowTime {
		details = append(details, rec.Time)
	}
	details = append(details, rec.Location)
	cmd.Printf("%s%s\n", indent, strings.Join(details, " · "))

	if !rec.Badge.IsDateValid {
		cmd.Printf("%sDate: %s\n", indent, rec.Date)
	}
	if rec.Description != "" {
		cmd.Printf("%s%s\n", indent, rec.Description)
	}
	if len(rec.Tags) > 0 {
		cmd.Printf("%s#%s\n", indent, strings.Join(rec.Tags, " #"))
	}
	if rec.SourceLink != "" {
		cmd.Printf("%s%s: %s\n", indent, rec.Style.LinkLabel, rec.SourceLink)
	}
	if rec.ExternalLink != "" {
		cmd.Printf("%s%s: %s\n", indent, rec.Style.ExternalLabel, rec.ExternalLink)
	}
}
