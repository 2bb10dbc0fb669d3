package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the club accounts searches draw from",
	RunE:  runSources,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, _ []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	sources := searchService.Sources()
	if len(sources) == 0 {
		cmd.Println("No sources configured.")
		return nil
	}

	cmd.Printf("Sources (%d):\n", len(sources))
	for _, src := range sources {
		cmd.Printf("  %-28s %s\n", src.Name(), src)
	}
	return nil
}
