package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scout-cli/internal/adapters/driving/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the search session over HTTP",
	Long: `Start a JSON API for web front ends.

Routes:
  POST /api/search   {"query": "..."} runs a search
  GET  /api/state    latest events, citations and loading flag
  GET  /api/sources  candidate club accounts
  GET  /healthz      liveness
  GET  /metrics      Prometheus metrics

Only one search runs at a time; a second request while one is in flight
gets 409 Conflict.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", httpapi.DefaultAddr, "listen address")
	serveCmd.Flags().StringSlice("origin", nil, "allowed CORS origin (repeatable, default any)")
	serveCmd.Flags().Duration("timeout", 2*time.Minute, "per-search timeout")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return fmt.Errorf("getting addr flag: %w", err)
	}
	origins, err := cmd.Flags().GetStringSlice("origin")
	if err != nil {
		return fmt.Errorf("getting origin flag: %w", err)
	}
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return fmt.Errorf("getting timeout flag: %w", err)
	}
	if err := requireGenerator(); err != nil {
		return err
	}

	server, err := httpapi.NewServer(&httpapi.Ports{
		Session: sessionService,
		Search:  searchService,
		Metrics: metricsHandler,
	}, httpapi.Options{
		Addr:           addr,
		AllowedOrigins: origins,
		SearchTimeout:  timeout,
	})
	if err != nil {
		return err
	}

	watchPrompts(cmd.Context())

	fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s\n", addr)
	return server.Run(cmd.Context())
}
