package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"vaultdedup/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the duplicate report as a local JSON API",
	Long: `Serve the latest analysis over HTTP for a report UI:

  GET /api/analysis                      the stored analysis
  GET /api/files                         scanned file metadata
  GET /api/retention?strategy=<name>     retention preview per group

The server is read-only; deletions go through 'vaultdedup clean'.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8420, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	srv, err := server.New(dbPath, servePort)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return srv.Start()
}
