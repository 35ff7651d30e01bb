// Command server runs the tournament stats HTTP API.
//
// Usage:
//
//	tournament-stats serve --config config.yaml
//	tournament-stats             (same as serve)
//	tournament-stats migrate up
//	tournament-stats migrate status
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// .env is optional
	_ = godotenv.Load(".env")

	var configPath string
	root := &cobra.Command{
		Use:           "tournament-stats",
		Short:         "Basketball tournament record keeping API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the YAML config file")

	root.AddCommand(serveCmd(&configPath))
	root.AddCommand(migrateCmd(&configPath))

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "tournament-stats: %v\n", err)
		os.Exit(1)
	}
}
