// Mietradar is a client for the Mietradar rent prediction service.
//
// It provides an interactive terminal form for cold rent estimates, a
// city-request form for areas without coverage, and direct commands for
// scripted use. The client talks to the prediction API and the city
// ingestion hook over HTTP.
//
// Usage:
//
//	mietradar [command] [flags]
//
// Running without arguments launches the interactive session.
// See 'mietradar --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mietradar/mietradar/internal/logging"
	"github.com/mietradar/mietradar/internal/version"
)

func main() {
	logging.InitializeFromEnv()
	defer logging.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mietradar",
	Short: "Mietradar Rent Prediction Client",
	Long: `A terminal client for the Mietradar rent prediction service.

Provides an interactive form for cold rent estimates, a city-request
form for regions without training data, and direct commands for use
in scripts.

If no command is specified, the interactive session launches
automatically.`,
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run the interactive session when no
		// subcommand is provided
		return runInteractive(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mietradar %s (commit: %s)\n", version.Version, version.Commit)
	},
}
