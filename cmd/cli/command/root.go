package command

// root.go defines the root command for the bookhub CLI and its global flags.

import (
	"os"

	"github.com/spf13/cobra"
)

const defaultAPIURL = "http://localhost:8080"

var apiURL string // Global flag for API server URL

var rootCmd = &cobra.Command{
	Use:   "bookhub",
	Short: "bookhub - command line client for the bookhub API",
	Long: `bookhub is a command line client for the bookhub reading service. Use it to:
- Browse and search the catalogue
- Keep books on your shelf
- Rate and review books
- Track how far you have read

Use "bookhub [command] --help" to see all available commands.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func init() {
	def := os.Getenv("BOOKHUB_API_URL")
	if def == "" {
		def = defaultAPIURL
	}
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", def, "API server URL (env BOOKHUB_API_URL)")

	rootCmd.AddCommand(authCmd, booksCmd, shelfCmd, reviewCmd, progressCmd, meCmd)
}
