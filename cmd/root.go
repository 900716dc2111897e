package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MeetChauhan03/Redirection-status-checker/internal/logging"
)

const version = "1.4.0"

var logLevel string

var rootCmd = &cobra.Command{
	Use:           "redirect-auditor",
	Short:         "Audit HTTP redirect chains",
	Long:          "Traces every hop of a redirect chain without letting the HTTP client chase redirects on its own, and reports where each URL really ends up.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(logLevel)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "[-] Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}
