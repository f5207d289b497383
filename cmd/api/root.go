package main

import (
	"fmt"
	"os"

	"coursenotes/cmd/internal/config"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
)

var verbose bool

// rootCmd serves the API when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "coursenotes",
	Short: "Course notes REST API",
	Long: `coursenotes serves the course notes REST API: notes with an
archive and restore lifecycle, file uploads and bearer token auth.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DEBUG)
		} else {
			log.SetLevel(log.INFO)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
