package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "psconsole",
		Short: "CLI tool for the console dashboard API",
		Long: `psconsole is a CLI tool for interacting with the console dashboard JSON API.

It boots a console origin, then manages its profile, preferences, library
and play sessions, browses the store, and streams profile events.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.LoadOrigin(); err != nil {
				return err
			}
			client = NewClient(cfg.ServerURL, cfg.Origin)
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: PSCONSOLE_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.Origin, "origin", cfg.Origin, "Console origin (env: PSCONSOLE_ORIGIN)")
	rootCmd.PersistentFlags().StringVar(&cfg.OriginFile, "origin-file", cfg.OriginFile, "Origin file path (env: PSCONSOLE_ORIGIN_FILE)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	rootCmd.AddCommand(newBootCmd())
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newPrefsCmd())
	rootCmd.AddCommand(newAchievementsCmd())
	rootCmd.AddCommand(newLibraryCmd())
	rootCmd.AddCommand(newStoreCmd())
	rootCmd.AddCommand(newPlayCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
