package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/nivedh/mediasort/internal/config"
)

var version = "dev"

var (
	configPath string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "mediasort",
	Short: "CLI for the mediasort download organizer",
	Long: `mediasort - organize finished downloads into a media library

Classifies movies and episodes by language, then files everything
onto the SMB media share with the preferred audio track isolated.

Run 'mediasortd' to start the watch daemon.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (auto-discovered when empty)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("mediasort {{.Version}}\n")
}

// loadConfig resolves the --config flag (falling back to discovery)
// and loads the file.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		discovered, err := config.Discover()
		if err != nil {
			return nil, err
		}
		path = discovered
	}
	return config.Load(path)
}
