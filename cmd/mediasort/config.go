package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nivedh/mediasort/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configTestCmd = &cobra.Command{
	Use:   "test [path]",
	Short: "Validate configuration file",
	Long:  "Validates config.toml syntax, required fields, and environment variable substitution without starting the daemon.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigTest,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a starter configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configTestCmd)
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")
}

func runConfigTest(cmd *cobra.Command, args []string) error {
	path := configPath
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		discovered, err := config.Discover()
		if err != nil {
			return err
		}
		path = discovered
	}

	fmt.Printf("Validating %s...\n\n", path)

	cfg, err := config.Load(path)
	if err != nil {
		var configErr *config.ConfigError
		if errors.As(err, &configErr) {
			printConfigErrors(configErr)
			return fmt.Errorf("configuration invalid")
		}
		return fmt.Errorf("failed to load config: %w", err)
	}

	if problems := cfg.Validate(); len(problems) > 0 {
		printConfigErrors(&config.ConfigError{Errors: problems})
		return fmt.Errorf("configuration invalid")
	}

	printConfigSummary(cfg)
	fmt.Println("\nConfiguration valid!")
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	path := config.DefaultPath()
	if len(args) > 0 {
		path = args[0]
	}

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}

	if err := config.WriteDefault(path); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	fmt.Printf("Wrote %s\n", path)
	fmt.Println("Edit the smb and libraries sections before starting mediasortd.")
	return nil
}

func printConfigErrors(e *config.ConfigError) {
	if len(e.Missing) > 0 {
		fmt.Println("Missing environment variables:")
		for _, m := range e.Missing {
			fmt.Printf("  - %s\n", m)
		}
		fmt.Println()
	}

	if len(e.Errors) > 0 {
		fmt.Println("Validation errors:")
		for _, err := range e.Errors {
			fmt.Printf("  - %s\n", err)
		}
		fmt.Println()
	}
}

func printConfigSummary(cfg *config.Config) {
	fmt.Println("Configuration Summary:")
	fmt.Printf("  Watch:      %s (every %s, %d workers)\n",
		cfg.Download.Root, cfg.Daemon.ScanInterval.Std(), cfg.Daemon.Workers)
	fmt.Printf("  Share:      //%s/%s\n", cfg.SMB.Server, cfg.SMB.Share)
	fmt.Printf("  Database:   %s\n", cfg.Database.Path)

	fmt.Println("  Libraries:")
	fmt.Printf("    movies:   %s | %s\n", cfg.Libraries.MovieMalayalam, cfg.Libraries.MovieEnglish)
	fmt.Printf("    tv:       %s | %s\n", cfg.Libraries.TVMalayalam, cfg.Libraries.TVEnglish)

	if cfg.Extraction.Enabled {
		fmt.Printf("  Extraction: enabled (%s)\n", cfg.Extraction.Binary)
	} else {
		fmt.Println("  Extraction: disabled")
	}
	if cfg.Dashboard.Enabled {
		fmt.Printf("  Dashboard:  %s\n", cfg.Dashboard.URL)
	}
	if cfg.Daemon.DryRun {
		fmt.Println("  Mode:       DRY RUN (no transfers, no cleanup)")
	}
}
