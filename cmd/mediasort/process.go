package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nivedh/mediasort/internal/config"
	"github.com/nivedh/mediasort/internal/migrations"
	"github.com/nivedh/mediasort/internal/server"
)

var processCmd = &cobra.Command{
	Use:   "process <file>",
	Short: "Run the pipeline once for a single file",
	Long: `Classify, remux if needed, and transfer one file right now,
bypassing the stability gate. Use --dry-run to see what would happen
without touching the share.

Examples:
  mediasort process "/downloads/Thallumaala (2022) Malayalam 1080p.mkv"
  mediasort process --dry-run /downloads/Some.Show.S01E03.mkv`,
	Args: cobra.ExactArgs(1),
	RunE: runProcessCmd,
}

func init() {
	rootCmd.AddCommand(processCmd)
	processCmd.Flags().Bool("dry-run", false, "Resolve and log without transferring or cleaning")
	processCmd.Flags().String("log-level", "info", "Log level (debug, info, warn, error)")
}

func runProcessCmd(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	logLevel, _ := cmd.Flags().GetString("log-level")

	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("cannot process %s: %w", args[0], err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return &config.ConfigError{Errors: errs}
	}
	if dryRun {
		cfg.Daemon.DryRun = true
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(logLevel),
	}))

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() { _ = db.Close() }()
	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	runner := server.NewRunner(db, cfg, logger)
	if err := runner.ProcessOne(cmd.Context(), path); err != nil {
		return fmt.Errorf("processing %s: %w", filepath.Base(path), err)
	}

	if cfg.Daemon.DryRun {
		fmt.Println("Dry run complete, nothing was transferred")
	} else {
		fmt.Println("Done")
	}
	return nil
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
