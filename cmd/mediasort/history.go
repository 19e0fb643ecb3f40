package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/nivedh/mediasort/internal/report"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently processed files",
	Long: `Show the processed file history from the local database.

Examples:
  mediasort history
  mediasort history --limit 50
  mediasort history --source "/downloads/Some.Movie.mkv"`,
	RunE: runHistoryCmd,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().Int("limit", 20, "Maximum entries to show")
	historyCmd.Flags().String("source", "", "Show entries for one source path")
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	source, _ := cmd.Flags().GetString("source")

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := sql.Open("sqlite", cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	history := report.NewHistory(db)

	var entries []report.Entry
	if source != "" {
		entries, err = history.BySource(source)
	} else {
		entries, err = history.Recent(limit)
	}
	if err != nil {
		return fmt.Errorf("querying history: %w", err)
	}

	if jsonOutput {
		return printHistoryJSON(entries)
	}
	printHistoryTable(entries)
	return nil
}

func printHistoryTable(entries []report.Entry) {
	if len(entries) == 0 {
		fmt.Println("No history entries")
		return
	}

	fmt.Printf("%-4s %-36s %-7s %-10s %-13s %s\n",
		"ID", "FILE", "TYPE", "LANGUAGE", "STATUS", "WHEN")
	fmt.Println(strings.Repeat("-", 84))

	for _, e := range entries {
		name := e.Filename
		if len(name) > 36 {
			name = name[:33] + "..."
		}
		status := e.Status
		if e.Remuxed {
			status += "*"
		}
		fmt.Printf("%-4d %-36s %-7s %-10s %-13s %s\n",
			e.ID, name, e.MediaType, e.Language, status, formatTimeAgo(e.CreatedAt))
		if e.Error != "" {
			fmt.Printf("     ! %s\n", e.Error)
		}
	}
	fmt.Println("\n* audio track remuxed before transfer")
}

func printHistoryJSON(entries []report.Entry) error {
	type entryJSON struct {
		ID         int64  `json:"id"`
		Filename   string `json:"filename"`
		SourcePath string `json:"sourcePath"`
		TargetPath string `json:"targetPath,omitempty"`
		MediaType  string `json:"mediaType"`
		Language   string `json:"language"`
		Status     string `json:"status"`
		SizeBytes  int64  `json:"sizeBytes"`
		Remuxed    bool   `json:"remuxed"`
		Error      string `json:"error,omitempty"`
		CreatedAt  string `json:"createdAt"`
	}

	out := make([]entryJSON, len(entries))
	for i, e := range entries {
		out[i] = entryJSON{
			ID:         e.ID,
			Filename:   e.Filename,
			SourcePath: e.SourcePath,
			TargetPath: e.TargetPath,
			MediaType:  e.MediaType,
			Language:   e.Language,
			Status:     e.Status,
			SizeBytes:  e.SizeBytes,
			Remuxed:    e.Remuxed,
			Error:      e.Error,
			CreatedAt:  e.CreatedAt.Format(time.RFC3339),
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// formatTimeAgo renders a timestamp as a compact relative age.
func formatTimeAgo(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
