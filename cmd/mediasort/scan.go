package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nivedh/mediasort/internal/classify"
	"github.com/nivedh/mediasort/internal/mediainfo"
	"github.com/nivedh/mediasort/internal/resolver"
	"github.com/nivedh/mediasort/internal/scanner"
	"github.com/nivedh/mediasort/pkg/release"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Preview what the daemon would do with the download directory",
	Long: `Walk the download directory and show each media file with its
classification and resolved destination. Nothing is transferred.

Stability gating is not applied here, so files still being written
may appear that the daemon would hold back.`,
	RunE: runScanCmd,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().Bool("no-inspect", false, "Skip reading embedded track metadata")
}

// scanEntry is one previewed file.
type scanEntry struct {
	Path        string `json:"path"`
	SizeBytes   int64  `json:"sizeBytes"`
	MediaType   string `json:"mediaType"`
	Language    string `json:"language"`
	Destination string `json:"destination,omitempty"`
	Error       string `json:"error,omitempty"`
}

func runScanCmd(cmd *cobra.Command, args []string) error {
	noInspect, _ := cmd.Flags().GetBool("no-inspect")

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr,
		&slog.HandlerOptions{Level: slog.LevelWarn}))

	var inspector mediainfo.Inspector
	if !noInspect {
		inspector = mediainfo.NewCLI(cfg.MediaInfo.Binary)
	}
	classifier := classify.New(inspector, log)
	resolve := resolver.New(resolver.Roots{
		MovieMalayalam: cfg.Libraries.MovieMalayalam,
		MovieEnglish:   cfg.Libraries.MovieEnglish,
		TVMalayalam:    cfg.Libraries.TVMalayalam,
		TVEnglish:      cfg.Libraries.TVEnglish,
	}, nil, log)

	scan := scanner.New(cfg.Download.Root, cfg.Download.MaxDepth, log)
	candidates, err := scan.Scan(cmd.Context())
	if err != nil {
		return fmt.Errorf("scanning %s: %w", cfg.Download.Root, err)
	}

	entries := make([]scanEntry, 0, len(candidates))
	for _, c := range candidates {
		cls := classifier.Classify(cmd.Context(), c.Path)
		entry := scanEntry{
			Path:      c.Path,
			SizeBytes: c.SizeBytes,
			MediaType: string(cls.MediaType),
			Language:  string(cls.Language),
		}

		target, err := resolve.Resolve(cmd.Context(), resolver.Request{
			SourcePath:     c.Path,
			Classification: cls,
			Info:           release.Parse(filepath.Base(c.Path)),
		})
		if err != nil {
			entry.Error = err.Error()
		} else {
			entry.Destination = target.Path()
		}
		entries = append(entries, entry)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Printf("No media files under %s\n", cfg.Download.Root)
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s (%s, %s, %s)\n", e.Path, e.MediaType, e.Language, formatSize(e.SizeBytes))
		if e.Error != "" {
			fmt.Printf("  ! %s\n", e.Error)
		} else {
			fmt.Printf("  -> %s\n", e.Destination)
		}
	}
	return nil
}

// formatSize renders a byte count in a human scale.
func formatSize(n int64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(n)/(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
