package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nivedh/mediasort/internal/classify"
	"github.com/nivedh/mediasort/pkg/release"
)

// ParseResult pairs the release attributes with the classification
// decision for one filename.
type ParseResult struct {
	Name           string
	Info           release.Info
	Classification classify.Classification
}

// ParseResultJSON is the JSON-friendly representation of ParseResult.
type ParseResultJSON struct {
	Name           string `json:"name"`
	MediaType      string `json:"mediaType"`
	Language       string `json:"language"`
	LanguageSource string `json:"languageSource"`
	SeriesName     string `json:"seriesName,omitempty"`
	Season         int    `json:"season,omitempty"`
	Episode        int    `json:"episode,omitempty"`
	Year           int    `json:"year,omitempty"`
	Resolution     string `json:"resolution"`
	Source         string `json:"source"`
	Codec          string `json:"codec"`
	Audio          string `json:"audio,omitempty"`
	SizeTag        string `json:"sizeTag,omitempty"`
}

func (r ParseResult) toJSON() ParseResultJSON {
	result := ParseResultJSON{
		Name:           r.Name,
		MediaType:      string(r.Classification.MediaType),
		Language:       string(r.Classification.Language),
		LanguageSource: string(r.Classification.LanguageSource),
		SeriesName:     r.Classification.SeriesName,
		Season:         r.Classification.Season,
		Episode:        r.Classification.Episode,
		Year:           r.Info.Year,
		Resolution:     r.Info.Resolution.String(),
		Source:         r.Info.Source.String(),
		Codec:          r.Info.Codec.String(),
		SizeTag:        r.Info.SizeTag,
	}
	if r.Info.Audio != release.AudioUnknown {
		result.Audio = r.Info.Audio.String()
	}
	return result
}

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <filename>",
	Short: "Classify a filename (local, no daemon needed)",
	Long: `Parse a filename to preview how the daemon would classify it.

Only filename heuristics run here. The daemon additionally reads
embedded track metadata, which takes priority over the filename.

Examples:
  mediasort parse "Thallumaala (2022) Malayalam 1080p WEB-DL x264.mkv"
  mediasort parse "www.TamilMV.pics - Rana.Naidu.S02E05.720p.mkv"
  mediasort parse --file names.txt --json`,
	RunE: runParseCmd,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringP("file", "f", "", "Read filenames from file (one per line)")
}

func runParseCmd(cmd *cobra.Command, args []string) error {
	inputFile, _ := cmd.Flags().GetString("file")

	var names []string
	if inputFile != "" {
		read, err := readNameFile(inputFile)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		names = read
	} else if len(args) > 0 {
		names = []string{args[0]}
	} else {
		return fmt.Errorf("usage: mediasort parse <filename> or mediasort parse --file <filename>")
	}

	// A nil inspector limits classification to filename signals.
	classifier := classify.New(nil, slog.New(slog.NewTextHandler(os.Stderr,
		&slog.HandlerOptions{Level: slog.LevelWarn})))

	results := make([]ParseResult, 0, len(names))
	for _, name := range names {
		results = append(results, ParseResult{
			Name:           name,
			Info:           release.Parse(name),
			Classification: classifier.Classify(cmd.Context(), name),
		})
	}

	if jsonOutput {
		outputJSON(results)
		return nil
	}
	for i, result := range results {
		if i > 0 {
			fmt.Println()
		}
		printParseResult(result)
	}
	return nil
}

// readNameFile reads filenames from a file, one per line.
func readNameFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			names = append(names, line)
		}
	}
	return names, scanner.Err()
}

func printParseResult(result ParseResult) {
	cls := result.Classification
	info := result.Info

	fmt.Printf("Name:        %s\n", result.Name)
	fmt.Printf("Type:        %s\n", cls.MediaType)
	fmt.Printf("Language:    %s (via %s)\n", cls.Language, cls.LanguageSource)
	if cls.MediaType == classify.TypeTVShow {
		fmt.Printf("Series:      %s\n", cls.SeriesName)
		fmt.Printf("Season:      %d\n", cls.Season)
		fmt.Printf("Episode:     %d\n", cls.Episode)
	}
	if info.Year > 0 {
		fmt.Printf("Year:        %d\n", info.Year)
	}
	fmt.Printf("Resolution:  %s\n", info.Resolution.String())
	fmt.Printf("Source:      %s\n", info.Source.String())
	fmt.Printf("Codec:       %s\n", info.Codec.String())
	if info.Audio != release.AudioUnknown {
		fmt.Printf("Audio:       %s\n", info.Audio.String())
	}
	if info.SizeTag != "" {
		fmt.Printf("Size:        %s\n", info.SizeTag)
	}
}

// outputJSON prints results as a single object or an array.
func outputJSON(results []ParseResult) {
	jsonResults := make([]ParseResultJSON, len(results))
	for i, r := range results {
		jsonResults[i] = r.toJSON()
	}

	var output interface{}
	if len(jsonResults) == 1 {
		output = jsonResults[0]
	} else {
		output = jsonResults
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(output); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}
