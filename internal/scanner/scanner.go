// Package scanner finds finished media files in the download area. A
// file is only handed to the pipeline once the stability gate agrees
// nothing is still writing to it.
package scanner

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
)

// mediaExtensions are the containers worth processing.
var mediaExtensions = map[string]bool{
	".mkv":  true,
	".mp4":  true,
	".avi":  true,
	".m4v":  true,
	".mov":  true,
	".webm": true,
}

// Candidate is a media file found during a scan.
type Candidate struct {
	Path      string
	SizeBytes int64
}

// Scanner walks the download root looking for media files.
type Scanner struct {
	root     string
	maxDepth int
	log      *slog.Logger
}

// New creates a scanner rooted at root. maxDepth bounds recursion below
// the root; 0 means only files directly inside it.
func New(root string, maxDepth int, log *slog.Logger) *Scanner {
	if log == nil {
		log = slog.Default()
	}
	return &Scanner{root: root, maxDepth: maxDepth, log: log}
}

// Scan returns every media file under the root, skipping hidden entries
// and anything deeper than the depth limit.
func (s *Scanner) Scan(ctx context.Context) ([]Candidate, error) {
	var found []Candidate

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// A vanished entry mid-walk is routine while downloads
			// shuffle files around.
			s.log.Debug("walk error, skipping entry", "path", path, "error", err)
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		name := d.Name()
		if d.IsDir() {
			if path == s.root {
				return nil
			}
			if strings.HasPrefix(name, ".") || s.depth(path) > s.maxDepth {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}
		if !mediaExtensions[strings.ToLower(filepath.Ext(name))] {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			s.log.Debug("stat failed, skipping file", "path", path, "error", err)
			return nil
		}
		found = append(found, Candidate{Path: path, SizeBytes: info.Size()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// depth returns how many directories below the root a path sits.
func (s *Scanner) depth(path string) int {
	rel, err := filepath.Rel(s.root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}
