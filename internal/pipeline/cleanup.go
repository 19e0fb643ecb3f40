package pipeline

import (
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Leftovers that should not keep a download folder alive once its media
// file is gone: archives the downloader already extracted, metadata and
// artwork.
var junkFileRe = regexp.MustCompile(`(?i)\.(rar|r\d{2}|zip|7z|par2|sfv|nfo|txt|srt|sub|idx|jpg|jpeg|png|url)$`)

// Cleaner removes processed sources from the download area and prunes
// the folders they leave behind. The watch root itself is never removed.
type Cleaner struct {
	root   string
	dryRun bool
	log    *slog.Logger
}

func NewCleaner(root string, dryRun bool, log *slog.Logger) *Cleaner {
	if log == nil {
		log = slog.Default()
	}
	return &Cleaner{root: filepath.Clean(root), dryRun: dryRun, log: log}
}

// CleanSource deletes the transferred file, sweeps junk out of its
// folder, and prunes newly empty directories up to the watch root.
// Returns how many directories were removed.
func (c *Cleaner) CleanSource(path string) int {
	if c.dryRun {
		c.log.Info("dry run, keeping source", "path", path)
		return 0
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		c.log.Warn("removing source failed", "path", path, "error", err)
		return 0
	}
	c.log.Info("source removed", "path", path)

	removed := 0
	for dir := filepath.Dir(path); c.inside(dir); dir = filepath.Dir(dir) {
		c.sweepJunk(dir)
		if err := os.Remove(dir); err != nil {
			break
		}
		c.log.Debug("pruned empty folder", "dir", dir)
		removed++
	}
	return removed
}

// sweepJunk deletes leftover non-media files in dir. Anything else,
// including subdirectories, is left alone.
func (c *Cleaner) sweepJunk(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !junkFileRe.MatchString(entry.Name()) {
			continue
		}
		target := filepath.Join(dir, entry.Name())
		if err := os.Remove(target); err != nil {
			c.log.Debug("removing leftover failed", "path", target, "error", err)
			continue
		}
		c.log.Debug("removed leftover", "path", target)
	}
}

// inside reports whether dir is strictly below the watch root.
func (c *Cleaner) inside(dir string) bool {
	dir = filepath.Clean(dir)
	if dir == c.root {
		return false
	}
	return strings.HasPrefix(dir, c.root+string(filepath.Separator))
}
