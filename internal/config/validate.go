package config

import (
	"fmt"
	"os"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if !validLogLevels[c.Daemon.LogLevel] {
		errs = append(errs, fmt.Sprintf("daemon.log_level: must be one of debug, info, warn, error; got %q", c.Daemon.LogLevel))
	}
	if c.Daemon.Workers < 0 {
		errs = append(errs, fmt.Sprintf("daemon.workers: must be positive, got %d", c.Daemon.Workers))
	}

	if c.Download.Root == "" {
		errs = append(errs, "download.root: required")
	} else if _, err := os.Stat(c.Download.Root); os.IsNotExist(err) {
		errs = append(errs, fmt.Sprintf("download.root: warning: directory %q does not exist", c.Download.Root))
	}

	if c.SMB.Server == "" {
		errs = append(errs, "smb.server: required")
	}
	if c.SMB.Share == "" {
		errs = append(errs, "smb.share: required")
	}
	if c.SMB.Username == "" {
		errs = append(errs, "smb.username: required")
	}

	libs := map[string]string{
		"libraries.movie_malayalam": c.Libraries.MovieMalayalam,
		"libraries.movie_english":   c.Libraries.MovieEnglish,
		"libraries.tv_malayalam":    c.Libraries.TVMalayalam,
		"libraries.tv_english":      c.Libraries.TVEnglish,
	}
	configured := 0
	for _, root := range libs {
		if root != "" {
			configured++
		}
	}
	if configured == 0 {
		errs = append(errs, "libraries: at least one destination root must be configured")
	}

	if c.Transfer.RetryAttempts < 1 {
		errs = append(errs, fmt.Sprintf("transfer.retry_attempts: must be at least 1, got %d", c.Transfer.RetryAttempts))
	}

	if c.Dashboard.Enabled && c.Dashboard.URL == "" {
		errs = append(errs, "dashboard.url: required when dashboard is enabled")
	}

	return errs
}
