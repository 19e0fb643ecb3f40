// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration wraps time.Duration so TOML can express it as "90s" or "5m".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the root configuration structure.
type Config struct {
	Daemon     DaemonConfig     `toml:"daemon"`
	Download   DownloadConfig   `toml:"download"`
	SMB        SMBConfig        `toml:"smb"`
	Libraries  LibrariesConfig  `toml:"libraries"`
	Transfer   TransferConfig   `toml:"transfer"`
	Extraction ExtractionConfig `toml:"extraction"`
	MediaInfo  MediaInfoConfig  `toml:"mediainfo"`
	Database   DatabaseConfig   `toml:"database"`
	Dashboard  DashboardConfig  `toml:"dashboard"`
}

type DaemonConfig struct {
	LogLevel     string   `toml:"log_level"`
	ScanInterval Duration `toml:"scan_interval"`
	Workers      int      `toml:"workers"`
	DryRun       bool     `toml:"dry_run"`
}

type DownloadConfig struct {
	Root           string `toml:"root"`
	MaxDepth       int    `toml:"max_depth"`
	MinSizeBytes   int64  `toml:"min_size_bytes"`
	StabilityProbe bool   `toml:"stability_probe"`
	Cleanup        bool   `toml:"cleanup"`
}

type SMBConfig struct {
	Server   string `toml:"server"`
	Share    string `toml:"share"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	Domain   string `toml:"domain"`
	Binary   string `toml:"binary"`
}

// LibrariesConfig names the four share-relative destination roots.
type LibrariesConfig struct {
	MovieMalayalam string `toml:"movie_malayalam"`
	MovieEnglish   string `toml:"movie_english"`
	TVMalayalam    string `toml:"tv_malayalam"`
	TVEnglish      string `toml:"tv_english"`
}

type TransferConfig struct {
	RetryAttempts int      `toml:"retry_attempts"`
	RetryDelay    Duration `toml:"retry_delay"`
}

type ExtractionConfig struct {
	Enabled    bool   `toml:"enabled"`
	Binary     string `toml:"binary"`
	ScratchDir string `toml:"scratch_dir"`
}

type MediaInfoConfig struct {
	Binary string `toml:"binary"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type DashboardConfig struct {
	Enabled bool   `toml:"enabled"`
	URL     string `toml:"url"`
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Substitute environment variables
	content, missing := substituteEnvVars(string(data))
	if len(missing) > 0 {
		return nil, &ConfigError{Path: path, Missing: missing}
	}

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Daemon.LogLevel == "" {
		c.Daemon.LogLevel = "info"
	}
	if c.Daemon.ScanInterval == 0 {
		c.Daemon.ScanInterval = Duration(60 * time.Second)
	}
	if c.Daemon.Workers == 0 {
		c.Daemon.Workers = 2
	}
	if c.Download.MaxDepth == 0 {
		c.Download.MaxDepth = 3
	}
	if c.Download.MinSizeBytes == 0 {
		c.Download.MinSizeBytes = 50 << 20
	}
	if c.Transfer.RetryAttempts == 0 {
		c.Transfer.RetryAttempts = 3
	}
	if c.Transfer.RetryDelay == 0 {
		c.Transfer.RetryDelay = Duration(10 * time.Second)
	}
	if c.Extraction.Binary == "" {
		c.Extraction.Binary = "mkvmerge"
	}
	if c.Extraction.ScratchDir == "" {
		c.Extraction.ScratchDir = os.TempDir()
	}
	if c.MediaInfo.Binary == "" {
		c.MediaInfo.Binary = "mediainfo"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./data/mediasort.db"
	}
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values
// and reports the names it could not resolve.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) (string, []string) {
	var missing []string
	result := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1] // Strip ${ and }
		if value, ok := os.LookupEnv(varName); ok {
			return value
		}
		missing = append(missing, varName)
		return match
	})
	return result, missing
}
