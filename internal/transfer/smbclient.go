package transfer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// SMBConfig holds the connection settings for the media share.
type SMBConfig struct {
	Server   string
	Share    string
	Username string
	Password string
	Domain   string
	Binary   string
}

// SMBClient drives the smbclient binary. Each operation is a fresh
// subprocess; smbclient handles session setup cheaply enough that a
// persistent connection is not worth the lifecycle management.
type SMBClient struct {
	service   string
	binary    string
	credsFile string
	log       *slog.Logger
}

// NewSMBClient writes a credentials file readable only by this user and
// returns a client for //server/share. Close removes the file.
func NewSMBClient(cfg SMBConfig, log *slog.Logger) (*SMBClient, error) {
	if log == nil {
		log = slog.Default()
	}
	binary := cfg.Binary
	if binary == "" {
		binary = "smbclient"
	}

	creds, err := writeCredsFile(cfg)
	if err != nil {
		return nil, err
	}
	return &SMBClient{
		service:   fmt.Sprintf("//%s/%s", cfg.Server, cfg.Share),
		binary:    binary,
		credsFile: creds,
		log:       log,
	}, nil
}

// Close removes the credentials file.
func (c *SMBClient) Close() error {
	return os.Remove(c.credsFile)
}

func writeCredsFile(cfg SMBConfig) (string, error) {
	f, err := os.CreateTemp("", "mediasort-smb-*.creds")
	if err != nil {
		return "", fmt.Errorf("creating credentials file: %w", err)
	}
	defer f.Close()

	if err := f.Chmod(0o600); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("restricting credentials file: %w", err)
	}
	content := fmt.Sprintf("username = %s\npassword = %s\n", cfg.Username, cfg.Password)
	if cfg.Domain != "" {
		content += fmt.Sprintf("domain = %s\n", cfg.Domain)
	}
	if _, err := f.WriteString(content); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("writing credentials file: %w", err)
	}
	return f.Name(), nil
}

// run executes one smbclient command string against the share.
func (c *SMBClient) run(ctx context.Context, command string) (string, error) {
	cmd := exec.CommandContext(ctx, c.binary, c.service, "-A", c.credsFile, "-c", command)
	out, err := cmd.CombinedOutput()
	output := string(out)
	if err != nil {
		return output, fmt.Errorf("smbclient %q: %w: %s", command, err, strings.TrimSpace(output))
	}
	return output, nil
}

// remotePath converts a share-relative forward-slash path into the
// backslash form smbclient expects.
func remotePath(p string) string {
	return strings.ReplaceAll(p, "/", `\`)
}

var notFoundStatuses = []string{
	"NT_STATUS_OBJECT_NAME_NOT_FOUND",
	"NT_STATUS_OBJECT_PATH_NOT_FOUND",
	"NT_STATUS_NO_SUCH_FILE",
}

func isNotFound(output string) bool {
	for _, status := range notFoundStatuses {
		if strings.Contains(output, status) {
			return true
		}
	}
	return false
}

// Stat looks up a single remote file via ls.
func (c *SMBClient) Stat(ctx context.Context, path string) (RemoteInfo, error) {
	out, err := c.run(ctx, fmt.Sprintf(`ls "%s"`, remotePath(path)))
	if isNotFound(out) {
		return RemoteInfo{}, ErrNotExist
	}
	if err != nil {
		return RemoteInfo{}, err
	}

	entries := parseListing(out)
	want := filepath.Base(path)
	for _, e := range entries {
		if e.name == want {
			return RemoteInfo{SizeBytes: e.size}, nil
		}
	}
	return RemoteInfo{}, ErrNotExist
}

// MkdirAll creates each path segment in turn, tolerating segments that
// already exist.
func (c *SMBClient) MkdirAll(ctx context.Context, dir string) error {
	var cur string
	for _, seg := range strings.Split(dir, "/") {
		if seg == "" {
			continue
		}
		if cur == "" {
			cur = seg
		} else {
			cur += "/" + seg
		}
		out, err := c.run(ctx, fmt.Sprintf(`mkdir "%s"`, remotePath(cur)))
		if err != nil && !strings.Contains(out, "NT_STATUS_OBJECT_NAME_COLLISION") {
			return fmt.Errorf("creating remote dir %s: %w", cur, err)
		}
	}
	return nil
}

// Put uploads a local file, overwriting any existing remote file.
func (c *SMBClient) Put(ctx context.Context, localPath, remote string) error {
	out, err := c.run(ctx, fmt.Sprintf(`put "%s" "%s"`, localPath, remotePath(remote)))
	if err != nil {
		return fmt.Errorf("uploading %s: %w", filepath.Base(localPath), err)
	}
	if strings.Contains(out, "NT_STATUS_") {
		return fmt.Errorf("uploading %s: %s", filepath.Base(localPath), strings.TrimSpace(out))
	}
	return nil
}

// ListDirs returns the subdirectory names under dir.
func (c *SMBClient) ListDirs(ctx context.Context, dir string) ([]string, error) {
	out, err := c.run(ctx, fmt.Sprintf(`ls "%s"`, remotePath(dir+"/*")))
	if isNotFound(out) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var dirs []string
	for _, e := range parseListing(out) {
		if !strings.Contains(e.attrs, "D") {
			continue
		}
		if e.name == "." || e.name == ".." {
			continue
		}
		dirs = append(dirs, e.name)
	}
	return dirs, nil
}

type listEntry struct {
	name  string
	attrs string
	size  int64
}

// Listing lines look like:
//
//	  Some Movie (2022)                   D        0  Sat Aug 30 10:11:12 2025
//	  movie.mkv                           A  1234567  Sat Aug 30 10:11:12 2025
var listLineRe = regexp.MustCompile(`^\s{2}(.+?)\s{2,}([DAHSRNC]*)\s+(\d+)\s+\w{3}\s+\w{3}\s`)

func parseListing(output string) []listEntry {
	var entries []listEntry
	for _, line := range strings.Split(output, "\n") {
		m := listLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		size, _ := strconv.ParseInt(m[3], 10, 64)
		entries = append(entries, listEntry{
			name:  strings.TrimSpace(m[1]),
			attrs: m[2],
			size:  size,
		})
	}
	return entries
}
