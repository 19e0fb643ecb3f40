package transfer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
)

// Status is the terminal state of one transfer.
type Status string

const (
	StatusTransferred   Status = "transferred"
	StatusSkippedExists Status = "skippedExists"
	StatusDryRun        Status = "dryRun"
	StatusFailed        Status = "failed"
)

// Result describes a finished transfer attempt.
type Result struct {
	Status     Status
	RemotePath string
	SizeBytes  int64
}

// Engine runs the transfer state machine: ensure directories, check for
// an existing copy, upload, verify. Upload and verify retry together as
// one unit.
type Engine struct {
	fs     RemoteFS
	retry  RetryPolicy
	dryRun bool
	log    *slog.Logger
}

func NewEngine(fs RemoteFS, retry RetryPolicy, dryRun bool, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{fs: fs, retry: retry, dryRun: dryRun, log: log}
}

// Transfer uploads localPath to remoteDir/remoteName. A remote file with
// the same size counts as already transferred and is left alone.
func (e *Engine) Transfer(ctx context.Context, localPath, remoteDir, remoteName string) (Result, error) {
	remote := path.Join(remoteDir, remoteName)

	info, err := os.Stat(localPath)
	if err != nil {
		return Result{Status: StatusFailed, RemotePath: remote},
			fmt.Errorf("reading local file: %w", err)
	}
	size := info.Size()
	result := Result{RemotePath: remote, SizeBytes: size}

	if e.dryRun {
		e.log.Info("dry run, skipping transfer",
			"file", filepath.Base(localPath), "target", remote, "size", size)
		result.Status = StatusDryRun
		return result, nil
	}

	err = e.retry.Do(ctx, e.log, "ensure directories", func() error {
		return e.fs.MkdirAll(ctx, remoteDir)
	})
	if err != nil {
		result.Status = StatusFailed
		return result, err
	}

	existing, err := e.fs.Stat(ctx, remote)
	switch {
	case err == nil && existing.SizeBytes == size:
		e.log.Info("remote copy already present",
			"target", remote, "size", size)
		result.Status = StatusSkippedExists
		return result, nil
	case err == nil:
		e.log.Warn("remote copy has wrong size, replacing",
			"target", remote, "remoteSize", existing.SizeBytes, "localSize", size)
	case !errors.Is(err, ErrNotExist):
		e.log.Warn("existence check failed, uploading anyway",
			"target", remote, "error", err)
	}

	err = e.retry.Do(ctx, e.log, "upload", func() error {
		if err := e.fs.Put(ctx, localPath, remote); err != nil {
			return err
		}
		return e.verify(ctx, remote, size)
	})
	if err != nil {
		result.Status = StatusFailed
		return result, err
	}

	e.log.Info("transfer complete",
		"file", filepath.Base(localPath), "target", remote, "size", size)
	result.Status = StatusTransferred
	return result, nil
}

func (e *Engine) verify(ctx context.Context, remote string, wantSize int64) error {
	info, err := e.fs.Stat(ctx, remote)
	if err != nil {
		return fmt.Errorf("verifying upload: %w", err)
	}
	if info.SizeBytes != wantSize {
		return fmt.Errorf("%w: remote %d bytes, local %d bytes",
			ErrVerifyFailed, info.SizeBytes, wantSize)
	}
	return nil
}
