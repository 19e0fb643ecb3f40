// Package transfer uploads finished files to the SMB media share with
// bounded retries and size verification.
package transfer

import "context"

//go:generate mockgen -source=remote.go -destination=mocks/remote.go -package=mocks

// RemoteInfo describes a file on the share.
type RemoteInfo struct {
	SizeBytes int64
}

// RemoteFS is the remote side of a transfer. Paths are share-relative
// with forward slashes.
type RemoteFS interface {
	// Stat returns info for a remote file, or ErrNotExist.
	Stat(ctx context.Context, path string) (RemoteInfo, error)

	// MkdirAll creates dir and any missing parents. Existing directories
	// are not an error.
	MkdirAll(ctx context.Context, dir string) error

	// Put uploads localPath to remotePath, overwriting any existing file.
	Put(ctx context.Context, localPath, remotePath string) error

	// ListDirs returns the names of immediate subdirectories of dir.
	ListDirs(ctx context.Context, dir string) ([]string, error)
}
