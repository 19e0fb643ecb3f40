package resolver

import (
	"context"
	"log/slog"

	"github.com/nivedh/mediasort/pkg/release"
)

// DirLister lists the immediate subdirectories of a share-relative path.
// The transfer layer provides the SMB-backed implementation.
type DirLister interface {
	ListDirs(ctx context.Context, dir string) ([]string, error)
}

// Unifier reuses an existing series folder whose name is a near match
// for a newly resolved one, so "Rana Naidu" and "Rana Naidu (2023)"
// episodes land in a single folder.
type Unifier struct {
	lister DirLister
	log    *slog.Logger
}

func NewUnifier(lister DirLister, log *slog.Logger) *Unifier {
	if log == nil {
		log = slog.Default()
	}
	return &Unifier{lister: lister, log: log}
}

// Canonical returns the folder name to use for series under root. A
// listing failure is not fatal; the freshly resolved name is used.
func (u *Unifier) Canonical(ctx context.Context, root, series string) string {
	existing, err := u.lister.ListDirs(ctx, root)
	if err != nil {
		u.log.Debug("listing series folders failed", "root", root, "error", err)
		return series
	}

	match := release.MatchTitle(series, existing)
	if match.Confidence < release.ConfidenceMedium {
		return series
	}
	if match.Title != series {
		u.log.Info("unifying series folder",
			"resolved", series, "existing", match.Title, "score", match.Score)
	}
	return match.Title
}
