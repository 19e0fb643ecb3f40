// Package report records pipeline outcomes: a local SQLite history and a
// best-effort push to the dashboard service.
package report

import (
	"database/sql"
	"fmt"
	"time"
)

// Entry is one processed file in the history.
type Entry struct {
	ID         int64
	Filename   string
	SourcePath string
	TargetPath string
	MediaType  string
	Language   string
	Status     string
	SizeBytes  int64
	Remuxed    bool
	Error      string
	CreatedAt  time.Time
}

// History provides access to the processed file history.
type History struct {
	db *sql.DB
}

// NewHistory creates a history store on an already migrated database.
func NewHistory(db *sql.DB) *History {
	return &History{db: db}
}

// Append records one outcome and returns its ID.
func (h *History) Append(e Entry) (int64, error) {
	result, err := h.db.Exec(`
		INSERT INTO file_history
			(filename, source_path, target_path, media_type, language, status, size_bytes, remuxed, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Filename, e.SourcePath, e.TargetPath, e.MediaType, e.Language,
		e.Status, e.SizeBytes, e.Remuxed, e.Error,
	)
	if err != nil {
		return 0, fmt.Errorf("insert history entry: %w", err)
	}
	return result.LastInsertId()
}

// Recent returns the newest entries, most recent first.
func (h *History) Recent(limit int) ([]Entry, error) {
	rows, err := h.db.Query(`
		SELECT id, filename, source_path, target_path, media_type, language,
		       status, size_bytes, remuxed, error, created_at
		FROM file_history
		ORDER BY id DESC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// BySource returns all entries recorded for a source path.
func (h *History) BySource(sourcePath string) ([]Entry, error) {
	rows, err := h.db.Query(`
		SELECT id, filename, source_path, target_path, media_type, language,
		       status, size_bytes, remuxed, error, created_at
		FROM file_history
		WHERE source_path = ?
		ORDER BY id ASC`,
		sourcePath,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Prune removes entries older than the given duration and returns how
// many were deleted.
func (h *History) Prune(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	result, err := h.db.Exec(`DELETE FROM file_history WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune history: %w", err)
	}
	return result.RowsAffected()
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Filename, &e.SourcePath, &e.TargetPath,
			&e.MediaType, &e.Language, &e.Status, &e.SizeBytes, &e.Remuxed,
			&e.Error, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
