package scanner

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
}

func TestScanFindsMediaFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "movie.mkv"), 10)
	writeFile(t, filepath.Join(root, "Some Show", "episode.mp4"), 20)
	writeFile(t, filepath.Join(root, "notes.txt"), 5)
	writeFile(t, filepath.Join(root, "archive.rar"), 5)

	s := New(root, 3, testLogger())
	found, err := s.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, found, 2)

	paths := []string{found[0].Path, found[1].Path}
	assert.Contains(t, paths, filepath.Join(root, "movie.mkv"))
	assert.Contains(t, paths, filepath.Join(root, "Some Show", "episode.mp4"))
}

func TestScanSkipsHiddenEntries(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".hidden.mkv"), 10)
	writeFile(t, filepath.Join(root, ".stash", "movie.mkv"), 10)
	writeFile(t, filepath.Join(root, "visible.mkv"), 10)

	s := New(root, 3, testLogger())
	found, err := s.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, filepath.Join(root, "visible.mkv"), found[0].Path)
}

func TestScanHonorsDepthLimit(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "shallow.mkv"), 10)
	writeFile(t, filepath.Join(root, "a", "b", "c", "deep.mkv"), 10)

	s := New(root, 1, testLogger())
	found, err := s.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, filepath.Join(root, "a", "shallow.mkv"), found[0].Path)
}

func TestGateRequiresTwoObservations(t *testing.T) {
	g := NewGate(1, time.Hour, false, testLogger())
	c := Candidate{Path: "/dl/movie.mkv", SizeBytes: 100}

	assert.False(t, g.Ready(c), "first sighting must not pass")
	assert.True(t, g.Ready(c), "same size on second look passes")
}

func TestGateResetsOnGrowth(t *testing.T) {
	g := NewGate(1, time.Hour, false, testLogger())

	assert.False(t, g.Ready(Candidate{Path: "/dl/movie.mkv", SizeBytes: 100}))
	assert.False(t, g.Ready(Candidate{Path: "/dl/movie.mkv", SizeBytes: 200}),
		"a growing file is still being written")
	assert.True(t, g.Ready(Candidate{Path: "/dl/movie.mkv", SizeBytes: 200}))
}

func TestGateMinimumSize(t *testing.T) {
	g := NewGate(1024, time.Hour, false, testLogger())
	c := Candidate{Path: "/dl/sample.mkv", SizeBytes: 512}

	assert.False(t, g.Ready(c))
	assert.False(t, g.Ready(c), "undersized files never pass")
}

func TestGateInFlightMarkers(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "movie.mkv")
	writeFile(t, path, 100)
	writeFile(t, path+".part", 0)

	g := NewGate(1, time.Hour, false, testLogger())
	c := Candidate{Path: path, SizeBytes: 100}

	assert.False(t, g.Ready(c))
	assert.False(t, g.Ready(c), "sibling .part marker blocks the gate")

	require.NoError(t, os.Remove(path+".part"))
	assert.False(t, g.Ready(c), "marker removal starts a fresh look")
	assert.True(t, g.Ready(c))
}

func TestGatePartialExtension(t *testing.T) {
	g := NewGate(1, time.Hour, false, testLogger())
	c := Candidate{Path: "/dl/movie.mkv.part", SizeBytes: 100}

	assert.False(t, g.Ready(c))
	assert.False(t, g.Ready(c))
}

func TestGateForget(t *testing.T) {
	g := NewGate(1, time.Hour, false, testLogger())
	c := Candidate{Path: "/dl/movie.mkv", SizeBytes: 100}

	assert.False(t, g.Ready(c))
	g.Forget(c.Path)
	assert.False(t, g.Ready(c), "forgotten paths need a new stability window")
	assert.True(t, g.Ready(c))
}

func TestGateEvictsStaleObservations(t *testing.T) {
	g := NewGate(1, 10*time.Millisecond, false, testLogger())
	c := Candidate{Path: "/dl/movie.mkv", SizeBytes: 100}

	assert.False(t, g.Ready(c))
	time.Sleep(30 * time.Millisecond)

	// Touch another path to trigger eviction of the stale entry.
	assert.False(t, g.Ready(Candidate{Path: "/dl/other.mkv", SizeBytes: 50}))

	g.mu.Lock()
	_, known := g.seen[c.Path]
	g.mu.Unlock()
	assert.False(t, known, "stale observation should have been evicted")
}

func TestWatcherSignalsOnCreate(t *testing.T) {
	root := t.TempDir()
	w := NewWatcher(root, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wake := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, wake) }()

	// Give the watcher time to establish the watch.
	time.Sleep(100 * time.Millisecond)
	writeFile(t, filepath.Join(root, "incoming.mkv"), 10)

	select {
	case <-wake:
	case <-time.After(2 * time.Second):
		t.Fatal("no wake signal after file creation")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
