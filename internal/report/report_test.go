package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/nivedh/mediasort/internal/events"
	"github.com/nivedh/mediasort/internal/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return db
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHistoryAppendAndRecent(t *testing.T) {
	h := NewHistory(setupTestDB(t))

	id, err := h.Append(Entry{
		Filename:   "movie.mkv",
		SourcePath: "/dl/movie.mkv",
		TargetPath: "movies/malayalam/Movie (2022)/Movie (2022).mkv",
		MediaType:  "movie",
		Language:   "malayalam",
		Status:     "transferred",
		SizeBytes:  1234,
		Remuxed:    true,
	})
	require.NoError(t, err)
	assert.Positive(t, id)

	_, err = h.Append(Entry{
		Filename:   "episode.mkv",
		SourcePath: "/dl/episode.mkv",
		TargetPath: "tv/english/Show/Season 01/Show - S01E01.mkv",
		MediaType:  "tvshow",
		Language:   "english",
		Status:     "skippedExists",
	})
	require.NoError(t, err)

	entries, err := h.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Most recent first.
	assert.Equal(t, "episode.mkv", entries[0].Filename)
	assert.Equal(t, "movie.mkv", entries[1].Filename)
	assert.True(t, entries[1].Remuxed)
	assert.Equal(t, int64(1234), entries[1].SizeBytes)
}

func TestHistoryBySource(t *testing.T) {
	h := NewHistory(setupTestDB(t))

	_, err := h.Append(Entry{Filename: "a.mkv", SourcePath: "/dl/a.mkv", Status: "failed", Error: "timeout"})
	require.NoError(t, err)
	_, err = h.Append(Entry{Filename: "a.mkv", SourcePath: "/dl/a.mkv", Status: "transferred"})
	require.NoError(t, err)
	_, err = h.Append(Entry{Filename: "b.mkv", SourcePath: "/dl/b.mkv", Status: "transferred"})
	require.NoError(t, err)

	entries, err := h.BySource("/dl/a.mkv")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "failed", entries[0].Status)
	assert.Equal(t, "transferred", entries[1].Status)
}

func TestDashboardPush(t *testing.T) {
	var got Record
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/file-history", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	d := NewDashboard(srv.URL)
	err := d.Push(context.Background(), Record{
		Filename:   "movie.mkv",
		MediaType:  "movie",
		Language:   "malayalam",
		Status:     "transferred",
		TargetPath: "movies/malayalam/Movie (2022)/Movie (2022).mkv",
		SizeBytes:  1234,
		Timestamp:  time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, "movie.mkv", got.Filename)
	assert.Equal(t, int64(1234), got.SizeBytes)
}

func TestDashboardPushServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewDashboard(srv.URL).Push(context.Background(), Record{Filename: "x.mkv"})
	require.Error(t, err)
}

func TestHandlerRecordsCompletedEvents(t *testing.T) {
	db := setupTestDB(t)
	history := NewHistory(db)

	var pushed Record
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&pushed)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	bus := events.NewBus(testLogger())
	defer bus.Close()

	handler := NewHandler(history, NewDashboard(srv.URL), testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		handler.Run(ctx, bus)
		close(done)
	}()

	// Give the handler a moment to subscribe before publishing.
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, bus.Publish(context.Background(), events.NewTransferCompleted(
		"/dl/movie.mkv", "movie", "malayalam", "transferred",
		"movies/malayalam/Movie (2022)/Movie (2022).mkv", 1234, false)))

	require.Eventually(t, func() bool {
		entries, err := history.Recent(1)
		return err == nil && len(entries) == 1
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	<-done

	entries, err := history.Recent(1)
	require.NoError(t, err)
	assert.Equal(t, "movie.mkv", entries[0].Filename)
	assert.Equal(t, "transferred", entries[0].Status)
	assert.Equal(t, "movie.mkv", pushed.Filename)
}

func TestHandlerRecordsFailures(t *testing.T) {
	history := NewHistory(setupTestDB(t))
	bus := events.NewBus(testLogger())
	defer bus.Close()

	// No dashboard configured: failures still land in history.
	handler := NewHandler(history, nil, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		handler.Run(ctx, bus)
		close(done)
	}()
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, bus.Publish(context.Background(), events.NewTransferFailed(
		"/dl/broken.mkv", "movie", "english", "movies/english/Broken/Broken.mkv", "retry attempts exhausted")))

	require.Eventually(t, func() bool {
		entries, err := history.Recent(1)
		return err == nil && len(entries) == 1
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	<-done

	entries, err := history.Recent(1)
	require.NoError(t, err)
	assert.Equal(t, "failed", entries[0].Status)
	assert.Equal(t, "retry attempts exhausted", entries[0].Error)
}
