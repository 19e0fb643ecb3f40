package transfer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

const sampleListing = `  .                                   D        0  Sat Aug 30 10:11:12 2025
  ..                                  D        0  Sat Aug 30 10:11:12 2025
  Rana Naidu (2023)                   D        0  Fri Aug 29 22:01:44 2025
  Kota Factory                        D        0  Thu Aug 28 19:30:02 2025
  movie.mkv                           A  1234567  Sat Aug 30 10:11:12 2025

		4062912 blocks of size 1024. 2029533 blocks available`

func TestParseListing(t *testing.T) {
	entries := parseListing(sampleListing)
	if len(entries) != 5 {
		t.Fatalf("got %d entries, want 5", len(entries))
	}

	if entries[2].name != "Rana Naidu (2023)" || entries[2].attrs != "D" {
		t.Errorf("unexpected directory entry: %+v", entries[2])
	}
	last := entries[4]
	if last.name != "movie.mkv" || last.attrs != "A" || last.size != 1234567 {
		t.Errorf("unexpected file entry: %+v", last)
	}
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound("NT_STATUS_OBJECT_NAME_NOT_FOUND listing \\x") {
		t.Error("missed object name not found")
	}
	if isNotFound("NT_STATUS_ACCESS_DENIED") {
		t.Error("access denied is not a not-found status")
	}
}

func TestRemotePath(t *testing.T) {
	if got := remotePath("tv/malayalam/Show/Season 01"); got != `tv\malayalam\Show\Season 01` {
		t.Errorf("remotePath = %q", got)
	}
}

func TestRetryPolicyStopsAfterBudget(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	calls := 0
	err := RetryPolicy{Attempts: 4}.Do(context.Background(), log, "upload", func() error {
		calls++
		return errors.New("boom")
	})
	if calls != 4 {
		t.Errorf("calls = %d, want 4", calls)
	}
	if !errors.Is(err, ErrRetryExhausted) {
		t.Errorf("error = %v, want ErrRetryExhausted", err)
	}
}

func TestRetryPolicySucceedsMidway(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	calls := 0
	err := RetryPolicy{Attempts: 4}.Do(context.Background(), log, "upload", func() error {
		calls++
		if calls < 3 {
			return errors.New("boom")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryPolicyHonorsCancellation(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := RetryPolicy{Attempts: 10, Delay: time.Minute}.Do(ctx, log, "upload", func() error {
		calls++
		cancel()
		return errors.New("boom")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
