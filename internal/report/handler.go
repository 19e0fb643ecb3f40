package report

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/nivedh/mediasort/internal/events"
)

// Handler subscribes to pipeline events and fans outcomes into the
// history store and the dashboard.
type Handler struct {
	history   *History
	dashboard *Dashboard // may be nil
	log       *slog.Logger
}

func NewHandler(history *History, dashboard *Dashboard, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{history: history, dashboard: dashboard, log: log}
}

// Run consumes events until ctx is cancelled or the bus closes. It is
// meant to be run as a goroutine alongside the pipeline.
func (h *Handler) Run(ctx context.Context, bus *events.Bus) {
	completed := bus.Subscribe(events.TypeTransferCompleted, 64)
	failed := bus.Subscribe(events.TypeTransferFailed, 64)
	defer bus.Unsubscribe(completed)
	defer bus.Unsubscribe(failed)

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-completed:
			if !ok {
				h.drain(ctx, failed)
				return
			}
			h.handle(ctx, e)
		case e, ok := <-failed:
			if !ok {
				h.drain(ctx, completed)
				return
			}
			h.handle(ctx, e)
		}
	}
}

func (h *Handler) handle(ctx context.Context, e events.Event) {
	switch ev := e.(type) {
	case *events.TransferCompleted:
		h.recordCompleted(ctx, ev)
	case *events.TransferFailed:
		h.recordFailed(ctx, ev)
	}
}

// drain consumes whatever the sibling channel still buffers after the
// bus closes, so a late outcome is not lost during shutdown.
func (h *Handler) drain(ctx context.Context, ch <-chan events.Event) {
	for e := range ch {
		h.handle(ctx, e)
	}
}

func (h *Handler) recordCompleted(ctx context.Context, e *events.TransferCompleted) {
	_, err := h.history.Append(Entry{
		Filename:   filepath.Base(e.Path()),
		SourcePath: e.Path(),
		TargetPath: e.TargetPath,
		MediaType:  e.MediaType,
		Language:   e.Language,
		Status:     e.Status,
		SizeBytes:  e.SizeBytes,
		Remuxed:    e.Remuxed,
	})
	if err != nil {
		h.log.Error("recording history entry failed", "path", e.Path(), "error", err)
	}

	h.push(ctx, Record{
		Filename:   filepath.Base(e.Path()),
		MediaType:  e.MediaType,
		Language:   e.Language,
		Status:     e.Status,
		TargetPath: e.TargetPath,
		SizeBytes:  e.SizeBytes,
		Timestamp:  e.OccurredAt(),
	})
}

func (h *Handler) recordFailed(ctx context.Context, e *events.TransferFailed) {
	_, err := h.history.Append(Entry{
		Filename:   filepath.Base(e.Path()),
		SourcePath: e.Path(),
		TargetPath: e.TargetPath,
		MediaType:  e.MediaType,
		Language:   e.Language,
		Status:     "failed",
		Error:      e.Error,
	})
	if err != nil {
		h.log.Error("recording history entry failed", "path", e.Path(), "error", err)
	}

	h.push(ctx, Record{
		Filename:  filepath.Base(e.Path()),
		MediaType: e.MediaType,
		Language:  e.Language,
		Status:    "failed",
		Timestamp: e.OccurredAt(),
	})
}

// push is best-effort: a dead dashboard never blocks or fails the
// pipeline.
func (h *Handler) push(ctx context.Context, rec Record) {
	if h.dashboard == nil {
		return
	}
	if err := h.dashboard.Push(ctx, rec); err != nil {
		h.log.Warn("dashboard push failed", "file", rec.Filename, "error", err)
	}
}
