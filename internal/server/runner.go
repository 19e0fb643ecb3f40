// Package server wires the processing components together and manages
// their lifecycle.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/nivedh/mediasort/internal/classify"
	"github.com/nivedh/mediasort/internal/config"
	"github.com/nivedh/mediasort/internal/events"
	"github.com/nivedh/mediasort/internal/mediainfo"
	"github.com/nivedh/mediasort/internal/pipeline"
	"github.com/nivedh/mediasort/internal/report"
	"github.com/nivedh/mediasort/internal/resolver"
	"github.com/nivedh/mediasort/internal/scanner"
	"github.com/nivedh/mediasort/internal/tracks"
	"github.com/nivedh/mediasort/internal/transfer"
)

// Runner builds and runs the daemon's components.
type Runner struct {
	db     *sql.DB
	cfg    *config.Config
	logger *slog.Logger
}

// NewRunner creates a new runner.
func NewRunner(db *sql.DB, cfg *config.Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{db: db, cfg: cfg, logger: logger}
}

// components is the wired processing graph shared by the daemon loop
// and one-shot runs.
type components struct {
	bus     *events.Bus
	smb     *transfer.SMBClient
	pipe    *pipeline.Pipeline
	handler *report.Handler
}

func (c *components) close() {
	_ = c.bus.Close()
	_ = c.smb.Close()
}

func (r *Runner) build() (*components, error) {
	cfg := r.cfg

	bus := events.NewBus(r.logger.With("component", "bus"))

	smb, err := transfer.NewSMBClient(transfer.SMBConfig{
		Server:   cfg.SMB.Server,
		Share:    cfg.SMB.Share,
		Username: cfg.SMB.Username,
		Password: cfg.SMB.Password,
		Domain:   cfg.SMB.Domain,
		Binary:   cfg.SMB.Binary,
	}, r.logger.With("component", "smb"))
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("smb client: %w", err)
	}

	inspector := mediainfo.NewCLI(cfg.MediaInfo.Binary)

	var extractor tracks.Extractor
	if cfg.Extraction.Enabled {
		extractor = tracks.NewMKVMerge(cfg.Extraction.Binary, cfg.Extraction.ScratchDir, inspector)
	}

	var cleaner *pipeline.Cleaner
	if cfg.Download.Cleanup {
		cleaner = pipeline.NewCleaner(cfg.Download.Root, cfg.Daemon.DryRun,
			r.logger.With("component", "cleaner"))
	}

	pipe := pipeline.New(pipeline.Deps{
		Scanner: scanner.New(cfg.Download.Root, cfg.Download.MaxDepth,
			r.logger.With("component", "scanner")),
		Gate: scanner.NewGate(cfg.Download.MinSizeBytes, 4*cfg.Daemon.ScanInterval.Std(),
			cfg.Download.StabilityProbe, r.logger.With("component", "gate")),
		Inspector:  inspector,
		Classifier: classify.New(inspector, r.logger.With("component", "classify")),
		Selector:   tracks.NewSelector(cfg.Extraction.Enabled),
		Processor:  tracks.NewProcessor(extractor, r.logger.With("component", "tracks")),
		Resolver: resolver.New(resolver.Roots{
			MovieMalayalam: cfg.Libraries.MovieMalayalam,
			MovieEnglish:   cfg.Libraries.MovieEnglish,
			TVMalayalam:    cfg.Libraries.TVMalayalam,
			TVEnglish:      cfg.Libraries.TVEnglish,
		}, resolver.NewUnifier(smb, r.logger.With("component", "unify")),
			r.logger.With("component", "resolver")),
		Engine: transfer.NewEngine(smb, transfer.RetryPolicy{
			Attempts: cfg.Transfer.RetryAttempts,
			Delay:    cfg.Transfer.RetryDelay.Std(),
		}, cfg.Daemon.DryRun, r.logger.With("component", "transfer")),
		Bus:     bus,
		Cleaner: cleaner,
		Workers: cfg.Daemon.Workers,
		Log:     r.logger.With("component", "pipeline"),
	})

	var dashboard *report.Dashboard
	if cfg.Dashboard.Enabled {
		dashboard = report.NewDashboard(cfg.Dashboard.URL)
	}
	handler := report.NewHandler(report.NewHistory(r.db), dashboard,
		r.logger.With("component", "report"))

	return &components{bus: bus, smb: smb, pipe: pipe, handler: handler}, nil
}

// Run starts all components and blocks until the context is cancelled
// or a component fails. Cancellation is a clean shutdown, not an error.
func (r *Runner) Run(ctx context.Context) error {
	cfg := r.cfg

	c, err := r.build()
	if err != nil {
		return err
	}
	defer c.close()

	watcher := scanner.NewWatcher(cfg.Download.Root, r.logger.With("component", "watcher"))
	wake := make(chan struct{}, 1)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		c.handler.Run(ctx, c.bus)
		return nil
	})
	g.Go(func() error {
		// The watcher only shortens scan latency; if it cannot run the
		// periodic sweep still covers everything.
		if err := watcher.Run(ctx, wake); err != nil && !errors.Is(err, context.Canceled) {
			r.logger.Warn("watcher stopped, relying on periodic scans", "error", err)
		}
		return nil
	})
	g.Go(func() error {
		return c.pipe.Run(ctx, cfg.Daemon.ScanInterval.Std(), wake)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// ProcessOne runs the pipeline once for a single file, bypassing the
// stability gate. The outcome is still recorded in the history and
// pushed to the dashboard.
func (r *Runner) ProcessOne(ctx context.Context, path string) error {
	c, err := r.build()
	if err != nil {
		return err
	}
	defer c.smb.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.handler.Run(ctx, c.bus)
	}()

	processErr := c.pipe.ProcessFile(ctx, path)

	// Closing the bus lets the handler drain the queued outcome events
	// and exit.
	c.bus.Close()
	<-done
	return processErr
}
