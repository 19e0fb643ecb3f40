// Package pipeline orchestrates the processing of finished downloads:
// scan, stability gate, classification, track isolation, destination
// resolution, transfer and cleanup.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nivedh/mediasort/internal/classify"
	"github.com/nivedh/mediasort/internal/events"
	"github.com/nivedh/mediasort/internal/mediainfo"
	"github.com/nivedh/mediasort/internal/resolver"
	"github.com/nivedh/mediasort/internal/scanner"
	"github.com/nivedh/mediasort/internal/tracks"
	"github.com/nivedh/mediasort/internal/transfer"
	"github.com/nivedh/mediasort/pkg/release"
)

// Pipeline ties the processing stages together and runs them over the
// download area.
type Pipeline struct {
	scanner    *scanner.Scanner
	gate       *scanner.Gate
	inspector  mediainfo.Inspector
	classifier *classify.Classifier
	selector   *tracks.Selector
	processor  *tracks.Processor
	resolver   *resolver.Resolver
	engine     *transfer.Engine
	bus        *events.Bus
	cleaner    *Cleaner // nil disables cleanup
	workers    int
	log        *slog.Logger

	mu       sync.Mutex
	destLock map[string]*destLock
	inflight map[string]bool
}

// destLock guards one destination path. Entries are refcounted so the
// map does not grow for the lifetime of the daemon.
type destLock struct {
	sync.Mutex
	refs int
}

// Deps collects the pipeline's collaborators.
type Deps struct {
	Scanner    *scanner.Scanner
	Gate       *scanner.Gate
	Inspector  mediainfo.Inspector
	Classifier *classify.Classifier
	Selector   *tracks.Selector
	Processor  *tracks.Processor
	Resolver   *resolver.Resolver
	Engine     *transfer.Engine
	Bus        *events.Bus
	Cleaner    *Cleaner
	Workers    int
	Log        *slog.Logger
}

func New(d Deps) *Pipeline {
	log := d.Log
	if log == nil {
		log = slog.Default()
	}
	workers := d.Workers
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{
		scanner:    d.Scanner,
		gate:       d.Gate,
		inspector:  d.Inspector,
		classifier: d.Classifier,
		selector:   d.Selector,
		processor:  d.Processor,
		resolver:   d.Resolver,
		engine:     d.Engine,
		bus:        d.Bus,
		cleaner:    d.Cleaner,
		workers:    workers,
		log:        log,
		destLock:   make(map[string]*destLock),
		inflight:   make(map[string]bool),
	}
}

// Run sweeps on every tick and on every wake signal until ctx is
// cancelled. wake may be nil.
func (p *Pipeline) Run(ctx context.Context, interval time.Duration, wake <-chan struct{}) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.sweep(ctx)
		case _, ok := <-wake:
			if !ok {
				wake = nil
				continue
			}
			p.sweep(ctx)
		}
	}
}

// sweep runs one scan-and-process pass. Individual file failures are
// reported through the bus and never abort the pass.
func (p *Pipeline) sweep(ctx context.Context) {
	candidates, err := p.scanner.Scan(ctx)
	if err != nil {
		p.log.Error("scan failed", "error", err)
		return
	}

	var ready []scanner.Candidate
	for _, c := range candidates {
		if !p.claim(c.Path) {
			continue // still being processed by an earlier sweep
		}
		if !p.gate.Ready(c) {
			p.release(c.Path)
			continue
		}
		ready = append(ready, c)
		p.publish(ctx, events.NewFileDiscovered(c.Path, c.SizeBytes))
	}
	if len(ready) == 0 {
		return
	}
	p.log.Info("sweep found settled files", "count", len(ready))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for _, c := range ready {
		c := c
		g.Go(func() error {
			defer p.release(c.Path)
			if err := p.ProcessFile(gctx, c.Path); err != nil {
				p.log.Error("processing failed", "path", c.Path, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// ProcessFile runs the full chain for one settled file.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) error {
	report, err := p.inspector.Inspect(ctx, path)
	if err != nil {
		p.log.Debug("inspection failed, continuing on filename signals",
			"path", path, "error", err)
		report = mediainfo.Report{}
	}

	cls := p.classifier.ClassifyWith(path, report)
	p.publish(ctx, events.NewFileClassified(path,
		string(cls.MediaType), string(cls.Language), string(cls.LanguageSource)))

	plan := p.selector.Select(path, cls, report)
	prep := p.processor.Prepare(ctx, path, plan)
	defer prep.Cleanup()

	base := filepath.Base(path)
	info := release.Parse(strings.TrimSuffix(base, filepath.Ext(base)))

	target, err := p.resolver.Resolve(ctx, resolver.Request{
		SourcePath:     path,
		Classification: cls,
		Info:           info,
		SubtitleKept:   plan.SubtitleTrackID > 0,
	})
	if err != nil {
		p.publish(ctx, events.NewTransferFailed(path,
			string(cls.MediaType), string(cls.Language), "", err.Error()))
		return fmt.Errorf("resolving destination: %w", err)
	}

	// One writer per destination path; concurrent duplicates would race
	// on the existence check.
	lock := p.acquireDest(target.Path())
	result, err := p.engine.Transfer(ctx, prep.Path, target.Dir, target.Filename)
	p.releaseDest(target.Path(), lock)

	if err != nil {
		p.publish(ctx, events.NewTransferFailed(path,
			string(cls.MediaType), string(cls.Language), target.Path(), err.Error()))
		return fmt.Errorf("transferring: %w", err)
	}

	p.publish(ctx, events.NewTransferCompleted(path,
		string(cls.MediaType), string(cls.Language), string(result.Status),
		result.RemotePath, result.SizeBytes, prep.Remuxed))

	if p.cleaner != nil && result.Status != transfer.StatusDryRun {
		removed := p.cleaner.CleanSource(path)
		p.publish(ctx, events.NewFileCleaned(path, removed))
	}
	p.gate.Forget(path)
	return nil
}

func (p *Pipeline) publish(ctx context.Context, e events.Event) {
	if p.bus == nil {
		return
	}
	_ = p.bus.Publish(ctx, e)
}

// acquireDest locks the guard for a destination path, creating it on
// first use.
func (p *Pipeline) acquireDest(dest string) *destLock {
	p.mu.Lock()
	lock, ok := p.destLock[dest]
	if !ok {
		lock = &destLock{}
		p.destLock[dest] = lock
	}
	lock.refs++
	p.mu.Unlock()

	lock.Lock()
	return lock
}

// releaseDest unlocks the guard and removes it from the map once no
// other worker holds a reference.
func (p *Pipeline) releaseDest(dest string, lock *destLock) {
	lock.Unlock()

	p.mu.Lock()
	lock.refs--
	if lock.refs == 0 {
		delete(p.destLock, dest)
	}
	p.mu.Unlock()
}

// claim marks a source path as in flight. Returns false when another
// worker already holds it.
func (p *Pipeline) claim(path string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inflight[path] {
		return false
	}
	p.inflight[path] = true
	return true
}

func (p *Pipeline) release(path string) {
	p.mu.Lock()
	delete(p.inflight, path)
	p.mu.Unlock()
}
