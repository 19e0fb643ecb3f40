package scanner

import (
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

// Extensions and sibling markers that mean a download is still in
// flight.
var inFlightSuffixes = []string{".part", ".!qb", ".crdownload", ".tmp"}

var siblingMarkers = []string{".part", ".lock", ".!qB"}

// Gate decides when a candidate file has settled: big enough, no
// in-flight markers, the same size on two consecutive observations, and
// not write-locked by another process.
type Gate struct {
	minSize  int64
	staleTTL time.Duration
	probe    bool
	log      *slog.Logger

	mu   sync.Mutex
	seen map[string]observation
}

type observation struct {
	size int64
	at   time.Time
}

// NewGate creates a stability gate. probe enables the advisory-lock
// check, which only helps when the downloader takes flock on files it
// writes.
func NewGate(minSize int64, staleTTL time.Duration, probe bool, log *slog.Logger) *Gate {
	if log == nil {
		log = slog.Default()
	}
	if staleTTL <= 0 {
		staleTTL = time.Hour
	}
	return &Gate{
		minSize:  minSize,
		staleTTL: staleTTL,
		probe:    probe,
		log:      log,
		seen:     make(map[string]observation),
	}
}

// Ready reports whether the candidate can enter the pipeline. The first
// sighting of a path always returns false; stability needs two looks.
func (g *Gate) Ready(c Candidate) bool {
	if hasInFlightMarker(c.Path) {
		return false
	}
	if c.SizeBytes < g.minSize {
		return false
	}

	g.mu.Lock()
	prev, known := g.seen[c.Path]
	g.seen[c.Path] = observation{size: c.SizeBytes, at: time.Now()}
	g.evictStaleLocked()
	g.mu.Unlock()

	if !known || prev.size != c.SizeBytes {
		return false
	}

	if g.probe && !g.tryLock(c.Path) {
		return false
	}
	return true
}

// Forget drops the observation for a path once it has been processed,
// so a re-downloaded file starts a fresh stability window.
func (g *Gate) Forget(path string) {
	g.mu.Lock()
	delete(g.seen, path)
	g.mu.Unlock()
}

// tryLock takes and immediately releases a shared advisory lock. A
// refused lock means some writer still holds the file.
func (g *Gate) tryLock(path string) bool {
	lock := flock.New(path)
	ok, err := lock.TryRLock()
	if err != nil {
		g.log.Debug("lock probe failed, assuming settled", "path", path, "error", err)
		return true
	}
	if !ok {
		return false
	}
	_ = lock.Unlock()
	return true
}

// evictStaleLocked removes observations for paths not seen in a while.
// Callers hold g.mu.
func (g *Gate) evictStaleLocked() {
	cutoff := time.Now().Add(-g.staleTTL)
	for path, obs := range g.seen {
		if obs.at.Before(cutoff) {
			delete(g.seen, path)
		}
	}
}

func hasInFlightMarker(path string) bool {
	lower := strings.ToLower(path)
	for _, suffix := range inFlightSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	for _, marker := range siblingMarkers {
		if _, err := os.Stat(path + marker); err == nil {
			return true
		}
	}
	return false
}
