package tracks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"github.com/nivedh/mediasort/internal/mediainfo"
)

var (
	ErrEmptyOutput   = errors.New("tracks: remux produced an empty file")
	ErrTrackMismatch = errors.New("tracks: remux output does not match plan")
)

// Extractor performs the remux described by a Plan and returns the path
// of the new file.
type Extractor interface {
	Extract(ctx context.Context, src string, plan Plan) (string, error)
}

// MKVMerge shells out to mkvmerge. Each extraction runs in its own
// scratch directory so concurrent remuxes never collide.
type MKVMerge struct {
	binary     string
	scratchDir string
	inspector  mediainfo.Inspector
}

func NewMKVMerge(binary, scratchDir string, inspector mediainfo.Inspector) *MKVMerge {
	if binary == "" {
		binary = "mkvmerge"
	}
	return &MKVMerge{binary: binary, scratchDir: scratchDir, inspector: inspector}
}

// Extract remuxes src keeping all video, the planned audio track and the
// planned subtitle track if any. mkvmerge numbers tracks from zero while
// mediainfo numbers from one, hence the offset.
func (m *MKVMerge) Extract(ctx context.Context, src string, plan Plan) (string, error) {
	workDir := filepath.Join(m.scratchDir, uuid.NewString())
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return "", fmt.Errorf("creating scratch dir: %w", err)
	}
	out := filepath.Join(workDir, filepath.Base(src))

	args := []string{
		"-o", out,
		"--audio-tracks", strconv.Itoa(plan.AudioTrackID - 1),
	}
	if plan.SubtitleTrackID > 0 {
		args = append(args, "--subtitle-tracks", strconv.Itoa(plan.SubtitleTrackID-1))
	} else {
		args = append(args, "--no-subtitles")
	}
	args = append(args, "--no-chapters", src)

	cmd := exec.CommandContext(ctx, m.binary, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		os.RemoveAll(workDir)
		return "", fmt.Errorf("running mkvmerge: %w: %s", err, string(output))
	}

	if err := m.verify(ctx, out); err != nil {
		os.RemoveAll(workDir)
		return "", err
	}
	return out, nil
}

// verify checks the remuxed file is non-empty, carries exactly one audio
// track, and that the surviving track still reads as Malayalam.
func (m *MKVMerge) verify(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("checking remux output: %w", err)
	}
	if info.Size() == 0 {
		return ErrEmptyOutput
	}
	if m.inspector == nil {
		return nil
	}
	report, err := m.inspector.Inspect(ctx, path)
	if err != nil {
		return fmt.Errorf("inspecting remux output: %w", err)
	}
	audio := report.AudioTracks()
	if len(audio) != 1 {
		return fmt.Errorf("%w: %d audio tracks survived", ErrTrackMismatch, len(audio))
	}
	if !keptAudioMatches(audio[0]) {
		return fmt.Errorf("%w: kept audio tagged %q %q", ErrTrackMismatch, audio[0].Language, audio[0].Title)
	}
	return nil
}

// keptAudioMatches reports whether an audio track still reads as
// Malayalam. A track with no language metadata at all passes, since the
// positional fallback selects exactly such tracks.
func keptAudioMatches(t mediainfo.Track) bool {
	if t.Language != "" {
		return isMalayalamTag(t.Language)
	}
	if containsWord(t.Title, "malayalam") || containsWord(t.Title, "mal") {
		return true
	}
	for _, lang := range []string{"tamil", "tam", "telugu", "tel", "hindi", "hin", "kannada", "kan", "english", "eng"} {
		if containsWord(t.Title, lang) {
			return false
		}
	}
	return true
}

// Result is what Prepare hands the pipeline: the file to transfer and a
// cleanup hook for any scratch space.
type Result struct {
	Path    string
	Remuxed bool
	Cleanup func()
}

// Processor wraps an Extractor with the degrade-to-passthrough policy.
type Processor struct {
	extractor Extractor
	log       *slog.Logger
}

func NewProcessor(extractor Extractor, log *slog.Logger) *Processor {
	if log == nil {
		log = slog.Default()
	}
	return &Processor{extractor: extractor, log: log}
}

// Prepare executes the plan. Extraction failures are logged and the
// original file is used instead; they never fail the pipeline.
func (p *Processor) Prepare(ctx context.Context, src string, plan Plan) Result {
	if plan.Action != ActionRemux || p.extractor == nil {
		return Result{Path: src, Cleanup: func() {}}
	}

	out, err := p.extractor.Extract(ctx, src, plan)
	if err != nil {
		p.log.Warn("track extraction failed, transferring original",
			"file", filepath.Base(src), "error", err)
		return Result{Path: src, Cleanup: func() {}}
	}

	workDir := filepath.Dir(out)
	return Result{
		Path:    out,
		Remuxed: true,
		Cleanup: func() { os.RemoveAll(workDir) },
	}
}
