// Package resolver maps a classified file to its canonical destination
// inside one of the four library roots.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/nivedh/mediasort/internal/classify"
	"github.com/nivedh/mediasort/pkg/release"
)

var (
	ErrNoTitle       = errors.New("resolver: could not derive a title")
	ErrNoRoot        = errors.New("resolver: no library root configured for this category")
	ErrPathTraversal = errors.New("resolver: resolved path escapes the library root")
)

// Roots holds the four share-relative library roots.
type Roots struct {
	MovieMalayalam string
	MovieEnglish   string
	TVMalayalam    string
	TVEnglish      string
}

// Target is a resolved destination. Dir and Filename are share-relative
// and use forward slashes regardless of the local OS.
type Target struct {
	Dir      string
	Filename string
}

// Path returns the full share-relative destination path.
func (t Target) Path() string {
	return path.Join(t.Dir, t.Filename)
}

// Request carries everything resolution needs for one file.
type Request struct {
	SourcePath     string
	Classification classify.Classification
	Info           release.Info
	SubtitleKept   bool // the track plan keeps a subtitle track
}

// Resolver builds destination paths. Resolution is deterministic: the
// same request always yields the same target, except that an existing
// near-match series folder is reused when a Unifier is configured.
type Resolver struct {
	roots   Roots
	unifier *Unifier
	log     *slog.Logger
}

func New(roots Roots, unifier *Unifier, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{roots: roots, unifier: unifier, log: log}
}

var yearSuffixRe = regexp.MustCompile(`\s*\((19|20)\d{2}\)$`)

// Resolve returns the canonical target for req.
func (r *Resolver) Resolve(ctx context.Context, req Request) (Target, error) {
	cls := req.Classification
	root, err := r.rootFor(cls.MediaType, cls.Language)
	if err != nil {
		return Target{}, err
	}

	ext := strings.TrimPrefix(filepath.Ext(req.SourcePath), ".")
	quality := qualityTag(req.Info, cls.Language, req.SubtitleKept)

	var target Target
	switch cls.MediaType {
	case classify.TypeTVShow:
		target, err = r.episodeTarget(ctx, root, cls, quality, ext)
	default:
		target, err = r.movieTarget(root, req.SourcePath, req.Info, quality, ext)
	}
	if err != nil {
		return Target{}, err
	}

	if err := validateRelative(target.Path()); err != nil {
		return Target{}, err
	}
	return target, nil
}

func (r *Resolver) movieTarget(root, srcPath string, info release.Info, quality, ext string) (Target, error) {
	base := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath))
	name := release.CleanName(base)
	title := SanitizeFilename(yearSuffixRe.ReplaceAllString(name, ""))
	if title == "" {
		return Target{}, ErrNoTitle
	}

	folder := title
	if info.Year > 0 {
		folder = fmt.Sprintf("%s (%d)", title, info.Year)
	}
	filename := folder
	if quality != "" {
		filename += " - " + quality
	}
	return Target{
		Dir:      path.Join(root, folder),
		Filename: filename + "." + ext,
	}, nil
}

func (r *Resolver) episodeTarget(ctx context.Context, root string, cls classify.Classification, quality, ext string) (Target, error) {
	series := SanitizeFilename(cls.SeriesName)
	if series == "" {
		return Target{}, ErrNoTitle
	}
	if r.unifier != nil {
		series = r.unifier.Canonical(ctx, root, series)
	}

	filename := fmt.Sprintf("%s - S%02dE%02d", series, cls.Season, cls.Episode)
	if quality != "" {
		filename += " - " + quality
	}
	return Target{
		Dir:      path.Join(root, series, "Season "+pad2(cls.Season)),
		Filename: filename + "." + ext,
	}, nil
}

func (r *Resolver) rootFor(mediaType classify.MediaType, lang classify.Language) (string, error) {
	// Unknown-language files still need a home; English is the catch-all.
	malayalam := lang == classify.LangMalayalam

	var root string
	switch {
	case mediaType == classify.TypeTVShow && malayalam:
		root = r.roots.TVMalayalam
	case mediaType == classify.TypeTVShow:
		root = r.roots.TVEnglish
	case malayalam:
		root = r.roots.MovieMalayalam
	default:
		root = r.roots.MovieEnglish
	}
	if root == "" {
		return "", ErrNoRoot
	}
	return root, nil
}

// qualityTag joins the recognized attributes into the filename suffix
// in a fixed order: resolution, codec, audio language, subtitle marker,
// size. Each tag only appears when its detector produced a value; the
// audio language is tagged for Malayalam only since English is the
// library default.
func qualityTag(info release.Info, lang classify.Language, subtitleKept bool) string {
	var parts []string
	if info.Resolution != release.ResolutionUnknown {
		parts = append(parts, info.Resolution.String())
	}
	if info.Codec != release.CodecUnknown {
		parts = append(parts, info.Codec.String())
	}
	if lang == classify.LangMalayalam {
		parts = append(parts, "Malayalam")
	}
	if subtitleKept {
		parts = append(parts, "ESub")
	}
	if info.SizeTag != "" {
		parts = append(parts, info.SizeTag)
	}
	return strings.Join(parts, " ")
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
