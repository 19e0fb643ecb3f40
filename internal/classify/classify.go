// Package classify decides media type and audio language for discovered files.
package classify

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/nivedh/mediasort/internal/mediainfo"
)

// MediaType is the coarse kind of a media file.
type MediaType string

const (
	TypeMovie  MediaType = "movie"
	TypeTVShow MediaType = "tvshow"
)

// Language is the detected primary audio language.
type Language string

const (
	LangMalayalam Language = "malayalam"
	LangEnglish   Language = "english"
	LangUnknown   Language = "unknown"
)

// LanguageSource records which signal decided the language.
type LanguageSource string

const (
	SourceEmbeddedAudio LanguageSource = "embeddedAudio"
	SourceEmbeddedTitle LanguageSource = "embeddedTitle"
	SourceFilename      LanguageSource = "filename"
	SourceFallback      LanguageSource = "fallback"
)

// Classification is the fused decision for one file. Season and Episode are
// only meaningful when MediaType is TypeTVShow, and are always set together.
type Classification struct {
	MediaType      MediaType
	Language       Language
	LanguageSource LanguageSource

	SeriesName string
	Season     int
	Episode    int
}

// Classifier fuses filename heuristics with embedded track metadata.
// It never returns an error: every unresolved signal degrades to a
// documented default.
type Classifier struct {
	inspector mediainfo.Inspector
	log       *slog.Logger
}

// New creates a classifier backed by the given inspector.
func New(inspector mediainfo.Inspector, log *slog.Logger) *Classifier {
	if log == nil {
		log = slog.Default()
	}
	return &Classifier{inspector: inspector, log: log}
}

// Classify inspects path and returns its classification.
func (c *Classifier) Classify(ctx context.Context, path string) Classification {
	var report mediainfo.Report
	if c.inspector != nil {
		var err error
		report, err = c.inspector.Inspect(ctx, path)
		if err != nil {
			// Inspection is a best-effort signal: fall through to the
			// filename heuristics.
			c.log.Debug("inspection failed, using filename signals only",
				"path", path, "error", err)
			report = mediainfo.Report{}
		}
	}
	return c.ClassifyWith(path, report)
}

// ClassifyWith classifies using an already obtained track report, so a
// caller that needs the report for other decisions inspects only once.
func (c *Classifier) ClassifyWith(path string, report mediainfo.Report) Classification {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	cls := Classification{MediaType: TypeMovie}

	if series, season, episode, ok := parseEpisode(name); ok {
		cls.MediaType = TypeTVShow
		cls.SeriesName = series
		cls.Season = season
		cls.Episode = episode
	}

	cls.Language, cls.LanguageSource = c.detectLanguage(name, report)

	c.log.Debug("classified",
		"file", name,
		"type", cls.MediaType,
		"language", cls.Language,
		"source", cls.LanguageSource)
	return cls
}

// detectLanguage applies the signal priority order: embedded audio tags,
// embedded track titles, filename tokens, regional release indicators and
// finally the audio-bearing default.
func (c *Classifier) detectLanguage(name string, report mediainfo.Report) (Language, LanguageSource) {
	audio := report.AudioTracks()

	for _, track := range audio {
		if lang, ok := languageFromTag(track.Language); ok {
			return lang, SourceEmbeddedAudio
		}
	}
	for _, track := range audio {
		if lang, ok := languageFromText(track.Title); ok {
			return lang, SourceEmbeddedTitle
		}
	}

	if lang, ok := languageFromFilename(name); ok {
		return lang, SourceFilename
	}
	if hasRegionalIndicator(name) {
		return LangMalayalam, SourceFallback
	}

	// Audio is present but nothing identified it: English is the more
	// useful default than unknown for a real library.
	if len(audio) > 0 {
		return LangEnglish, SourceFallback
	}
	return LangUnknown, SourceFallback
}
