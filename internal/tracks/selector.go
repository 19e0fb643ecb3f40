// Package tracks plans and performs audio track isolation for multi-audio
// releases. A remux keeps every video track, exactly one audio track and at
// most one subtitle track; anything that goes wrong degrades to moving the
// original file untouched.
package tracks

import (
	"path/filepath"
	"strings"

	"github.com/nivedh/mediasort/internal/classify"
	"github.com/nivedh/mediasort/internal/mediainfo"
)

// Action says what to do with a file before transfer.
type Action string

const (
	ActionPassthrough Action = "passthrough"
	ActionRemux       Action = "remux"
)

// Plan is the outcome of track selection. Track IDs use mediainfo's
// 1-based numbering; a zero SubtitleTrackID means no subtitle is kept.
type Plan struct {
	Action          Action
	AudioTrackID    int
	SubtitleTrackID int
}

// Selector decides whether a file needs a remux and which tracks survive.
type Selector struct {
	enabled bool
}

func NewSelector(enabled bool) *Selector {
	return &Selector{enabled: enabled}
}

// Select builds the track plan for one file. Remuxing only applies to
// Malayalam Matroska files with more than one audio track; everything else
// passes through unchanged.
func (s *Selector) Select(path string, cls classify.Classification, report mediainfo.Report) Plan {
	plan := Plan{Action: ActionPassthrough}

	if !s.enabled || cls.Language != classify.LangMalayalam {
		return plan
	}
	if !strings.EqualFold(filepath.Ext(path), ".mkv") {
		return plan
	}
	audio := report.AudioTracks()
	if len(audio) < 2 {
		return plan
	}

	plan.Action = ActionRemux
	plan.AudioTrackID = pickAudioTrack(audio)
	plan.SubtitleTrackID = pickSubtitleTrack(report.SubtitleTracks())
	return plan
}

// pickAudioTrack prefers an explicit Malayalam language tag, then a
// Malayalam track title. Regional multi-audio releases conventionally
// place the local language first, so the first track is the fallback.
func pickAudioTrack(audio []mediainfo.Track) int {
	for _, t := range audio {
		if isMalayalamTag(t.Language) {
			return t.ID
		}
	}
	for _, t := range audio {
		if containsWord(t.Title, "malayalam") || containsWord(t.Title, "mal") {
			return t.ID
		}
	}
	return audio[0].ID
}

// pickSubtitleTrack keeps an English subtitle when one exists and drops
// subtitles entirely otherwise.
func pickSubtitleTrack(subs []mediainfo.Track) int {
	for _, t := range subs {
		if isEnglishTag(t.Language) || containsWord(t.Title, "english") || containsWord(t.Title, "eng") {
			return t.ID
		}
	}
	return 0
}

func isMalayalamTag(tag string) bool {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "mal", "ml", "malayalam":
		return true
	}
	return false
}

func isEnglishTag(tag string) bool {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "eng", "en", "english":
		return true
	}
	return false
}

func containsWord(text, word string) bool {
	for _, tok := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return r == ' ' || r == '.' || r == '_' || r == '-' || r == '[' || r == ']' || r == '(' || r == ')'
	}) {
		if tok == word {
			return true
		}
	}
	return false
}
