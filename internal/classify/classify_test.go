package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/nivedh/mediasort/internal/mediainfo"
)

type stubInspector struct {
	report mediainfo.Report
	err    error
}

func (s *stubInspector) Inspect(_ context.Context, _ string) (mediainfo.Report, error) {
	return s.report, s.err
}

func audioReport(tracks ...mediainfo.Track) mediainfo.Report {
	return mediainfo.Report{Tracks: tracks}
}

func TestClassifyLanguagePriority(t *testing.T) {
	tests := []struct {
		name       string
		filename   string
		report     mediainfo.Report
		wantLang   Language
		wantSource LanguageSource
	}{
		{
			name:     "embedded audio tag wins over filename",
			filename: "Some.English.Movie.2021.1080p.mkv",
			report: audioReport(
				mediainfo.Track{Type: mediainfo.TrackAudio, Language: "mal"},
			),
			wantLang:   LangMalayalam,
			wantSource: SourceEmbeddedAudio,
		},
		{
			name:     "track title when tags are empty",
			filename: "Some.Movie.2021.1080p.mkv",
			report: audioReport(
				mediainfo.Track{Type: mediainfo.TrackAudio, Title: "Malayalam DDP 5.1"},
			),
			wantLang:   LangMalayalam,
			wantSource: SourceEmbeddedTitle,
		},
		{
			name:     "filename token when tracks carry nothing",
			filename: "Thallumaala.2022.Malayalam.1080p.mkv",
			report: audioReport(
				mediainfo.Track{Type: mediainfo.TrackAudio},
			),
			wantLang:   LangMalayalam,
			wantSource: SourceFilename,
		},
		{
			name:     "flanked short token",
			filename: "Movie.Name.2022.[M].1080p.mkv",
			report: audioReport(
				mediainfo.Track{Type: mediainfo.TrackAudio},
			),
			wantLang:   LangMalayalam,
			wantSource: SourceFilename,
		},
		{
			name:       "short token not matched inside words",
			filename:   "Metro.2022.1080p.mkv",
			report:     audioReport(mediainfo.Track{Type: mediainfo.TrackAudio}),
			wantLang:   LangEnglish,
			wantSource: SourceFallback,
		},
		{
			name:       "regional site tag implies malayalam",
			filename:   "www.1TamilMV.boo - Movie (2022) 1080p.mkv",
			report:     audioReport(mediainfo.Track{Type: mediainfo.TrackAudio}),
			wantLang:   LangMalayalam,
			wantSource: SourceFallback,
		},
		{
			name:       "audio present with no signal defaults to english",
			filename:   "Plain.Movie.2020.1080p.mkv",
			report:     audioReport(mediainfo.Track{Type: mediainfo.TrackAudio}),
			wantLang:   LangEnglish,
			wantSource: SourceFallback,
		},
		{
			name:       "no audio at all is unknown",
			filename:   "Plain.Movie.2020.1080p.mkv",
			report:     mediainfo.Report{},
			wantLang:   LangUnknown,
			wantSource: SourceFallback,
		},
		{
			name:     "malayalam beats english in the same filename",
			filename: "Movie.2022.Mal.Eng.1080p.mkv",
			report: audioReport(
				mediainfo.Track{Type: mediainfo.TrackAudio},
			),
			wantLang:   LangMalayalam,
			wantSource: SourceFilename,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(&stubInspector{report: tt.report}, nil)
			got := c.Classify(context.Background(), "/downloads/"+tt.filename)
			if got.Language != tt.wantLang {
				t.Errorf("language = %q, want %q", got.Language, tt.wantLang)
			}
			if got.LanguageSource != tt.wantSource {
				t.Errorf("source = %q, want %q", got.LanguageSource, tt.wantSource)
			}
		})
	}
}

func TestClassifyMediaType(t *testing.T) {
	tests := []struct {
		filename    string
		wantType    MediaType
		wantSeries  string
		wantSeason  int
		wantEpisode int
	}{
		{"Rana.Naidu.S02E05.1080p.WEB-DL.mkv", TypeTVShow, "Rana Naidu", 2, 5},
		{"Show.Name.2x05.HDTV.mkv", TypeTVShow, "Show Name", 2, 5},
		{"Some Show Season 1 Episode 3.mkv", TypeTVShow, "Some Show", 1, 3},
		{"Kerala.Crime.Files.S01.EP04.1080p.mkv", TypeTVShow, "Kerala Crime Files", 1, 4},
		{"Lonely.Show.Ep.7.720p.mkv", TypeTVShow, "Lonely Show", 1, 7},
		{"Random.Movie.2021.720p.HDRip.mkv", TypeMovie, "", 0, 0},
		{"1917.2019.1080p.BluRay.mkv", TypeMovie, "", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			c := New(&stubInspector{}, nil)
			got := c.Classify(context.Background(), tt.filename)
			if got.MediaType != tt.wantType {
				t.Fatalf("type = %q, want %q", got.MediaType, tt.wantType)
			}
			if got.SeriesName != tt.wantSeries {
				t.Errorf("series = %q, want %q", got.SeriesName, tt.wantSeries)
			}
			if got.Season != tt.wantSeason || got.Episode != tt.wantEpisode {
				t.Errorf("numbering = S%dE%d, want S%dE%d",
					got.Season, got.Episode, tt.wantSeason, tt.wantEpisode)
			}
		})
	}
}

func TestClassifyInspectionFailure(t *testing.T) {
	c := New(&stubInspector{err: errors.New("binary not found")}, nil)
	got := c.Classify(context.Background(), "Thallumaala.2022.Malayalam.1080p.mkv")
	if got.Language != LangMalayalam || got.LanguageSource != SourceFilename {
		t.Errorf("got %q via %q, want malayalam via filename", got.Language, got.LanguageSource)
	}
	if got.MediaType != TypeMovie {
		t.Errorf("type = %q, want movie", got.MediaType)
	}
}
