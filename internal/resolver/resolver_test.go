package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/nivedh/mediasort/internal/classify"
	"github.com/nivedh/mediasort/pkg/release"
)

func testRoots() Roots {
	return Roots{
		MovieMalayalam: "movies/malayalam",
		MovieEnglish:   "movies/english",
		TVMalayalam:    "tv/malayalam",
		TVEnglish:      "tv/english",
	}
}

func TestResolveMovie(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want string
	}{
		{
			name: "malayalam movie with full release info",
			req: Request{
				SourcePath: "/dl/Thallumaala (2022) Malayalam 1080p WEB-DL x264.mkv",
				Classification: classify.Classification{
					MediaType: classify.TypeMovie,
					Language:  classify.LangMalayalam,
				},
				Info: release.Info{
					Year:       2022,
					Resolution: release.Resolution1080p,
					Source:     release.SourceWEBDL,
					Codec:      release.CodecX264,
				},
			},
			want: "movies/malayalam/Thallumaala (2022)/Thallumaala (2022) - 1080p x264 Malayalam.mkv",
		},
		{
			name: "subtitle and size tags",
			req: Request{
				SourcePath: "/dl/Manjummel.Boys.2024.1080p.mkv",
				Classification: classify.Classification{
					MediaType: classify.TypeMovie,
					Language:  classify.LangMalayalam,
				},
				Info: release.Info{
					Year:       2024,
					Resolution: release.Resolution1080p,
					SizeTag:    "1.4GB",
				},
				SubtitleKept: true,
			},
			want: "movies/malayalam/Manjummel Boys (2024)/Manjummel Boys (2024) - 1080p Malayalam ESub 1.4GB.mkv",
		},
		{
			name: "numeric title keeps the real release year",
			req: Request{
				SourcePath: "/dl/1917.2019.1080p.BluRay.x264.mkv",
				Classification: classify.Classification{
					MediaType: classify.TypeMovie,
					Language:  classify.LangEnglish,
				},
				Info: release.Parse("1917.2019.1080p.BluRay.x264"),
			},
			want: "movies/english/1917 (2019)/1917 (2019) - 1080p x264.mkv",
		},
		{
			name: "english movie without release info",
			req: Request{
				SourcePath: "/dl/Random.Movie.2021.mp4",
				Classification: classify.Classification{
					MediaType: classify.TypeMovie,
					Language:  classify.LangEnglish,
				},
				Info: release.Info{Year: 2021},
			},
			want: "movies/english/Random Movie (2021)/Random Movie (2021).mp4",
		},
		{
			name: "unknown language falls back to english root",
			req: Request{
				SourcePath: "/dl/Mystery.Film.mkv",
				Classification: classify.Classification{
					MediaType: classify.TypeMovie,
					Language:  classify.LangUnknown,
				},
			},
			want: "movies/english/Mystery Film/Mystery Film.mkv",
		},
	}

	r := New(testRoots(), nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got.Path() != tt.want {
				t.Errorf("path = %q, want %q", got.Path(), tt.want)
			}
		})
	}
}

func TestResolveEpisode(t *testing.T) {
	r := New(testRoots(), nil, nil)
	req := Request{
		SourcePath: "/dl/Rana.Naidu.S02E05.1080p.WEB-DL.mkv",
		Classification: classify.Classification{
			MediaType:  classify.TypeTVShow,
			Language:   classify.LangMalayalam,
			SeriesName: "Rana Naidu",
			Season:     2,
			Episode:    5,
		},
		Info: release.Info{
			Resolution: release.Resolution1080p,
			Source:     release.SourceWEBDL,
		},
	}

	got, err := r.Resolve(context.Background(), req)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := "tv/malayalam/Rana Naidu/Season 02/Rana Naidu - S02E05 - 1080p Malayalam.mkv"
	if got.Path() != want {
		t.Errorf("path = %q, want %q", got.Path(), want)
	}
}

func TestResolveDeterministic(t *testing.T) {
	r := New(testRoots(), nil, nil)
	req := Request{
		SourcePath: "/dl/Thallumaala.2022.Malayalam.1080p.mkv",
		Classification: classify.Classification{
			MediaType: classify.TypeMovie,
			Language:  classify.LangMalayalam,
		},
		Info: release.Info{Year: 2022, Resolution: release.Resolution1080p},
	}

	first, err := r.Resolve(context.Background(), req)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := r.Resolve(context.Background(), req)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if again != first {
			t.Fatalf("resolution not deterministic: %+v vs %+v", again, first)
		}
	}
}

func TestResolveMissingRoot(t *testing.T) {
	r := New(Roots{MovieEnglish: "movies/english"}, nil, nil)
	_, err := r.Resolve(context.Background(), Request{
		SourcePath: "/dl/Some.Movie.2020.mkv",
		Classification: classify.Classification{
			MediaType: classify.TypeMovie,
			Language:  classify.LangMalayalam,
		},
	})
	if !errors.Is(err, ErrNoRoot) {
		t.Errorf("error = %v, want ErrNoRoot", err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Movie: The Sequel", "Movie The Sequel"},
		{"Name/With\\Slashes", "Name With Slashes"},
		{"..hidden..", "hidden"},
		{"What?  *Why*", "What Why"},
		{"Clean Name", "Clean Name"},
	}
	for _, tt := range tests {
		if got := SanitizeFilename(tt.input); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

type fakeLister struct {
	dirs []string
	err  error
}

func (f *fakeLister) ListDirs(context.Context, string) ([]string, error) {
	return f.dirs, f.err
}

func TestUnifierReusesExistingFolder(t *testing.T) {
	u := NewUnifier(&fakeLister{dirs: []string{"Rana Naidu (2023)", "Kota Factory"}}, nil)
	got := u.Canonical(context.Background(), "tv/malayalam", "Rana Naidu")
	if got != "Rana Naidu (2023)" {
		t.Errorf("canonical = %q, want existing folder", got)
	}
}

func TestUnifierKeepsNameWhenNoMatch(t *testing.T) {
	u := NewUnifier(&fakeLister{dirs: []string{"Completely Different Show"}}, nil)
	got := u.Canonical(context.Background(), "tv/malayalam", "Rana Naidu")
	if got != "Rana Naidu" {
		t.Errorf("canonical = %q, want resolved name", got)
	}
}

func TestUnifierToleratesListFailure(t *testing.T) {
	u := NewUnifier(&fakeLister{err: errors.New("share unreachable")}, nil)
	got := u.Canonical(context.Background(), "tv/malayalam", "Rana Naidu")
	if got != "Rana Naidu" {
		t.Errorf("canonical = %q, want resolved name", got)
	}
}
