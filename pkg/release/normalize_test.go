package release

import "testing"

func TestCleanName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{
			"www.1TamilMV.boo - Thallumaala (2022) Malayalam TRUE WEB-DL - 1080p - AVC - 3.4GB - ESub",
			"Thallumaala (2022)",
		},
		{
			"Random.Movie.2021.720p.HDRip.x264.AAC.700MB",
			"Random Movie (2021)",
		},
		{
			"sanet.st - Some Film 2019 BluRay 1080p DTS",
			"Some Film (2019)",
		},
		{
			"Manjummel_Boys_(2024)_Malayalam_HQ_HDRip_-_x264_-_AAC_-_700MB",
			"Manjummel Boys (2024)",
		},
		{
			"Movie Title [1080p] {x265} (Extended Fan Edit)",
			"Movie Title",
		},
		{
			"Premalu 2024 Malayalam PreDVD 1080p x264 AAC 2.3GB",
			"Premalu (2024)",
		},
		{"1917", "1917"},
		{"Plain Title", "Plain Title"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := CleanName(tt.input)
			if got != tt.want {
				t.Errorf("CleanName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// cleanCorpus holds raw release names sampled from real download folders.
// Used for the idempotence property below.
var cleanCorpus = []string{
	"www.1TamilMV.boo - Rana Naidu S02E04 Malayalam WEB-DL 1080p AVC DD+5.1 ESub",
	"www 2TamilMV com - Aavesham (2024) Malayalam HDRip - 720p - x264 - 1.4GB",
	"Bramayugam.2024.Malayalam.1080p.AMZN.WEB-DL.DDP5.1.H.265",
	"[www.Speed.cd] Show.Name.S02E05.1080p.WEB-DL.x264-GROUP",
	"Random.Movie.2021.720p.mkv",
	"Kung Fu Panda 4 (2024) 2160p 4K WEB-DL ESubs",
	"The_Office_3x12_HDTV_XviD",
	"sanet.st - Documentary 2018 720p",
	"Movie with (parenthetical) aside (2020) 1080p",
	"Spider-Man.No.Way.Home.2021.1080p.BluRay.x264.Atmos",
	"Minnal Murali (2021) Malayalam 1080p NF WEB-DL DD+5.1 Atmos ESub",
	"Ep 7 Some Mini Series 720p",
}

func TestCleanNameIdempotent(t *testing.T) {
	for _, raw := range cleanCorpus {
		once := CleanName(raw)
		twice := CleanName(once)
		if once != twice {
			t.Errorf("CleanName not idempotent for %q:\n once: %q\ntwice: %q", raw, once, twice)
		}
	}
}

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"The Matrix", "matrix"},
		{"A Beautiful Mind", "beautiful mind"},
		{"Fast & Furious", "fast and furious"},
		{"Léon: The Professional", "leon professional"},
		{"Spider-Man: No Way Home", "spider man no way home"},
		{"Rana Naidu (2023)", "rana naidu"},
		{"  Extra   Spaces  ", "extra spaces"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := CleanTitle(tt.input)
			if got != tt.want {
				t.Errorf("CleanTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRepairArtifacts(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Movie alayalam Cut", "Movie Malayalam Cut"},
		{"Some nglish Dub", "Some English Dub"},
		{"Malayalam stays put", "Malayalam stays put"},
	}

	for _, tt := range tests {
		if got := repairArtifacts(tt.input); got != tt.want {
			t.Errorf("repairArtifacts(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
