// Package mediainfo wraps the mediainfo CLI for container inspection.
package mediainfo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// TrackType identifies the kind of a container track.
type TrackType string

const (
	TrackVideo    TrackType = "Video"
	TrackAudio    TrackType = "Audio"
	TrackSubtitle TrackType = "Text"
)

// Track describes a single track in a media container.
type Track struct {
	// ID is the container track ID as reported by mediainfo (1-based).
	ID       int
	Type     TrackType
	Language string // language tag, may be empty or "und"
	Title    string // free-text track title, may be empty
	Codec    string
	Width    int // video only
	Height   int // video only
}

// Report is the parsed result of inspecting one file.
type Report struct {
	Tracks []Track
}

// Inspector enumerates the tracks of a media container.
type Inspector interface {
	Inspect(ctx context.Context, path string) (Report, error)
}

// AudioTracks returns the audio tracks in container order.
func (r Report) AudioTracks() []Track {
	return r.ofType(TrackAudio)
}

// SubtitleTracks returns the text tracks in container order.
func (r Report) SubtitleTracks() []Track {
	return r.ofType(TrackSubtitle)
}

// VideoHeight returns the height of the first video track, or 0.
func (r Report) VideoHeight() int {
	for _, t := range r.Tracks {
		if t.Type == TrackVideo {
			return t.Height
		}
	}
	return 0
}

// VideoCodec returns the codec of the first video track, or "".
func (r Report) VideoCodec() string {
	for _, t := range r.Tracks {
		if t.Type == TrackVideo {
			return t.Codec
		}
	}
	return ""
}

func (r Report) ofType(tt TrackType) []Track {
	var out []Track
	for _, t := range r.Tracks {
		if t.Type == tt {
			out = append(out, t)
		}
	}
	return out
}

// CLI runs the mediainfo binary with JSON output.
type CLI struct {
	binary string
}

// NewCLI creates an inspector using the given mediainfo binary.
// An empty binary falls back to "mediainfo" on PATH.
func NewCLI(binary string) *CLI {
	if strings.TrimSpace(binary) == "" {
		binary = "mediainfo"
	}
	return &CLI{binary: binary}
}

// mediainfo --Output=JSON payload shape.
type jsonOutput struct {
	Media struct {
		Track []jsonTrack `json:"track"`
	} `json:"media"`
}

type jsonTrack struct {
	Type     string `json:"@type"`
	ID       string `json:"ID"`
	Format   string `json:"Format"`
	Language string `json:"Language"`
	Title    string `json:"Title"`
	Width    string `json:"Width"`
	Height   string `json:"Height"`
}

// Inspect executes mediainfo against the provided path and decodes the
// JSON response into a Report.
func (c *CLI) Inspect(ctx context.Context, path string) (Report, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Report{}, errors.New("mediainfo inspect: empty path")
	}

	cmd := exec.CommandContext(ctx, c.binary, "--Output=JSON", path)
	output, err := cmd.Output()
	if err != nil {
		return Report{}, fmt.Errorf("mediainfo inspect: %w", err)
	}

	return parseReport(output)
}

func parseReport(data []byte) (Report, error) {
	var decoded jsonOutput
	if err := json.Unmarshal(data, &decoded); err != nil {
		return Report{}, fmt.Errorf("mediainfo parse: %w", err)
	}

	var report Report
	for _, jt := range decoded.Media.Track {
		tt := TrackType(jt.Type)
		switch tt {
		case TrackVideo, TrackAudio, TrackSubtitle:
		default:
			continue // General track and anything exotic
		}
		report.Tracks = append(report.Tracks, Track{
			ID:       parseInt(jt.ID),
			Type:     tt,
			Language: strings.ToLower(strings.TrimSpace(jt.Language)),
			Title:    strings.TrimSpace(jt.Title),
			Codec:    jt.Format,
			Width:    parseInt(jt.Width),
			Height:   parseInt(jt.Height),
		})
	}
	return report, nil
}

func parseInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
