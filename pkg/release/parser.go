package release

import (
	"regexp"
	"strings"
)

// Info contains technical attributes parsed from a release name.
type Info struct {
	Resolution Resolution
	Source     Source
	Codec      Codec
	Audio      AudioCodec
	Year       int
	SizeTag    string // verbatim size annotation, e.g. "1.4GB"
}

var sizeRe = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?\s?[GM]B)\b`)

// Parse extracts technical attributes from a release name.
// Unrecognized attributes stay at their zero (unknown) value.
func Parse(name string) Info {
	// The size annotation must be read off the raw name: dot separators are
	// about to become spaces, which would split a decimal like "1.4GB".
	var sizeTag string
	if match := sizeRe.FindString(name); match != "" {
		sizeTag = strings.ReplaceAll(strings.ToUpper(match), " ", "")
	}

	// Remaining separators become spaces so token matching works uniformly.
	name = strings.ReplaceAll(name, ".", " ")
	name = strings.ReplaceAll(name, "_", " ")

	return Info{
		Resolution: parseResolution(name),
		Source:     parseSource(name),
		Codec:      parseCodec(name),
		Audio:      parseAudio(name),
		Year:       extractYear(name),
		SizeTag:    sizeTag,
	}
}

func parseResolution(name string) Resolution {
	name = strings.ToLower(name)
	switch {
	case containsAny(name, "2160p", "4k", "uhd"):
		return Resolution2160p
	case strings.Contains(name, "1080p"):
		return Resolution1080p
	case strings.Contains(name, "720p"):
		return Resolution720p
	case strings.Contains(name, "480p"):
		return Resolution480p
	default:
		return ResolutionUnknown
	}
}

func parseSource(name string) Source {
	name = strings.ToLower(name)
	switch {
	case containsAny(name, "bluray", "blu-ray", "bdrip", "brrip"):
		return SourceBluRay
	case containsAny(name, "web-dl", "webdl"):
		return SourceWEBDL
	case containsAny(name, "webrip", "web-rip"):
		return SourceWEBRip
	case containsAny(name, "hdtv"):
		return SourceHDTV
	case containsAny(name, "hdrip"):
		return SourceHDRip
	case containsAny(name, "dvdrip", "dvdscr"):
		return SourceDVD
	default:
		return SourceUnknown
	}
}

func parseCodec(name string) Codec {
	name = strings.ToLower(name)
	switch {
	case containsAny(name, "x265", "h265", "h 265", "hevc"):
		return CodecX265
	case containsAny(name, "x264", "h264", "h 264", "avc"):
		return CodecX264
	default:
		return CodecUnknown
	}
}

func parseAudio(name string) AudioCodec {
	name = strings.ToLower(name)
	switch {
	case containsAny(name, "truehd", "atmos"):
		return AudioTrueHD
	case containsAny(name, "dd+", "ddp", "eac3", "e-ac-3"):
		return AudioEAC3
	case containsAny(name, "dts"):
		return AudioDTS
	case containsAny(name, "flac"):
		return AudioFLAC
	case containsAny(name, "ac3", "dd5", "dd2"):
		return AudioAC3
	case containsAny(name, "aac"):
		return AudioAAC
	default:
		return AudioUnknown
	}
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
