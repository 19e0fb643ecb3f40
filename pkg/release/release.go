// Package release cleans and parses media release filenames.
package release

// Resolution represents the video resolution of a release.
type Resolution int

const (
	ResolutionUnknown Resolution = iota
	Resolution480p
	Resolution720p
	Resolution1080p
	Resolution2160p
)

// unknownStr is the string representation for unknown values.
const unknownStr = "unknown"

func (r Resolution) String() string {
	switch r {
	case Resolution480p:
		return "480p"
	case Resolution720p:
		return "720p"
	case Resolution1080p:
		return "1080p"
	case Resolution2160p:
		return "2160p"
	default:
		return unknownStr
	}
}

// Source represents the media source type of a release.
type Source int

const (
	SourceUnknown Source = iota
	SourceBluRay
	SourceWEBDL
	SourceWEBRip
	SourceHDTV
	SourceHDRip
	SourceDVD
)

func (s Source) String() string {
	switch s {
	case SourceBluRay:
		return "bluray"
	case SourceWEBDL:
		return "webdl"
	case SourceWEBRip:
		return "webrip"
	case SourceHDTV:
		return "hdtv"
	case SourceHDRip:
		return "hdrip"
	case SourceDVD:
		return "dvd"
	default:
		return unknownStr
	}
}

// Codec represents the video codec used in a release.
type Codec int

const (
	CodecUnknown Codec = iota
	CodecX264
	CodecX265
)

func (c Codec) String() string {
	switch c {
	case CodecX264:
		return "x264"
	case CodecX265:
		return "x265"
	default:
		return unknownStr
	}
}

// AudioCodec represents the audio format of a release.
type AudioCodec int

const (
	AudioUnknown AudioCodec = iota
	AudioAAC
	AudioAC3
	AudioEAC3
	AudioDTS
	AudioTrueHD
	AudioFLAC
)

func (a AudioCodec) String() string {
	switch a {
	case AudioAAC:
		return "aac"
	case AudioAC3:
		return "ac3"
	case AudioEAC3:
		return "ddp"
	case AudioDTS:
		return "dts"
	case AudioTrueHD:
		return "truehd"
	case AudioFLAC:
		return "flac"
	default:
		return unknownStr
	}
}
