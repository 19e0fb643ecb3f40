package classify

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/nivedh/mediasort/pkg/release"
)

// Episode numbering styles in rough order of how unambiguous they are.
// Each pattern captures season then episode; a -1 season index means the
// pattern carries no season and season 1 is assumed.
type episodePattern struct {
	re         *regexp.Regexp
	seasonIdx  int
	episodeIdx int
}

var episodePatterns = []episodePattern{
	// S02E05, s2e5, S02x05
	{regexp.MustCompile(`(?i)\bs(\d{1,2})\s*[ex](\d{1,3})\b`), 1, 2},
	// 2x05
	{regexp.MustCompile(`(?i)\b(\d{1,2})x(\d{2,3})\b`), 1, 2},
	// Season 2 Episode 5
	{regexp.MustCompile(`(?i)season[\s._-]*(\d{1,2})[\s._-]*episode[\s._-]*(\d{1,3})`), 1, 2},
	// S02 EP05, S02.Ep.05
	{regexp.MustCompile(`(?i)\bs(\d{1,2})[\s._-]+ep?\.?\s*(\d{1,3})\b`), 1, 2},
	// EP05, Episode 5 with no season marker
	{regexp.MustCompile(`(?i)\bep(?:isode)?[\s._-]*(\d{1,3})\b`), -1, 1},
}

var (
	trailingYearRe   = regexp.MustCompile(`\s*\((19|20)\d{2}\)$`)
	trailingSeasonRe = regexp.MustCompile(`(?i)[\s._-]*season[\s._-]*\d*$`)
)

// parseEpisode reports whether name refers to a TV episode and, if so,
// its series name and numbering. The prefix before the first matching
// pattern becomes the series name.
func parseEpisode(name string) (series string, season, episode int, ok bool) {
	for _, p := range episodePatterns {
		loc := p.re.FindStringSubmatchIndex(name)
		if loc == nil {
			continue
		}
		season = 1
		if p.seasonIdx > 0 {
			season = atoi(name[loc[2*p.seasonIdx]:loc[2*p.seasonIdx+1]])
		}
		episode = atoi(name[loc[2*p.episodeIdx]:loc[2*p.episodeIdx+1]])
		series = cleanSeriesName(name[:loc[0]])
		return series, season, episode, true
	}
	return "", 0, 0, false
}

// cleanSeriesName normalizes the raw prefix into a display series name.
// Episode numbering never carries a year, so a trailing year left by the
// normalizer belongs to the series and is dropped.
func cleanSeriesName(prefix string) string {
	name := release.CleanName(strings.Trim(prefix, " ._-"))
	name = trailingYearRe.ReplaceAllString(name, "")
	name = trailingSeasonRe.ReplaceAllString(name, "")
	return strings.Trim(name, " ._-")
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
