package release

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Site prefixes and inline tags planted by distribution sites.
// Anchored patterns run against the start of the name, inline ones anywhere.
var siteAnchoredRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^www[\s.]*\d*\s*tamilmv[\s.]*[a-z]*\s*-\s*`),
	regexp.MustCompile(`(?i)^sanet[\s.]*[a-z]*\s*-\s*`),
	regexp.MustCompile(`(?i)^www\.[\w-]+\.\w+\s*-\s*`),
	regexp.MustCompile(`(?i)^www\s+[\w-]+\s+\w+\s*-\s*`),
	regexp.MustCompile(`(?i)^\[\s*(?:www[\s.]*)?\w*(?:tamilmv|tamilblasters|sanet)[\s.]*\w*\s*\]\s*`),
	regexp.MustCompile(`(?i)^\d*\s*tamilmv[\s.]*[a-z]*\s*-\s*`),
}

var siteInlineRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b\d*\s*tamilmv[\s.]*[a-z]{2,4}\b`),
	regexp.MustCompile(`(?i)\btamilblasters[\s.]*[a-z]{2,4}\b`),
	regexp.MustCompile(`(?i)\bsanet[\s.]*st\b`),
}

// Quality, source, codec, audio and language annotations that appear as
// standalone tokens in release names. Matched with boundaries so they never
// fire inside ordinary words.
var junkTokenRe = regexp.MustCompile(`(?i)\b(` +
	`web[\s-]?dl|web[\s-]?rip|blu[\s-]?ray|b[dr]rip|hdrip|dvdrip|dvdscr|hdtv|camrip|predvd|` +
	`2160p|1080p|720p|480p|4k|uhd|hq|untouched|remastered|` +
	`amzn|nf|dsnp|zee5|sonyliv|jc|hotstar|` +
	`x26[45]|h[\s.]?26[45]|hevc|avc|xvid|divx|10bit|8bit|` +
	`dd\+?\s?(?:5[\s.]1|2[\s.]0|7[\s.]1)?|ddp|e?ac-?3|aac|dts(?:-hd)?(?:\sma)?|truehd|atmos|flac|` +
	`5[\s.]1|7[\s.]1|2[\s.]0|` +
	`\d+kbps|\d+(?:\.\d+)?\s?[gm]b|` +
	`e?subs?|msubs?|multi[\s-]?subs?|` +
	`malayalam|tamil|telugu|hindi|kannada|english|multi[\s-]?audio|dual[\s-]?audio|mal|tam|tel|kan|eng` +
	`)\b`)

// "TRUE WEB-DL" style embellishments where TRUE only means anything next to
// a source keyword.
var trueSourceRe = regexp.MustCompile(`(?i)\btrue\s+(web|blu|hd)`)

var (
	parenGroupRe   = regexp.MustCompile(`\([^)]*\)`)
	bracketGroupRe = regexp.MustCompile(`\[[^\]]*\]|\{[^}]*\}`)
	parenYearRe    = regexp.MustCompile(`\(((?:19|20)\d{2})\)`)
	bareYearRe     = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	multiSpaceRe   = regexp.MustCompile(`\s+`)
	ddPlusRe       = regexp.MustCompile(`(?i)\bdd\+`)
	sepRunRe       = regexp.MustCompile(`(?:\s*-\s*){2,}`)
)

// Truncation artifacts left behind when earlier tooling stripped a flanked
// single-letter language token out of the middle of a word. Best-effort
// lexical patch, not a spell-checker.
var artifactRepairs = []struct {
	re  *regexp.Regexp
	fix string
}{
	{regexp.MustCompile(`\balayalam\b`), "Malayalam"},
	{regexp.MustCompile(`\bnglish\b`), "English"},
	{regexp.MustCompile(`\bamil\b`), "Tamil"},
	{regexp.MustCompile(`\bpisode\b`), "Episode"},
}

// CleanName turns a raw release filename (without extension) into a clean
// display title. The pass order is fixed and every pass is idempotent, so
// CleanName(CleanName(x)) == CleanName(x).
func CleanName(name string) string {
	// Underscores count as word characters and would defeat the token
	// boundary matching below, so they become spaces up front.
	name = strings.ReplaceAll(name, "_", " ")

	year := extractYear(name)

	name = stripSiteTags(name)
	name = stripGroupedTags(name)
	name = stripJunkTokens(name)
	name = normalizeSeparators(name)
	name = repairArtifacts(name)
	name = appendYear(name, year)

	return name
}

func stripSiteTags(name string) string {
	for changed := true; changed; {
		changed = false
		for _, re := range siteAnchoredRes {
			if next := re.ReplaceAllString(name, ""); next != name {
				name = next
				changed = true
			}
		}
	}
	for _, re := range siteInlineRes {
		name = re.ReplaceAllString(name, " ")
	}
	return name
}

// stripGroupedTags drops bracketed and braced metadata blocks outright, and
// parenthesized blocks unless they hold a bare year at the end of the name.
func stripGroupedTags(name string) string {
	name = bracketGroupRe.ReplaceAllString(name, " ")
	return parenGroupRe.ReplaceAllStringFunc(name, func(match string) string {
		if !parenYearRe.MatchString(match) {
			return " "
		}
		idx := strings.Index(name, match)
		if idx >= 0 && strings.TrimSpace(name[idx+len(match):]) == "" {
			return match
		}
		return " "
	})
}

func stripJunkTokens(name string) string {
	name = trueSourceRe.ReplaceAllString(name, "$1")
	name = ddPlusRe.ReplaceAllString(name, "dd ")
	for changed := true; changed; {
		next := junkTokenRe.ReplaceAllString(name, " ")
		changed = next != name
		name = next
	}
	return name
}

func normalizeSeparators(name string) string {
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, ".", " ")
	name = multiSpaceRe.ReplaceAllString(name, " ")
	name = sepRunRe.ReplaceAllString(name, " - ")
	name = multiSpaceRe.ReplaceAllString(name, " ")
	return strings.Trim(name, " -.+")
}

func repairArtifacts(name string) string {
	for _, r := range artifactRepairs {
		name = r.re.ReplaceAllString(name, r.fix)
	}
	return name
}

// extractYear pulls the release year out of a raw name, preferring an
// explicit (YYYY) marker over a bare token. Returns 0 when absent.
func extractYear(name string) int {
	if m := parenYearRe.FindStringSubmatch(name); m != nil {
		return atoi(m[1])
	}
	// Bare years are ambiguous with numeric titles, so take the last match
	// and never a year that is the entire name.
	all := bareYearRe.FindAllStringIndex(name, -1)
	if len(all) == 0 {
		return 0
	}
	last := all[len(all)-1]
	if strings.TrimSpace(name[:last[0]]) == "" && strings.TrimSpace(name[last[1]:]) == "" {
		return 0
	}
	return atoi(name[last[0]:last[1]])
}

// appendYear canonicalizes the year as a trailing "(YYYY)" marker.
func appendYear(name string, year int) string {
	if year == 0 || name == "" {
		return name
	}
	marker := "(" + itoa(year) + ")"
	if strings.HasSuffix(name, marker) {
		return name
	}
	// A trailing bare year becomes the parenthesized form instead of
	// appearing twice.
	bare := itoa(year)
	if trimmed, ok := strings.CutSuffix(name, " "+bare); ok {
		name = trimmed
	}
	return strings.TrimSpace(name) + " " + marker
}

// CleanTitle normalizes a title down to a comparison key for fuzzy matching:
// lowercase, accents stripped, articles and punctuation dropped.
func CleanTitle(title string) string {
	s := strings.ToLower(title)
	s = removeAccents(s)
	s = parenYearRe.ReplaceAllString(s, " ")

	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, ".", " ")

	parts := strings.Split(s, ":")
	for i, part := range parts {
		parts[i] = stripLeadingArticle(strings.TrimSpace(part))
	}
	s = strings.Join(parts, " ")

	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

func stripLeadingArticle(s string) string {
	for _, art := range []string{"the ", "a ", "an "} {
		if strings.HasPrefix(s, art) {
			return strings.TrimPrefix(s, art)
		}
	}
	return s
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits [12]byte
	i := len(digits)
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return string(digits[i:])
}
