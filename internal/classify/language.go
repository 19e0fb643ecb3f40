package classify

import (
	"regexp"
	"strings"
)

// Language tags as written by muxers. Matched exactly against the
// normalized track language field.
var malayalamTags = map[string]bool{
	"mal":       true,
	"ml":        true,
	"malayalam": true,
}

var englishTags = map[string]bool{
	"eng":     true,
	"en":      true,
	"english": true,
}

// Full-word filename tokens. Short ambiguous forms ("m", "e") are matched
// only as standalone separator-flanked tokens, which the tokenizer
// guarantees, so they never fire inside ordinary words.
var malayalamTokens = map[string]bool{
	"mal":       true,
	"ml":        true,
	"m":         true,
	"malayalam": true,
	"mollywood": true,
}

var englishTokens = map[string]bool{
	"eng":     true,
	"en":      true,
	"e":       true,
	"english": true,
}

// Release sites that carry predominantly Malayalam regional content.
var regionalIndicatorRe = regexp.MustCompile(`(?i)tamilmv|tamilblasters|mallumv`)

var tokenSplitRe = regexp.MustCompile(`[\s._\-\[\]{}()+]+`)

// languageFromTag maps an embedded track language tag to a Language.
func languageFromTag(tag string) (Language, bool) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if malayalamTags[tag] {
		return LangMalayalam, true
	}
	if englishTags[tag] {
		return LangEnglish, true
	}
	return LangUnknown, false
}

// languageFromText scans free-form text such as a track title for
// language words. Only full words count; "Malayalam DDP 5.1" matches,
// "Normal" does not.
func languageFromText(text string) (Language, bool) {
	for _, tok := range tokenSplitRe.Split(strings.ToLower(text), -1) {
		switch tok {
		case "mal", "malayalam":
			return LangMalayalam, true
		case "eng", "english":
			return LangEnglish, true
		}
	}
	return LangUnknown, false
}

// languageFromFilename tokenizes a release name and looks for language
// markers, Malayalam taking precedence over English when both appear.
func languageFromFilename(name string) (Language, bool) {
	sawEnglish := false
	for _, tok := range tokenSplitRe.Split(strings.ToLower(name), -1) {
		if malayalamTokens[tok] {
			return LangMalayalam, true
		}
		if englishTokens[tok] {
			sawEnglish = true
		}
	}
	if sawEnglish {
		return LangEnglish, true
	}
	return LangUnknown, false
}

// hasRegionalIndicator reports whether the name carries a regional
// release site tag, which implies Malayalam far more often than not.
func hasRegionalIndicator(name string) bool {
	return regionalIndicatorRe.MatchString(name)
}
