package parse

import (
	"regexp"
	"strconv"
)

// numberMatcher pulls a chapter number out of a name, or reports no match.
type numberMatcher func(name string) (float64, bool)

var (
	chapterMarkerPattern = regexp.MustCompile(`(?i)ch(?:apter)?[\s._-]*(\d+(?:\.\d+)?)`)
	shortMarkerPattern   = regexp.MustCompile(`(?i)(?:^|[^a-z])c[\s._-]*(\d+(?:\.\d+)?)`)
	leadingNumberPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)`)
)

// numberMatchers run in order; the first match wins. An explicit chapter
// marker beats a bare leading number, which is often a volume or series index.
// The short "c" marker only applies to names that don't start with a number.
var numberMatchers = []numberMatcher{
	patternMatcher(chapterMarkerPattern),
	patternMatcher(leadingNumberPattern),
	patternMatcher(shortMarkerPattern),
}

func patternMatcher(pattern *regexp.Regexp) numberMatcher {
	return func(name string) (float64, bool) {
		match := pattern.FindStringSubmatch(name)
		if match == nil {
			return 0, false
		}

		num, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			return 0, false
		}

		return num, true
	}
}

// ExtractNumber derives the ordering number of a chapter from its file or
// directory base name. Names without a recognizable number yield 0.
//
//	"Chapter 05"    -> 5
//	"Ch.12"         -> 12
//	"c003"          -> 3
//	"001 - Title"   -> 1
//	"Extra Stories" -> 0
func ExtractNumber(name string) float64 {
	for _, match := range numberMatchers {
		if num, ok := match(name); ok {
			return num
		}
	}

	return 0
}
