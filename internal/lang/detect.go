// Package lang classifies short Cyrillic texts as Russian or Ukrainian.
package lang

import (
	"regexp"
	"strings"
	"unicode"

	"geoaddr/internal/domain"
)

const (
	ukrainianOnly = "іїєґІЇЄҐ"
	russianOnly   = "ёъыэЁЪЫЭ"
)

var (
	ukrainianCues = regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}_])(?:вул|просп|пров|буд|м\.)(?:[^\p{L}\p{N}_]|$)`)
	russianCues   = regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}_])(?:ул|пр-т|пер|д\.)(?:[^\p{L}\p{N}_]|$)`)
)

// Detect returns the language of text. Orthography-unique letters outrank
// abbreviation cues, which outrank the generic Cyrillic fallback.
func Detect(text string) domain.Language {
	hasUK := strings.ContainsAny(text, ukrainianOnly)
	hasRU := strings.ContainsAny(text, russianOnly)
	switch {
	case hasUK && !hasRU:
		return domain.LanguageUkrainian
	case hasRU && !hasUK:
		return domain.LanguageRussian
	case hasUK && hasRU:
		return domain.LanguageUkrainian
	}
	if ukrainianCues.MatchString(text) {
		return domain.LanguageUkrainian
	}
	if russianCues.MatchString(text) {
		return domain.LanguageRussian
	}
	for _, r := range text {
		if unicode.Is(unicode.Cyrillic, r) {
			return domain.LanguageRussian
		}
	}
	return domain.LanguageUnknown
}
