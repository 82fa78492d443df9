// Package morph is a small rule-based morphological analyzer that puts Russian
// and Ukrainian street-name words into the nominative case.
package morph

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball"

	"geoaddr/internal/domain"
)

// minStem is the shortest stem (in runes) a rewrite may leave behind.
const minStem = 3

// Analyzer implements port.Morphology.
type Analyzer struct {
	stem func(word string) string
}

// NewAnalyzer creates an Analyzer that checks Russian rewrites with the Snowball stemmer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{stem: russianStem}
}

func russianStem(word string) string {
	s, err := snowball.Stem(word, "russian", true)
	if err != nil {
		return word
	}
	return s
}

// Inflect returns word in the nominative case. Words that no rule rewrites are
// taken to be nominative already and returned unchanged. The second result is
// false when the word is not a plain Cyrillic word or a Russian rewrite would
// change the word's stem.
func (a *Analyzer) Inflect(word string, lang domain.Language) (string, bool) {
	if head, tail, ok := splitHyphen(word); ok {
		inflected, ok := a.Inflect(tail, lang)
		if !ok {
			return "", false
		}
		return head + "-" + inflected, true
	}
	if !isCyrillicWord(word) {
		return "", false
	}

	lower := strings.ToLower(word)
	if nom, ok := exceptions[lang][lower]; ok {
		return matchCase(word, nom), true
	}

	runes := []rune(word)
	lowerRunes := []rune(lower)
	for _, r := range rulesFor(lang) {
		if !strings.HasSuffix(lower, r.suffix) {
			continue
		}
		cut := len(lowerRunes) - len([]rune(r.suffix))
		if cut < minStem {
			continue
		}
		if r.after != "" && !strings.ContainsRune(r.after, lowerRunes[cut-1]) {
			continue
		}
		stem := string(runes[:cut])
		candidate := stem + suffixCase(stem, r.replacement)
		if lang != domain.LanguageUkrainian && !a.sameLexeme(lower, strings.ToLower(candidate)) {
			return "", false
		}
		return candidate, true
	}
	return word, true
}

// NormalForm returns the dictionary form used when Inflect fails: the known
// lemma for listed words, otherwise the lowercased word.
func (a *Analyzer) NormalForm(word string, lang domain.Language) string {
	lower := strings.ToLower(word)
	if nom, ok := exceptions[lang][lower]; ok {
		return nom
	}
	return lower
}

func (a *Analyzer) sameLexeme(source, candidate string) bool {
	s1, s2 := a.stem(source), a.stem(candidate)
	return s1 == s2 || strings.HasPrefix(s1, s2) || strings.HasPrefix(s2, s1)
}

func splitHyphen(word string) (head, tail string, ok bool) {
	i := strings.LastIndex(word, "-")
	if i <= 0 || i == len(word)-1 {
		return "", "", false
	}
	return word[:i], word[i+1:], true
}

func isCyrillicWord(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if !unicode.Is(unicode.Cyrillic, r) && r != '\'' && r != 'ʼ' && r != '’' {
			return false
		}
	}
	return true
}

// matchCase upper-cases s when ref is entirely upper case, and capitalizes s
// when only ref's first letter is upper case.
func matchCase(ref, s string) string {
	if s == "" || ref == "" {
		return s
	}
	if ref == strings.ToUpper(ref) && ref != strings.ToLower(ref) {
		return strings.ToUpper(s)
	}
	first := []rune(ref)[0]
	if unicode.IsUpper(first) {
		return capitalize(s)
	}
	return s
}

// suffixCase upper-cases an ending appended to an all-caps stem.
func suffixCase(stem, ending string) string {
	if stem == strings.ToUpper(stem) && stem != strings.ToLower(stem) {
		return strings.ToUpper(ending)
	}
	return ending
}

func capitalize(s string) string {
	rs := []rune(s)
	rs[0] = unicode.ToUpper(rs[0])
	return string(rs)
}
