// Package normalizer converts extracted street-name phrases to nominative case.
package normalizer

import (
	"strings"
	"unicode"

	"geoaddr/internal/domain"
	"geoaddr/internal/lexicon"
	"geoaddr/internal/port"
)

// Normalizer puts address phrases into their canonical nominative form.
type Normalizer struct {
	morph port.Morphology
}

// New creates a Normalizer backed by the given morphology.
func New(morph port.Morphology) *Normalizer {
	return &Normalizer{morph: morph}
}

// Phrase converts a space-separated phrase to nominative case word by word.
// Short tokens (two runes or fewer) and numbers pass through. The first
// letter's case always follows the source token.
func (n *Normalizer) Phrase(phrase string, lang domain.Language) string {
	words := strings.Fields(phrase)
	out := make([]string, 0, len(words))
	for _, w := range words {
		out = append(out, n.word(w, lang))
	}
	return strings.Join(out, " ")
}

func (n *Normalizer) word(w string, lang domain.Language) string {
	if len([]rune(w)) <= 2 || isNumeric(w) {
		return w
	}
	nom, ok := n.morph.Inflect(w, lang)
	if !ok || nom == "" {
		nom = n.morph.NormalForm(w, lang)
	}
	if nom == "" {
		return w
	}
	return withFirstLetterOf(w, nom)
}

// StreetType canonicalizes a street-type token. It returns "" for unknown tokens.
func (n *Normalizer) StreetType(token string, lang domain.Language) string {
	canonical, _ := lexicon.CanonicalStreetType(token, lang)
	return canonical
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

func withFirstLetterOf(src, word string) string {
	srcFirst := []rune(src)[0]
	rs := []rune(word)
	if unicode.IsUpper(srcFirst) {
		rs[0] = unicode.ToUpper(rs[0])
	}
	return string(rs)
}
