// Package translit renders Cyrillic queries in Latin script for geocoders
// that index romanized names.
package translit

import (
	"strings"

	"github.com/mozillazg/go-unidecode"
)

// Unidecode implements port.Transliterator.
type Unidecode struct{}

// New returns a transliterator.
func New() Unidecode {
	return Unidecode{}
}

// Transliterate returns text with every non-ASCII rune replaced by its
// closest ASCII spelling. Soft and hard signs drop out.
func (Unidecode) Transliterate(text string) string {
	out := unidecode.Unidecode(text)
	out = strings.NewReplacer("'", "", "\"", "").Replace(out)
	return strings.Join(strings.Fields(out), " ")
}
