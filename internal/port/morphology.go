package port

import "geoaddr/internal/domain"

// Morphology puts single words into the nominative case.
type Morphology interface {
	Inflect(word string, lang domain.Language) (string, bool)
	NormalForm(word string, lang domain.Language) string
}

// Transliterator renders Cyrillic text in Latin script.
type Transliterator interface {
	Transliterate(text string) string
}
