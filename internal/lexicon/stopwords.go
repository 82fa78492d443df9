package lexicon

import "strings"

// stopWords are adverbs, conjunctions and greetings that look like a name phrase
// to the looser templates but are never place names.
var stopWords = map[string]struct{}{
	"але": {}, "або": {}, "від": {}, "для": {}, "при": {}, "без": {}, "між": {},
	"или": {}, "между": {}, "это": {},
	"сьогодні": {}, "завтра": {}, "вчора": {}, "зараз": {}, "потім": {},
	"сегодня": {}, "вчера": {}, "сейчас": {}, "потом": {},
	"добрий": {}, "добрый": {}, "привіт": {}, "привет": {},
	"дякую": {}, "спасибо": {}, "будь": {}, "ласка": {},
}

// IsStopWord reports whether phrase, compared case-insensitively as a whole, is a stop word.
func IsStopWord(phrase string) bool {
	_, ok := stopWords[strings.ToLower(strings.TrimSpace(phrase))]
	return ok
}
