// Package ner is a rule-based recognizer for address-like and location-like
// spans in Russian and Ukrainian text.
package ner

import (
	"regexp"
	"sort"
	"strings"

	"geoaddr/internal/domain"
	"geoaddr/internal/lexicon"
)

const (
	leftBoundary  = `(?:^|[^\p{L}\p{N}_])`
	rightBoundary = `(?:[^\p{L}\p{N}_]|$)`
	capWord       = `[А-ЯІЇЄҐЁ][а-яіїєґё'ʼ’\-]+`
	capPhrase     = capWord + `(?:\s+` + capWord + `){0,2}`
)

// Recognizer implements port.SpanRecognizer.
type Recognizer struct {
	address  []*regexp.Regexp
	location []*regexp.Regexp
}

// New compiles the recognizer rules from the lexicon tables.
func New() *Recognizer {
	streetTypes := alternation(lexicon.StreetTypeForms())
	cities := alternation(lexicon.CityForms())
	return &Recognizer{
		address: []*regexp.Regexp{
			regexp.MustCompile(leftBoundary + `(?P<span>(?i:` + streetTypes + `)\.?\s*` + capPhrase + `)`),
			regexp.MustCompile(leftBoundary + `(?P<span>(?i:дом|буд\.?|д\.)\s*\d{1,4}\p{L}?)` + rightBoundary),
		},
		location: []*regexp.Regexp{
			regexp.MustCompile(`(?i)` + leftBoundary + `(?P<span>` + cities + `)` + rightBoundary),
			regexp.MustCompile(leftBoundary + `(?i:на|по|біля|возле|около|в|у|районі|район)\s+(?P<span>` + capPhrase + `)`),
		},
	}
}

// Recognize returns ADDR and LOC spans ordered by start offset.
func (r *Recognizer) Recognize(text string) []domain.Span {
	var spans []domain.Span
	for _, re := range r.address {
		spans = append(spans, find(re, text, domain.SpanAddress)...)
	}
	for _, re := range r.location {
		for _, sp := range find(re, text, domain.SpanLocation) {
			if startsWithStopWord(text[sp.Start:sp.End]) {
				continue
			}
			spans = append(spans, sp)
		}
	}
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	return spans
}

func find(re *regexp.Regexp, text string, typ domain.SpanType) []domain.Span {
	idx := re.SubexpIndex("span")
	var out []domain.Span
	for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
		out = append(out, domain.Span{Start: m[2*idx], End: m[2*idx+1], Type: typ})
	}
	return out
}

// startsWithStopWord rejects capitalised chatter such as "Сьогодні" that the
// preposition rule would otherwise take for a place.
func startsWithStopWord(phrase string) bool {
	words := strings.Fields(phrase)
	return len(words) > 0 && lexicon.IsStopWord(words[0])
}

func alternation(forms []string) string {
	quoted := make([]string, len(forms))
	for i, f := range forms {
		quoted[i] = regexp.QuoteMeta(f)
	}
	return `(?:` + strings.Join(quoted, "|") + `)`
}
