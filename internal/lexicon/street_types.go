// Package lexicon holds the read-only street-type, city and stop-word tables.
package lexicon

import (
	"strings"

	"geoaddr/internal/domain"
)

// streetFamilies maps each canonical nominative street type to its inflected surface forms.
var streetFamilies = map[string][]string{
	// Ukrainian
	"вулиця":    {"вулиця", "вулиці", "вулицю", "вулицею", "вулиць"},
	"проспект":  {"проспект", "проспекту", "проспектом", "проспекті", "проспекта", "проспекте"},
	"провулок":  {"провулок", "провулку", "провулком", "провулкі"},
	"бульвар":   {"бульвар", "бульвару", "бульваром", "бульварі", "бульвара", "бульваре"},
	"площа":     {"площа", "площі", "площу", "площею"},
	"набережна": {"набережна", "набережної", "набережну", "набережній"},
	"шосе":      {"шосе"},
	"алея":      {"алея", "алеї", "алеєю", "алею"},
	"узвіз":     {"узвіз", "узвозу", "узвозі", "узвозом"},
	// Russian
	"улица":      {"улица", "улицы", "улице", "улицу", "улицей"},
	"переулок":   {"переулок", "переулка", "переулке", "переулку", "переулком"},
	"площадь":    {"площадь", "площади", "площадью"},
	"набережная": {"набережная", "набережной", "набережную", "набережных"},
	"шоссе":      {"шоссе"},
	"аллея":      {"аллея", "аллеи", "аллее", "аллею", "аллеей"},
	"проезд":     {"проезд", "проезда", "проезде", "проезду", "проездом"},
}

// abbreviation is a shortened street type whose expansion may depend on language.
type abbreviation struct {
	uk string
	ru string
}

var abbreviations = map[string]abbreviation{
	"вул":   {uk: "вулиця", ru: "вулиця"},
	"просп": {uk: "проспект", ru: "проспект"},
	"пр":    {uk: "проспект", ru: "проспект"},
	"пр-т":  {uk: "проспект", ru: "проспект"},
	"пров":  {uk: "провулок", ru: "провулок"},
	"бульв": {uk: "бульвар", ru: "бульвар"},
	"пл":    {uk: "площа", ru: "площадь"},
	"наб":   {uk: "набережна", ru: "набережная"},
	"ул":    {uk: "улица", ru: "улица"},
	"пер":   {uk: "переулок", ru: "переулок"},
}

var (
	surfaceToCanonical map[string]string
	streetTypeForms    []string
)

func init() {
	surfaceToCanonical = make(map[string]string)
	seen := make(map[string]struct{})
	add := func(form string) {
		if _, ok := seen[form]; ok {
			return
		}
		seen[form] = struct{}{}
		streetTypeForms = append(streetTypeForms, form)
	}
	for canonical, forms := range streetFamilies {
		for _, f := range forms {
			surfaceToCanonical[f] = canonical
			add(f)
		}
	}
	for abbr := range abbreviations {
		add(abbr)
		add(abbr + ".")
	}
	sortLongestFirst(streetTypeForms)
}

// CanonicalStreetType maps a surface token to its nominative street type.
// Lookup is case-insensitive and ignores a trailing period. Abbreviations shared by
// both languages ("пл", "наб") resolve by lang.
func CanonicalStreetType(token string, lang domain.Language) (string, bool) {
	w := strings.TrimRight(strings.ToLower(strings.TrimSpace(token)), ".")
	if w == "" {
		return "", false
	}
	if c, ok := surfaceToCanonical[w]; ok {
		return c, true
	}
	if a, ok := abbreviations[w]; ok {
		if lang == domain.LanguageUkrainian {
			return a.uk, true
		}
		return a.ru, true
	}
	return "", false
}

// StreetTypeForms returns every recognized street-type surface form, including
// abbreviations with and without the trailing period, longest first.
func StreetTypeForms() []string {
	out := make([]string, len(streetTypeForms))
	copy(out, streetTypeForms)
	return out
}
