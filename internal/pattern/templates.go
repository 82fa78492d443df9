package pattern

import (
	"regexp"
	"strconv"
	"strings"

	"geoaddr/internal/lexicon"
)

// Building blocks shared by the templates. Go's \b and \w are ASCII-only, so
// word boundaries around Cyrillic are spelled out.
const (
	leftBoundary = `(?:^|[^\p{L}\p{N}_])`
	cyrWord      = `[А-ЯІЇЄҐЁа-яіїєґё'ʼ’\-]+`
	capWord      = `[А-ЯІЇЄҐЁ][А-ЯІЇЄҐЁа-яіїєґё'ʼ’\-]+`
	number       = `\d{1,4}(?:\s?[А-ЯІЇЄҐЁа-яіїєґёA-Za-z])?`
	houseMarker  = `(?:(?:дом|буд\.?|д\.?)\s*)?`
	buildingPart = `(?:\s*,?\s*(?:буд\.?|д\.?)\s*\d+[\p{L}\d]?)?`
	unitPart     = `(?:\s*,?\s*(?:кв\.?|оф\.?|корп\.?)\s*\d+[\p{L}\d]?)*`
	postalPart   = `(?:\s*,?\s*(?P<postal>\d{5,6}))?`
	prepositions = `(?:на|по|біля|коло|поблизу|навпроти|возле|около|напротив|рядом\s+с|за\s+адресою|по\s+адресу)`
	labels       = `(?:за\s+адресою|по\s+адресу|адреса|адрес)`
	freeText     = `[А-ЯІЇЄҐЁа-яіїєґё0-9\s,.\-/'ʼ]{8,90}`
)

func phrase(word string, extra int) string {
	return word + `(?:\s+` + cyrWord + `){0,` + strconv.Itoa(extra) + `}`
}

func alternation(forms []string) string {
	quoted := make([]string, len(forms))
	for i, f := range forms {
		quoted[i] = regexp.QuoteMeta(f)
	}
	return `(?:` + strings.Join(quoted, "|") + `)`
}

var (
	streetTypes = alternation(lexicon.StreetTypeForms())
	cities      = alternation(lexicon.CityForms())
)

var (
	streetTypeFirstRe = regexp.MustCompile(`(?i)` + leftBoundary + `(?P<raw>(?:` + prepositions + `\s+)?` +
		streetTypes + `\.?\s+(?P<name>` + phrase(cyrWord, 3) + `)\s*,?\s*` + houseMarker + `(?P<num>` + number + `)` +
		buildingPart + unitPart + postalPart + `)`)

	streetTypeLastRe = regexp.MustCompile(`(?i)` + leftBoundary + `(?P<raw>(?P<name>` + phrase(cyrWord, 2) + `)\s+` +
		streetTypes + `\.?\s*,?\s*` + houseMarker + `(?P<num>` + number + `)` + buildingPart + unitPart + postalPart + `)`)

	prepositionCommaRe = regexp.MustCompile(`(?i)` + leftBoundary + `(?P<raw>` + prepositions +
		`\s+(?P<name>` + phrase(cyrWord, 3) + `)\s*,\s*(?P<num>` + number + `)` + buildingPart + unitPart + `)`)

	prepositionBuildingRe = regexp.MustCompile(`(?i)` + leftBoundary + `(?P<raw>` + prepositions +
		`\s+(?P<name>` + phrase(cyrWord, 3) + `)\s*,?\s*(?:дом|д\.|буд\.|буд)\s*(?P<num>` + number + `))`)

	cityFirstRe = regexp.MustCompile(`(?i)` + leftBoundary + `(?P<raw>(?:м\.?\s*|г\.?\s*)?(?P<city>` + cities +
		`)\s*,\s*(?:` + streetTypes + `\.?\s+)?(?P<name>` + phrase(cyrWord, 3) + `)\s*,?\s*` + houseMarker + `(?P<num>` + number + `)` +
		buildingPart + unitPart + postalPart + `)`)

	addressLabelRe = regexp.MustCompile(`(?i)` + leftBoundary + `(?P<raw>` + labels + `\s*[:\-]?\s*(?P<free>` + freeText + `))`)

	bareNameRe = regexp.MustCompile(leftBoundary + `(?P<raw>(?P<name>` + phrase(capWord, 2) + `)\s*,\s*(?P<num>` + number + `)` +
		buildingPart + unitPart + `)`)
)

var (
	prepositionWords = map[string]struct{}{
		"на": {}, "по": {}, "біля": {}, "коло": {}, "поблизу": {}, "навпроти": {},
		"возле": {}, "около": {}, "напротив": {}, "рядом": {}, "с": {}, "за": {},
		"адресою": {}, "адресу": {},
	}
	houseMarkerWords = map[string]struct{}{"д": {}, "дом": {}, "буд": {}}
	unitRe           = regexp.MustCompile(`(?i)(?:^|[^\p{L}])(?:кв|оф)\.?\s*(\d+\p{L}?)`)
	postalRe         = regexp.MustCompile(`(?:^|\D)(\d{5,6})(?:\D|$)`)
)
