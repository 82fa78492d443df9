package geocode

import (
	"regexp"
	"strings"

	"geoaddr/internal/port"
)

type substitution struct {
	re   *regexp.Regexp
	repl string
}

// abbreviations are expanded or dropped at token boundaries, in this order.
var abbreviations = []struct{ from, to string }{
	{"вул.", "вулиця"},
	{"просп.", "проспект"},
	{"пров.", "провулок"},
	{"бульв.", "бульвар"},
	{"пл.", "площа"},
	{"наб.", "набережна"},
	{"буд.", ""},
	{"м.", ""},
	{"ул.", "улица"},
	{"пр-т", "проспект"},
	{"пер.", "переулок"},
	{"д.", ""},
	{"г.", ""},
}

var (
	substitutions = buildSubstitutions()
	unitClause    = regexp.MustCompile(`(?i),?\s*(?:кв\.?|оф\.?|корп\.?)\s*\d+[\p{L}\d]?`)
	numberClause  = regexp.MustCompile(`,\s*\d{1,4}\p{L}?([^\p{L}\d]|$)`)
	spaces        = regexp.MustCompile(`\s+`)
	spaceComma    = regexp.MustCompile(`\s+,`)
	doubleComma   = regexp.MustCompile(`,(?:\s*,)+`)
)

func buildSubstitutions() []substitution {
	subs := make([]substitution, 0, len(abbreviations))
	for _, a := range abbreviations {
		pattern := `(^|[^\p{L}\p{N}])` + regexp.QuoteMeta(a.from)
		if !strings.HasSuffix(a.from, ".") {
			pattern += `([^\p{L}\p{N}]|$)`
		} else {
			pattern += `()`
		}
		subs = append(subs, substitution{re: regexp.MustCompile(pattern), repl: "${1}" + a.to + " ${2}"})
	}
	return subs
}

// Expand applies the abbreviation table and drops apartment, office and
// block qualifiers.
func Expand(query string) string {
	out := query
	for _, s := range substitutions {
		out = s.re.ReplaceAllString(out, s.repl)
	}
	out = unitClause.ReplaceAllString(out, "")
	return tidy(out)
}

// Simplify removes ", <number>" clauses so a street-level lookup can succeed
// when the building is unknown to the geocoder.
func Simplify(query string) string {
	return tidy(numberClause.ReplaceAllString(query, "${1}"))
}

func tidy(s string) string {
	s = spaces.ReplaceAllString(s, " ")
	s = spaceComma.ReplaceAllString(s, ",")
	s = doubleComma.ReplaceAllString(s, ",")
	s = strings.TrimSpace(s)
	s = strings.Trim(s, ",")
	return strings.TrimSpace(s)
}

// Variants returns the ordered, de-duplicated, non-empty query strings tried
// for one address: the query as built, its expanded form, its
// transliteration (when tr is set) and its simplified form.
func Variants(query string, tr port.Transliterator) []string {
	candidates := []string{query, Expand(query)}
	if tr != nil {
		candidates = append(candidates, tr.Transliterate(query))
	}
	candidates = append(candidates, Simplify(query))

	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
