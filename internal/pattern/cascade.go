// Package pattern implements the ordered regex template cascade that pulls a
// street address out of free text.
package pattern

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"geoaddr/internal/domain"
	"geoaddr/internal/lexicon"
	"geoaddr/internal/normalizer"
)

// Template names, in cascade order.
const (
	StreetTypeFirst     = "street_type_first"
	StreetTypeLast      = "street_type_last"
	PrepositionComma    = "preposition_comma"
	PrepositionBuilding = "preposition_building"
	CityFirst           = "city_first"
	AddressLabel        = "address_label"
	BareName            = "bare_name"
)

// Confidences holds the score each template assigns to its matches.
type Confidences struct {
	StreetTypeFirst     float64 `mapstructure:"street_type_first"`
	StreetTypeLast      float64 `mapstructure:"street_type_last"`
	PrepositionComma    float64 `mapstructure:"preposition_comma"`
	PrepositionBuilding float64 `mapstructure:"preposition_building"`
	CityFirst           float64 `mapstructure:"city_first"`
	AddressLabel        float64 `mapstructure:"address_label"`
	BareName            float64 `mapstructure:"bare_name"`
	// Floor disables every template scored below it. It is never lower
	// than domain.MinConfidence.
	Floor float64 `mapstructure:"min_confidence"`
}

// DefaultConfidences returns the stock template scores.
func DefaultConfidences() Confidences {
	return Confidences{
		StreetTypeFirst:     0.8,
		StreetTypeLast:      0.8,
		PrepositionComma:    0.7,
		PrepositionBuilding: 0.7,
		CityFirst:           0.75,
		AddressLabel:        0.6,
		BareName:            0.5,
	}
}

type guard func(name string) bool

// Template is one address shape tried by the cascade.
type Template struct {
	Name       string
	Confidence float64

	re       *regexp.Regexp
	rawOnly  bool
	stopWord bool
	guard    guard
}

// Result is the first template that produced an accepted address.
type Result struct {
	Template string
	Address  *domain.ParsedAddress
}

// Cascade tries templates in order and returns the first accepted match.
type Cascade struct {
	templates []Template
	norm      *normalizer.Normalizer
	floor     float64
}

// NewCascade builds the cascade with the given template scores.
func NewCascade(norm *normalizer.Normalizer, conf Confidences) *Cascade {
	floor := conf.Floor
	if floor < domain.MinConfidence {
		floor = domain.MinConfidence
	}
	return &Cascade{
		norm:  norm,
		floor: floor,
		templates: []Template{
			{Name: StreetTypeFirst, Confidence: conf.StreetTypeFirst, re: streetTypeFirstRe},
			{Name: StreetTypeLast, Confidence: conf.StreetTypeLast, re: streetTypeLastRe},
			{Name: PrepositionComma, Confidence: conf.PrepositionComma, re: prepositionCommaRe, stopWord: true},
			{Name: PrepositionBuilding, Confidence: conf.PrepositionBuilding, re: prepositionBuildingRe, stopWord: true},
			{Name: CityFirst, Confidence: conf.CityFirst, re: cityFirstRe},
			{Name: AddressLabel, Confidence: conf.AddressLabel, re: addressLabelRe, rawOnly: true},
			{Name: BareName, Confidence: conf.BareName, re: bareNameRe, stopWord: true, guard: hasCapitalizedWord},
		},
	}
}

// Templates lists the cascade's templates in evaluation order.
func (c *Cascade) Templates() []string {
	names := make([]string, len(c.templates))
	for i, t := range c.templates {
		names[i] = t.Name
	}
	return names
}

// Match returns the first template whose match passes its guards.
// A rejected match falls through to the next template. Templates scored
// below the floor are skipped.
func (c *Cascade) Match(text string, lang domain.Language) (*Result, bool) {
	for _, t := range c.templates {
		if t.Confidence < c.floor {
			continue
		}
		if addr, ok := c.apply(t, text, lang); ok {
			return &Result{Template: t.Name, Address: addr}, true
		}
	}
	return nil, false
}

// MatchTemplate runs a single named template in isolation.
func (c *Cascade) MatchTemplate(name, text string, lang domain.Language) (*domain.ParsedAddress, bool) {
	for _, t := range c.templates {
		if t.Name == name {
			return c.apply(t, text, lang)
		}
	}
	return nil, false
}

func (c *Cascade) apply(t Template, text string, lang domain.Language) (*domain.ParsedAddress, bool) {
	m := t.re.FindStringSubmatchIndex(text)
	if m == nil {
		return nil, false
	}
	g := groups{re: t.re, text: text, idx: m}

	if t.rawOnly {
		raw := strings.Trim(g.get("free"), " \t\n,;.!")
		if raw == "" {
			return nil, false
		}
		return &domain.ParsedAddress{RawText: raw, Confidence: t.Confidence}, true
	}

	rawStart, rawEnd := g.span("raw")
	name := trimName(g.get("name"), t.Name == StreetTypeLast)
	if name == "" {
		return nil, false
	}
	if t.stopWord && lexicon.IsStopWord(name) {
		return nil, false
	}
	if t.guard != nil && !t.guard(name) {
		return nil, false
	}

	numStart, numEnd := g.span("num")
	building := text[numStart:numEnd]
	if trimmed, ok := trimBuildingLetter(text, numStart, numEnd); ok {
		building = trimmed
		if rawEnd == numEnd {
			rawEnd = numStart + len(trimmed)
		}
	}
	building = strings.Join(strings.Fields(building), "")

	addr := &domain.ParsedAddress{
		StreetType: c.streetType(text[rawStart:rawEnd], lang),
		StreetName: c.norm.Phrase(name, lang),
		Building:   building,
		Apartment:  apartment(text, numStart, rawEnd),
		PostalCode: g.get("postal"),
		RawText:    strings.TrimSpace(text[rawStart:rawEnd]),
		Confidence: t.Confidence,
	}
	if addr.PostalCode == "" {
		addr.PostalCode = postalAfter(text[rawEnd:])
	}
	if city := g.get("city"); city != "" {
		if canonical, ok := lexicon.CanonicalCity(city); ok {
			addr.City = canonical
		}
	}
	return addr, true
}

// streetType returns the first token in the match that names a street type,
// falling back to the language default.
func (c *Cascade) streetType(raw string, lang domain.Language) string {
	for _, tok := range strings.Fields(raw) {
		if st := c.norm.StreetType(strings.Trim(tok, ",;:"), lang); st != "" {
			return st
		}
	}
	return lang.DefaultStreetType()
}

type groups struct {
	re   *regexp.Regexp
	text string
	idx  []int
}

func (g groups) span(name string) (int, int) {
	i := g.re.SubexpIndex(name)
	if i < 0 || g.idx[2*i] < 0 {
		return -1, -1
	}
	return g.idx[2*i], g.idx[2*i+1]
}

func (g groups) get(name string) string {
	start, end := g.span(name)
	if start < 0 {
		return ""
	}
	return g.text[start:end]
}

// trimName drops leading prepositions and stray punctuation from a name
// capture. With afterLastPreposition it keeps only the words that follow the
// last preposition, since the name-before-type template can start early.
// A trailing house marker ("д", "буд") is not part of the name.
func trimName(name string, afterLastPreposition bool) string {
	words := strings.Fields(name)
	start := 0
	for i, w := range words {
		if _, ok := prepositionWords[strings.ToLower(w)]; ok {
			if afterLastPreposition || i == start {
				start = i + 1
			}
		}
	}
	words = words[start:]
	if n := len(words); n > 1 {
		if _, ok := houseMarkerWords[strings.ToLower(words[n-1])]; ok {
			words = words[:n-1]
		}
	}
	return strings.Trim(strings.Join(words, " "), "-'ʼ’")
}

// trimBuildingLetter undoes a building letter that is really the first letter
// of the following word ("5 кв" or "12 біля").
func trimBuildingLetter(text string, start, end int) (string, bool) {
	last, size := utf8.DecodeLastRuneInString(text[start:end])
	if !unicode.IsLetter(last) || end >= len(text) {
		return "", false
	}
	next, _ := utf8.DecodeRuneInString(text[end:])
	if !unicode.IsLetter(next) {
		return "", false
	}
	return strings.TrimRight(text[start:end-size], " "), true
}

func apartment(text string, from, rawEnd int) string {
	to := rawEnd + 30
	if to > len(text) {
		to = len(text)
	}
	for to < len(text) && !utf8.RuneStart(text[to]) {
		to++
	}
	if m := unitRe.FindStringSubmatch(text[from:to]); m != nil {
		return m[1]
	}
	return ""
}

func postalAfter(rest string) string {
	if m := postalRe.FindStringSubmatch(rest); m != nil {
		return m[1]
	}
	return ""
}

func hasCapitalizedWord(name string) bool {
	for _, w := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(w)
		if unicode.IsUpper(r) && utf8.RuneCountInString(w) >= 4 {
			return true
		}
	}
	return false
}
