package domain

// Language is the detected language of an input text.
type Language string

const (
	LanguageRussian   Language = "ru"
	LanguageUkrainian Language = "uk"
	LanguageUnknown   Language = "unknown"
)

// GeocodeLanguage returns the accept-language value used for geocoding.
func (l Language) GeocodeLanguage() string {
	if l == LanguageUnknown || l == "" {
		return "en"
	}
	return string(l)
}

// DefaultStreetType returns the street type assumed when none was written.
func (l Language) DefaultStreetType() string {
	if l == LanguageUkrainian {
		return "вулиця"
	}
	return "улица"
}

// Extraction method tags reported on GeoResult.Method. Backends report their own names.
const (
	MethodOffline = "offline"
	MethodNone    = "none"
)

// MinConfidence is the acceptance floor for any extracted address.
const MinConfidence = 0.3

// SpanType tags a span produced by a recognizer.
type SpanType string

const (
	SpanAddress  SpanType = "ADDR"
	SpanLocation SpanType = "LOC"
)
