// Package extractor implements the offline, no-network address extraction
// path: the pattern cascade followed by span and location fallbacks.
package extractor

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"geoaddr/internal/domain"
	"geoaddr/internal/lexicon"
	"geoaddr/internal/pattern"
	"geoaddr/internal/port"
)

// lookahead is how many runes after a span are scanned for a building number.
const lookahead = 20

var trailingNumber = regexp.MustCompile(`^\s*,?\s*(\d{1,4}\p{L}?)`)

// Options configures an Extractor.
type Options struct {
	Cascade *pattern.Cascade
	Spans   port.SpanRecognizer
	// SpanConfidence and LocationConfidence score the two fallbacks.
	SpanConfidence     float64
	LocationConfidence float64
	MinConfidence      float64
	Logger             *zap.Logger
}

// Extractor is the offline extraction strategy.
type Extractor struct {
	cascade  *pattern.Cascade
	spans    port.SpanRecognizer
	spanConf float64
	locConf  float64
	minConf  float64
	log      *zap.Logger
}

// New creates an Extractor. Zero confidences fall back to 0.6 and 0.5, and
// the floor is never below domain.MinConfidence.
func New(opts Options) *Extractor {
	e := &Extractor{
		cascade:  opts.Cascade,
		spans:    opts.Spans,
		spanConf: opts.SpanConfidence,
		locConf:  opts.LocationConfidence,
		minConf:  opts.MinConfidence,
		log:      opts.Logger,
	}
	if e.spanConf == 0 {
		e.spanConf = 0.6
	}
	if e.locConf == 0 {
		e.locConf = 0.5
	}
	if e.minConf < domain.MinConfidence {
		e.minConf = domain.MinConfidence
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	return e
}

// Extract returns the best offline candidate for text, or nil. Candidates
// scored below the floor are discarded.
func (e *Extractor) Extract(text string, lang domain.Language) *domain.ParsedAddress {
	city, _ := lexicon.FindCity(text)

	addr := e.extract(text, lang)
	if addr == nil || addr.Confidence < e.minConf {
		return nil
	}
	if addr.City == "" {
		addr.City = city
	}
	return addr
}

func (e *Extractor) extract(text string, lang domain.Language) *domain.ParsedAddress {
	if e.cascade != nil {
		if res, ok := e.cascade.Match(text, lang); ok && e.accepts(res.Address) {
			e.log.Debug("extractor: template matched",
				zap.String("template", res.Template),
				zap.String("raw_text", res.Address.RawText),
			)
			return res.Address
		}
	}
	if e.spans == nil {
		return nil
	}

	spans := e.spans.Recognize(text)
	if addr := e.fromAddressSpans(text, spans); e.accepts(addr) {
		e.log.Debug("extractor: address span fallback", zap.String("raw_text", addr.RawText))
		return addr
	}
	if addr := e.fromLocationSpans(text, spans); e.accepts(addr) {
		e.log.Debug("extractor: location fallback", zap.String("raw_text", addr.RawText))
		return addr
	}
	return nil
}

func (e *Extractor) accepts(addr *domain.ParsedAddress) bool {
	return addr != nil && addr.Confidence >= e.minConf
}

// fromAddressSpans takes the union of all address spans.
func (e *Extractor) fromAddressSpans(text string, spans []domain.Span) *domain.ParsedAddress {
	start, end := -1, -1
	for _, s := range spans {
		if s.Type != domain.SpanAddress {
			continue
		}
		if start < 0 || s.Start < start {
			start = s.Start
		}
		if s.End > end {
			end = s.End
		}
	}
	if start < 0 {
		return nil
	}
	raw := strings.TrimRight(strings.TrimSpace(text[start:end]), ",;.!")
	if utf8.RuneCountInString(raw) <= 5 {
		return nil
	}
	return &domain.ParsedAddress{
		RawText:    raw,
		Building:   buildingAfter(text, end),
		Confidence: e.spanConf,
	}
}

// fromLocationSpans takes the longest location span.
func (e *Extractor) fromLocationSpans(text string, spans []domain.Span) *domain.ParsedAddress {
	var best *domain.Span
	for i := range spans {
		s := &spans[i]
		if s.Type != domain.SpanLocation {
			continue
		}
		if best == nil || s.End-s.Start > best.End-best.Start {
			best = s
		}
	}
	if best == nil {
		return nil
	}
	raw := strings.TrimSpace(text[best.Start:best.End])
	if raw == "" {
		return nil
	}
	return &domain.ParsedAddress{
		RawText:    raw,
		Building:   buildingAfter(text, best.End),
		Confidence: e.locConf,
	}
}

func buildingAfter(text string, end int) string {
	rest := text[end:]
	n := 0
	for i := range rest {
		if n == lookahead {
			rest = rest[:i]
			break
		}
		n++
	}
	if m := trailingNumber.FindStringSubmatch(rest); m != nil {
		return m[1]
	}
	return ""
}
