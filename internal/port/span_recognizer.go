package port

import "geoaddr/internal/domain"

// SpanRecognizer finds typed spans (address-like, location-like) in text.
type SpanRecognizer interface {
	Recognize(text string) []domain.Span
}
