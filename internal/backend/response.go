package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"geoaddr/internal/domain"
)

var (
	openFence  = regexp.MustCompile("^```(?:json)?\\s*")
	closeFence = regexp.MustCompile("\\s*```$")
	flatObject = regexp.MustCompile(`\{[^{}]+\}`)
)

// looseString accepts a JSON string, number or null.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*s = ""
	case len(b) > 0 && b[0] == '"':
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = looseString(v)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		*s = looseString(n.String())
	}
	return nil
}

// looseFloat accepts a JSON number, a numeric string or null.
type looseFloat float64

func (f *looseFloat) UnmarshalJSON(b []byte) error {
	var s looseString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	if s == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(s)), 64)
	if err != nil {
		return fmt.Errorf("confidence %q: %w", string(s), err)
	}
	*f = looseFloat(v)
	return nil
}

type modelReply struct {
	StreetType string      `json:"street_type"`
	StreetName string      `json:"street_name"`
	Building   looseString `json:"building"`
	Apartment  looseString `json:"apartment"`
	City       string      `json:"city"`
	PostalCode looseString `json:"postal_code"`
	RawText    string      `json:"raw_text"`
	Confidence looseFloat  `json:"confidence"`
}

// ParseResponse decodes a model reply into a ParsedAddress. It returns nil and
// no error when the reply is valid JSON but carries no usable address, and an
// error when the reply cannot be decoded at all.
func ParseResponse(content string) (*domain.ParsedAddress, error) {
	text := strings.TrimSpace(content)
	text = openFence.ReplaceAllString(text, "")
	text = closeFence.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)

	var reply modelReply
	if err := json.Unmarshal([]byte(text), &reply); err != nil {
		obj := flatObject.FindString(text)
		if obj == "" {
			return nil, fmt.Errorf("parsing model JSON output: %w (raw: %s)", err, Truncate(text, 200))
		}
		if err := json.Unmarshal([]byte(obj), &reply); err != nil {
			return nil, fmt.Errorf("parsing model JSON output: %w (raw: %s)", err, Truncate(text, 200))
		}
	}

	addr := &domain.ParsedAddress{
		StreetType: strings.TrimSpace(reply.StreetType),
		StreetName: strings.TrimSpace(reply.StreetName),
		Building:   strings.TrimSpace(string(reply.Building)),
		Apartment:  strings.TrimSpace(string(reply.Apartment)),
		City:       strings.TrimSpace(reply.City),
		PostalCode: strings.TrimSpace(string(reply.PostalCode)),
		RawText:    strings.TrimSpace(reply.RawText),
		Confidence: float64(reply.Confidence),
	}
	if addr.StreetName == "" && addr.RawText == "" {
		return nil, nil
	}
	if addr.Confidence < domain.MinConfidence {
		return nil, nil
	}
	return addr, nil
}
