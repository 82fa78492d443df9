package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// ParsedAddress is a structured address produced by any extraction method.
type ParsedAddress struct {
	StreetType string  `json:"street_type"`
	StreetName string  `json:"street_name"`
	Building   string  `json:"building"`
	Apartment  string  `json:"apartment"`
	City       string  `json:"city"`
	PostalCode string  `json:"postal_code"`
	RawText    string  `json:"raw_text"`
	Confidence float64 `json:"confidence"`
}

// GeocodeString builds the primary geocoding query: "{type} {name}, {building}, {city}".
func (a *ParsedAddress) GeocodeString() string {
	var parts []string
	switch {
	case a.StreetType != "" && a.StreetName != "":
		parts = append(parts, a.StreetType+" "+a.StreetName)
	case a.StreetName != "":
		parts = append(parts, a.StreetName)
	}
	if a.Building != "" {
		parts = append(parts, a.Building)
	}
	if a.City != "" {
		parts = append(parts, a.City)
	}
	return strings.Join(parts, ", ")
}

// DisplayString renders the normalized address for people.
func (a *ParsedAddress) DisplayString() string {
	var parts []string
	street := a.StreetName
	if a.StreetType != "" {
		street = a.StreetType + " " + a.StreetName
	}
	if s := strings.TrimSpace(street); s != "" {
		parts = append(parts, s)
	}
	if a.Building != "" {
		parts = append(parts, a.Building)
	}
	if a.Apartment != "" {
		parts = append(parts, "кв. "+a.Apartment)
	}
	if a.City != "" {
		parts = append(parts, a.City)
	}
	if a.PostalCode != "" {
		parts = append(parts, a.PostalCode)
	}
	return strings.Join(parts, ", ")
}

// GeoPoint is a single geocoder hit.
type GeoPoint struct {
	Latitude    float64           `json:"latitude"`
	Longitude   float64           `json:"longitude"`
	DisplayName string            `json:"display_name"`
	Details     map[string]string `json:"address_details,omitempty"`
	QueryUsed   string            `json:"query_used"`
}

// GeoResult is the outcome of extracting and geocoding one input.
type GeoResult struct {
	OriginalText string         `json:"original_text"`
	Parsed       *ParsedAddress `json:"parsed,omitempty"`
	Latitude     *float64       `json:"latitude,omitempty"`
	Longitude    *float64       `json:"longitude,omitempty"`
	DisplayName  *string        `json:"display_name,omitempty"`
	QueryUsed    *string        `json:"query_used,omitempty"`
	Language     Language       `json:"language"`
	Method       string         `json:"method"`
	Geocoded     bool           `json:"geocoded"`
	Error        *string        `json:"error,omitempty"`
}

// ErrorMessage returns the result error or "".
func (r *GeoResult) ErrorMessage() string {
	if r.Error == nil {
		return ""
	}
	return *r.Error
}

// Span is a character range reported by a recognizer. Start and End are byte offsets.
type Span struct {
	Start int      `json:"start"`
	End   int      `json:"end"`
	Type  SpanType `json:"type"`
}

// ChannelMessage is a message received from a monitored channel.
type ChannelMessage struct {
	ID          int64           `db:"id" json:"id"`
	ChannelID   string          `db:"channel_id" json:"channel_id"`
	MessageID   int64           `db:"message_id" json:"message_id"`
	RawMessage  string          `db:"raw_message" json:"raw_message"`
	ParsedLat   *float64        `db:"parsed_lat" json:"parsed_lat,omitempty"`
	ParsedLon   *float64        `db:"parsed_lon" json:"parsed_lon,omitempty"`
	ParsedText  *string         `db:"parsed_text" json:"parsed_text,omitempty"`
	Keywords    json.RawMessage `db:"keywords" json:"keywords,omitempty"`
	Metadata    json.RawMessage `db:"metadata" json:"metadata,omitempty"`
	ProcessedAt *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// HasCoordinates reports whether both coordinates are set.
func (m *ChannelMessage) HasCoordinates() bool {
	return m.ParsedLat != nil && m.ParsedLon != nil
}

// MapPoint is a geocoded channel message shown on the map.
type MapPoint struct {
	ChannelID  string    `db:"channel_id" json:"channel_id"`
	MessageID  int64     `db:"message_id" json:"message_id"`
	Latitude   float64   `db:"parsed_lat" json:"latitude"`
	Longitude  float64   `db:"parsed_lon" json:"longitude"`
	ParsedText string    `db:"parsed_text" json:"parsed_text"`
	RawMessage string    `db:"raw_message" json:"raw_message"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
