package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"geoaddr/internal/domain"
	"geoaddr/internal/port"
)

// IngestInput is the DTO for a message pushed by a channel webhook.
type IngestInput struct {
	ChannelID  string          `json:"channel_id" binding:"required"`
	MessageID  *int64          `json:"message_id" binding:"required"`
	RawMessage string          `json:"raw_message" binding:"required"`
	ParsedLat  *float64        `json:"parsed_lat"`
	ParsedLon  *float64        `json:"parsed_lon"`
	ParsedText *string         `json:"parsed_text"`
	Keywords   json.RawMessage `json:"keywords"`
	Metadata   json.RawMessage `json:"metadata"`
}

// ChannelMessageService manages channel messages and their geocoding.
type ChannelMessageService interface {
	Ingest(ctx context.Context, input IngestInput) (*domain.ChannelMessage, error)
	List(ctx context.Context, channelID string, offset, limit int) ([]domain.ChannelMessage, int, error)
	Points(ctx context.Context, limit int) ([]domain.MapPoint, error)
	// Process geocodes msg and stores the outcome. A message without an
	// address is still marked processed.
	Process(ctx context.Context, msg *domain.ChannelMessage) (*domain.GeoResult, error)
	Reprocess(ctx context.Context, channelID string) (int64, error)
}

type channelMessageService struct {
	repo     port.ChannelMessageRepository
	pipeline Pipeline
	log      *zap.Logger
	now      func() time.Time
}

// NewChannelMessageService creates a new ChannelMessageService.
func NewChannelMessageService(repo port.ChannelMessageRepository, pipeline Pipeline, log *zap.Logger) ChannelMessageService {
	if log == nil {
		log = zap.NewNop()
	}
	return &channelMessageService{repo: repo, pipeline: pipeline, log: log, now: time.Now}
}

func (s *channelMessageService) Ingest(ctx context.Context, input IngestInput) (*domain.ChannelMessage, error) {
	if err := validateIngest(&input); err != nil {
		return nil, err
	}

	msg := &domain.ChannelMessage{
		ChannelID:  strings.TrimSpace(input.ChannelID),
		MessageID:  *input.MessageID,
		RawMessage: input.RawMessage,
		ParsedLat:  input.ParsedLat,
		ParsedLon:  input.ParsedLon,
		ParsedText: input.ParsedText,
		Keywords:   input.Keywords,
		Metadata:   input.Metadata,
	}
	// Coordinates supplied by the sender need no geocoding.
	if msg.HasCoordinates() {
		processed := s.now().UTC()
		msg.ProcessedAt = &processed
	}

	if err := s.repo.Upsert(ctx, msg); err != nil {
		return nil, err
	}
	s.log.Info("channel message stored",
		zap.String("channel_id", msg.ChannelID),
		zap.Int64("message_id", msg.MessageID),
		zap.Bool("has_coordinates", msg.HasCoordinates()),
	)
	return msg, nil
}

func validateIngest(input *IngestInput) error {
	switch {
	case strings.TrimSpace(input.ChannelID) == "":
		return fmt.Errorf("%w: channel_id is required", domain.ErrInvalidInput)
	case input.MessageID == nil || *input.MessageID < 0:
		return fmt.Errorf("%w: message_id must be a non-negative integer", domain.ErrInvalidInput)
	case strings.TrimSpace(input.RawMessage) == "":
		return fmt.Errorf("%w: raw_message is required", domain.ErrInvalidInput)
	case (input.ParsedLat == nil) != (input.ParsedLon == nil):
		return fmt.Errorf("%w: parsed_lat and parsed_lon must be sent together", domain.ErrInvalidInput)
	case input.ParsedLat != nil && (*input.ParsedLat < -90 || *input.ParsedLat > 90):
		return fmt.Errorf("%w: parsed_lat out of range", domain.ErrInvalidInput)
	case input.ParsedLon != nil && (*input.ParsedLon < -180 || *input.ParsedLon > 180):
		return fmt.Errorf("%w: parsed_lon out of range", domain.ErrInvalidInput)
	}
	for name, raw := range map[string]json.RawMessage{"keywords": input.Keywords, "metadata": input.Metadata} {
		if len(raw) > 0 && !json.Valid(raw) {
			return fmt.Errorf("%w: %s is not valid JSON", domain.ErrInvalidInput, name)
		}
	}
	return nil
}

func (s *channelMessageService) List(ctx context.Context, channelID string, offset, limit int) ([]domain.ChannelMessage, int, error) {
	return s.repo.List(ctx, channelID, offset, limit)
}

func (s *channelMessageService) Points(ctx context.Context, limit int) ([]domain.MapPoint, error) {
	return s.repo.ListPoints(ctx, limit)
}

func (s *channelMessageService) Process(ctx context.Context, msg *domain.ChannelMessage) (*domain.GeoResult, error) {
	result := s.pipeline.Process(ctx, msg.RawMessage, cityHint(msg.Metadata))

	// An interrupted run stays unprocessed so the claim lease expires and
	// the message is picked up again.
	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("geocoding interrupted: %w", err)
	}

	if result.Geocoded {
		msg.ParsedLat = result.Latitude
		msg.ParsedLon = result.Longitude
	}
	if result.Parsed != nil {
		text := result.Parsed.DisplayString()
		msg.ParsedText = &text
	}
	processed := s.now().UTC()
	msg.ProcessedAt = &processed

	if err := s.repo.UpdateParsed(ctx, msg); err != nil {
		return result, fmt.Errorf("storing geocoding result: %w", err)
	}

	s.log.Info("channel message processed",
		zap.Int64("id", msg.ID),
		zap.String("method", result.Method),
		zap.Bool("geocoded", result.Geocoded),
		zap.String("error", result.ErrorMessage()),
	)
	return result, nil
}

func (s *channelMessageService) Reprocess(ctx context.Context, channelID string) (int64, error) {
	return s.repo.ResetProcessed(ctx, channelID)
}

// cityHint reads an optional "city" string from message metadata.
func cityHint(metadata json.RawMessage) string {
	if len(metadata) == 0 {
		return ""
	}
	var meta struct {
		City string `json:"city"`
	}
	if err := json.Unmarshal(metadata, &meta); err != nil {
		return ""
	}
	return strings.TrimSpace(meta.City)
}
