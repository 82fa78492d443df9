package service

import (
	"context"
	"fmt"
	"strings"

	"geoaddr/internal/domain"
)

// MaxBatchTexts bounds a single batch request.
const MaxBatchTexts = 100

// Pipeline extracts and geocodes free text.
type Pipeline interface {
	Process(ctx context.Context, text, cityHint string) *domain.GeoResult
	Batch(ctx context.Context, texts []string, cityHint string) []*domain.GeoResult
}

// ExtractInput is the DTO for a single extraction.
type ExtractInput struct {
	Text     string `json:"text" binding:"required"`
	CityHint string `json:"city_hint"`
}

// BatchInput is the DTO for a batch extraction.
type BatchInput struct {
	Texts    []string `json:"texts" binding:"required"`
	CityHint string   `json:"city_hint"`
}

// ExtractService defines the extraction contract exposed over HTTP and the CLI.
type ExtractService interface {
	Extract(ctx context.Context, input ExtractInput) (*domain.GeoResult, error)
	Batch(ctx context.Context, input BatchInput) ([]*domain.GeoResult, error)
	Backends() []string
}

type extractService struct {
	pipeline Pipeline
	backends []string
}

// NewExtractService creates a new ExtractService. backends lists the active
// chain in priority order.
func NewExtractService(pipeline Pipeline, backends []string) ExtractService {
	return &extractService{pipeline: pipeline, backends: backends}
}

func (s *extractService) Extract(ctx context.Context, input ExtractInput) (*domain.GeoResult, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, fmt.Errorf("%w: text is empty", domain.ErrInvalidInput)
	}
	return s.pipeline.Process(ctx, input.Text, strings.TrimSpace(input.CityHint)), nil
}

func (s *extractService) Batch(ctx context.Context, input BatchInput) ([]*domain.GeoResult, error) {
	if len(input.Texts) == 0 {
		return nil, fmt.Errorf("%w: texts is empty", domain.ErrInvalidInput)
	}
	if len(input.Texts) > MaxBatchTexts {
		return nil, fmt.Errorf("%w: at most %d texts per batch", domain.ErrInvalidInput, MaxBatchTexts)
	}
	return s.pipeline.Batch(ctx, input.Texts, strings.TrimSpace(input.CityHint)), nil
}

func (s *extractService) Backends() []string {
	out := make([]string, len(s.backends))
	copy(out, s.backends)
	return out
}
