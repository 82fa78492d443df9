package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"geoaddr/internal/domain"
)

// MockPipeline is a mock implementation of service.Pipeline.
type MockPipeline struct {
	mock.Mock
}

func (m *MockPipeline) Process(ctx context.Context, text, cityHint string) *domain.GeoResult {
	args := m.Called(ctx, text, cityHint)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.GeoResult)
}

func (m *MockPipeline) Batch(ctx context.Context, texts []string, cityHint string) []*domain.GeoResult {
	args := m.Called(ctx, texts, cityHint)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]*domain.GeoResult)
}
