package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"geoaddr/internal/domain"
	"geoaddr/internal/service"
)

// MockExtractService is a mock implementation of service.ExtractService.
type MockExtractService struct {
	mock.Mock
}

func (m *MockExtractService) Extract(ctx context.Context, input service.ExtractInput) (*domain.GeoResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeoResult), args.Error(1)
}

func (m *MockExtractService) Batch(ctx context.Context, input service.BatchInput) ([]*domain.GeoResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.GeoResult), args.Error(1)
}

func (m *MockExtractService) Backends() []string {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}
