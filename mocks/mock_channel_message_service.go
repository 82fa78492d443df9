package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"geoaddr/internal/domain"
	"geoaddr/internal/service"
)

// MockChannelMessageService is a mock implementation of service.ChannelMessageService.
type MockChannelMessageService struct {
	mock.Mock
}

func (m *MockChannelMessageService) Ingest(ctx context.Context, input service.IngestInput) (*domain.ChannelMessage, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChannelMessage), args.Error(1)
}

func (m *MockChannelMessageService) List(ctx context.Context, channelID string, offset, limit int) ([]domain.ChannelMessage, int, error) {
	args := m.Called(ctx, channelID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ChannelMessage), args.Int(1), args.Error(2)
}

func (m *MockChannelMessageService) Points(ctx context.Context, limit int) ([]domain.MapPoint, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MapPoint), args.Error(1)
}

func (m *MockChannelMessageService) Process(ctx context.Context, msg *domain.ChannelMessage) (*domain.GeoResult, error) {
	args := m.Called(ctx, msg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeoResult), args.Error(1)
}

func (m *MockChannelMessageService) Reprocess(ctx context.Context, channelID string) (int64, error) {
	args := m.Called(ctx, channelID)
	return args.Get(0).(int64), args.Error(1)
}
