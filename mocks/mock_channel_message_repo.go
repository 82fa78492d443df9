package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"geoaddr/internal/domain"
)

// MockChannelMessageRepo is a mock implementation of port.ChannelMessageRepository.
type MockChannelMessageRepo struct {
	mock.Mock
}

func (m *MockChannelMessageRepo) Upsert(ctx context.Context, msg *domain.ChannelMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockChannelMessageRepo) GetByKey(ctx context.Context, channelID string, messageID int64) (*domain.ChannelMessage, error) {
	args := m.Called(ctx, channelID, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChannelMessage), args.Error(1)
}

func (m *MockChannelMessageRepo) List(ctx context.Context, channelID string, offset, limit int) ([]domain.ChannelMessage, int, error) {
	args := m.Called(ctx, channelID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ChannelMessage), args.Int(1), args.Error(2)
}

func (m *MockChannelMessageRepo) ClaimUnprocessed(ctx context.Context, limit int) ([]domain.ChannelMessage, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChannelMessage), args.Error(1)
}

func (m *MockChannelMessageRepo) UpdateParsed(ctx context.Context, msg *domain.ChannelMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockChannelMessageRepo) ResetProcessed(ctx context.Context, channelID string) (int64, error) {
	args := m.Called(ctx, channelID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChannelMessageRepo) ListPoints(ctx context.Context, limit int) ([]domain.MapPoint, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MapPoint), args.Error(1)
}
