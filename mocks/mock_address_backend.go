package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"geoaddr/internal/domain"
)

// MockAddressBackend is a mock implementation of port.AddressBackend.
type MockAddressBackend struct {
	mock.Mock
}

func (m *MockAddressBackend) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockAddressBackend) Available(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockAddressBackend) Extract(ctx context.Context, text string) (*domain.ParsedAddress, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParsedAddress), args.Error(1)
}
