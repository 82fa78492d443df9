package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"geoaddr/internal/domain"
)

// MockGeocoder is a mock implementation of port.Geocoder.
type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Geocode(ctx context.Context, query, language string) (*domain.GeoPoint, error) {
	args := m.Called(ctx, query, language)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeoPoint), args.Error(1)
}
