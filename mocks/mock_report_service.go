package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"geoaddr/internal/domain"
	"geoaddr/internal/report"
	"geoaddr/internal/service"
)

// MockReportService is a mock implementation of service.ReportService.
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Render(results []*domain.GeoResult, format report.Format, name string) (*service.ReportFile, error) {
	args := m.Called(results, format, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReportFile), args.Error(1)
}

func (m *MockReportService) Publish(ctx context.Context, file *service.ReportFile) (*service.PublishedReport, error) {
	args := m.Called(ctx, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PublishedReport), args.Error(1)
}
