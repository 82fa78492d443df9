package service_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"geoaddr/internal/domain"
	"geoaddr/internal/port"
	"geoaddr/internal/report"
	"geoaddr/internal/service"
	"geoaddr/mocks"
)

func TestReportService_RenderCSV(t *testing.T) {
	svc := service.NewReportService(nil)

	file, err := svc.Render([]*domain.GeoResult{{OriginalText: "Київ", Method: domain.MethodNone}}, report.FormatCSV, "batch")

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(file.Name, ".csv"))
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Data, report.BOM))
}

func TestReportService_Publish(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	svc := service.NewReportService(storage)

	file := &service.ReportFile{Name: "batch.csv", ContentType: "text/csv", Data: []byte("x")}
	storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return strings.HasPrefix(in.Key, "reports/") && strings.HasSuffix(in.Key, "-batch.csv") && in.ContentType == "text/csv"
	})).Return(&port.UploadOutput{Key: "reports/k-batch.csv"}, nil)
	storage.On("PresignURL", mock.Anything, "reports/k-batch.csv").Return("https://s3/reports/k-batch.csv", nil)

	pub, err := svc.Publish(context.Background(), file)

	require.NoError(t, err)
	assert.Equal(t, "reports/k-batch.csv", pub.Key)
	assert.Equal(t, "https://s3/reports/k-batch.csv", pub.URL)
}

func TestReportService_PublishWithoutStorage(t *testing.T) {
	svc := service.NewReportService(nil)

	_, err := svc.Publish(context.Background(), &service.ReportFile{Name: "batch.csv"})

	assert.ErrorIs(t, err, domain.ErrUploadFailed)
}

func TestReportService_PublishUploadError(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	svc := service.NewReportService(storage)
	storage.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

	_, err := svc.Publish(context.Background(), &service.ReportFile{Name: "batch.csv"})

	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	assert.Contains(t, err.Error(), "access denied")
	storage.AssertNotCalled(t, "PresignURL", mock.Anything, mock.Anything)
}
