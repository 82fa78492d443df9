package service

import (
	"bytes"
	"context"
	"fmt"

	"geoaddr/internal/domain"
	"geoaddr/internal/port"
	"geoaddr/internal/report"
)

// ReportFile is a rendered report.
type ReportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// PublishedReport points at an uploaded report.
type PublishedReport struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// ReportService renders batch results and publishes them to object storage.
type ReportService interface {
	Render(results []*domain.GeoResult, format report.Format, name string) (*ReportFile, error)
	Publish(ctx context.Context, file *ReportFile) (*PublishedReport, error)
}

type reportService struct {
	storage port.ObjectStorage
}

// NewReportService creates a ReportService. storage may be nil, in which case
// Publish fails with domain.ErrUploadFailed.
func NewReportService(storage port.ObjectStorage) ReportService {
	return &reportService{storage: storage}
}

func (s *reportService) Render(results []*domain.GeoResult, format report.Format, name string) (*ReportFile, error) {
	var buf bytes.Buffer
	if err := report.Write(&buf, format, results); err != nil {
		return nil, fmt.Errorf("rendering %s report: %w", format, err)
	}
	return &ReportFile{
		Name:        report.BuildFilename(name, format),
		ContentType: format.ContentType(),
		Data:        buf.Bytes(),
	}, nil
}

func (s *reportService) Publish(ctx context.Context, file *ReportFile) (*PublishedReport, error) {
	if s.storage == nil {
		return nil, fmt.Errorf("%w: object storage is not configured", domain.ErrUploadFailed)
	}

	key := report.ObjectKey(file.Name)
	out, err := s.storage.Upload(ctx, port.UploadInput{
		Key:         key,
		Body:        bytes.NewReader(file.Data),
		ContentType: file.ContentType,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}

	url, err := s.storage.PresignURL(ctx, out.Key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}
	return &PublishedReport{Key: out.Key, URL: url}, nil
}
