package port

import (
	"context"

	"geoaddr/internal/domain"
)

// Geocoder resolves a free-form query to coordinates. It returns (nil, nil) when
// the service has no match. Timeouts and service failures are reported as
// distinct error kinds so callers can decide whether to retry.
type Geocoder interface {
	Geocode(ctx context.Context, query, language string) (*domain.GeoPoint, error)
}
