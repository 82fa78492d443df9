package port

import (
	"context"

	"geoaddr/internal/domain"
)

// AddressBackend is a remote or local text-understanding service that extracts
// a structured address from free text.
type AddressBackend interface {
	// Name identifies the backend in results and logs ("groq", "gemini", ...).
	Name() string
	// Available reports whether the backend has credentials or is reachable.
	Available(ctx context.Context) bool
	// Extract returns the address found in text, or nil when the backend found none.
	Extract(ctx context.Context, text string) (*domain.ParsedAddress, error)
}
