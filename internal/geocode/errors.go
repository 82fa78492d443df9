package geocode

import (
	"errors"
	"fmt"
)

// Kind classifies a geocoder failure.
type Kind int

const (
	// KindTimeout is transient; the same query may be retried.
	KindTimeout Kind = iota + 1
	// KindService is a hard failure for the current query.
	KindService
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindService:
		return "service"
	default:
		return "unknown"
	}
}

// Error is returned by geocoder implementations for failed lookups.
type Error struct {
	Kind  Kind
	Query string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("geocode %s error for %q: %v", e.Kind, e.Query, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewTimeoutError wraps err as a retryable timeout.
func NewTimeoutError(query string, err error) *Error {
	return &Error{Kind: KindTimeout, Query: query, Err: err}
}

// NewServiceError wraps err as a non-retryable service failure.
func NewServiceError(query string, err error) *Error {
	return &Error{Kind: KindService, Query: query, Err: err}
}

// IsTimeout reports whether err is a geocoder timeout.
func IsTimeout(err error) bool {
	var gErr *Error
	return errors.As(err, &gErr) && gErr.Kind == KindTimeout
}

// IsService reports whether err is a geocoder service failure.
func IsService(err error) bool {
	var gErr *Error
	return errors.As(err, &gErr) && gErr.Kind == KindService
}
