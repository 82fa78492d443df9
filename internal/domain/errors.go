package domain

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidInput       = errors.New("invalid input")
	ErrNoAddress          = errors.New("No address found")
	ErrGeocodeFailed      = errors.New("Address extracted but geocoding failed")
	ErrNoBackendCandidate = errors.New("no backend produced an address")
	ErrUploadFailed       = errors.New("report upload to storage failed")
)
