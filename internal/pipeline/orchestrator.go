// Package pipeline runs one input through extraction and geocoding.
package pipeline

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"geoaddr/internal/domain"
	"geoaddr/internal/lang"
	"geoaddr/internal/lexicon"
)

// BackendChain yields the first accepted backend candidate and the backend name.
type BackendChain interface {
	Extract(ctx context.Context, text string) (*domain.ParsedAddress, string, error)
}

// OfflineExtractor yields a candidate without network access.
type OfflineExtractor interface {
	Extract(text string, lang domain.Language) *domain.ParsedAddress
}

// GeoResolver turns a candidate into coordinates.
type GeoResolver interface {
	Resolve(ctx context.Context, addr *domain.ParsedAddress, lang domain.Language) (*domain.GeoPoint, error)
}

// Options configures an Orchestrator. Chain may be nil for offline-only use.
type Options struct {
	Chain      BackendChain
	Extractor  OfflineExtractor
	Resolver   GeoResolver
	BatchDelay time.Duration
	Logger     *zap.Logger
}

// Orchestrator runs backend_attempt -> offline_attempt -> geocode_attempt.
type Orchestrator struct {
	chain      BackendChain
	extractor  OfflineExtractor
	resolver   GeoResolver
	batchDelay time.Duration
	log        *zap.Logger
}

// New creates an Orchestrator.
func New(opts Options) *Orchestrator {
	o := &Orchestrator{
		chain:      opts.Chain,
		extractor:  opts.Extractor,
		resolver:   opts.Resolver,
		batchDelay: opts.BatchDelay,
		log:        opts.Logger,
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	return o
}

// Process extracts and geocodes one text. Failures are reported on the
// result, never as an error.
func (o *Orchestrator) Process(ctx context.Context, text, cityHint string) *domain.GeoResult {
	detected := lang.Detect(text)
	result := &domain.GeoResult{
		OriginalText: text,
		Language:     detected,
		Method:       domain.MethodNone,
	}

	if detected == domain.LanguageUnknown {
		return withError(result, domain.ErrNoAddress)
	}

	addr, method := o.extract(ctx, text, detected)
	if addr == nil {
		return withError(result, domain.ErrNoAddress)
	}
	if addr.City == "" {
		addr.City = cityHint
	}
	if addr.City == "" {
		addr.City, _ = lexicon.FindCity(text)
	}
	result.Parsed = addr
	result.Method = method

	if o.resolver == nil {
		return withError(result, domain.ErrGeocodeFailed)
	}

	pt, err := o.resolver.Resolve(ctx, addr, detected)
	if err != nil {
		if !errors.Is(err, domain.ErrGeocodeFailed) {
			o.log.Warn("pipeline: geocoding aborted", zap.String("method", method), zap.Error(err))
		}
		return withError(result, err)
	}

	result.Latitude = &pt.Latitude
	result.Longitude = &pt.Longitude
	result.DisplayName = &pt.DisplayName
	result.QueryUsed = &pt.QueryUsed
	result.Geocoded = true
	return result
}

func (o *Orchestrator) extract(ctx context.Context, text string, detected domain.Language) (*domain.ParsedAddress, string) {
	if o.chain != nil {
		addr, name, err := o.chain.Extract(ctx, text)
		if err == nil && addr != nil {
			return addr, name
		}
		if err != nil && !errors.Is(err, domain.ErrNoBackendCandidate) {
			o.log.Warn("pipeline: backend chain failed", zap.Error(err))
		}
	}
	if o.extractor != nil {
		if addr := o.extractor.Extract(text, detected); addr != nil {
			return addr, domain.MethodOffline
		}
	}
	return nil, ""
}

// Batch processes texts sequentially and returns one result per input in
// order. The batch delay follows every geocoded input. When ctx ends, the
// remaining inputs are reported with the context error.
func (o *Orchestrator) Batch(ctx context.Context, texts []string, cityHint string) []*domain.GeoResult {
	return o.BatchFunc(ctx, texts, cityHint, nil)
}

// BatchFunc is Batch with a callback invoked after each input, in order.
// done may be nil.
func (o *Orchestrator) BatchFunc(ctx context.Context, texts []string, cityHint string, done func(i int, res *domain.GeoResult)) []*domain.GeoResult {
	results := make([]*domain.GeoResult, 0, len(texts))
	for i, text := range texts {
		var res *domain.GeoResult
		if err := ctx.Err(); err != nil {
			res = withError(&domain.GeoResult{
				OriginalText: text,
				Language:     lang.Detect(text),
				Method:       domain.MethodNone,
			}, err)
		} else {
			res = o.Process(ctx, text, cityHint)
			o.log.Debug("pipeline: batch item done",
				zap.Int("index", i),
				zap.String("method", res.Method),
				zap.Bool("geocoded", res.Geocoded),
			)
		}
		results = append(results, res)
		if done != nil {
			done(i, res)
		}

		if res.Geocoded && i < len(texts)-1 {
			wait(ctx, o.batchDelay)
		}
	}
	return results
}

func withError(r *domain.GeoResult, err error) *domain.GeoResult {
	msg := err.Error()
	r.Error = &msg
	return r
}

func wait(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
