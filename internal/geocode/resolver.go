// Package geocode turns structured addresses into coordinates by trying an
// ordered list of query variants against a geocoder.
package geocode

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"geoaddr/internal/domain"
	"geoaddr/internal/port"
)

// Options configures a Resolver.
type Options struct {
	Geocoder       port.Geocoder
	Transliterator port.Transliterator
	// Retries is the number of attempts per variant on timeouts.
	Retries      int
	RetryDelay   time.Duration
	VariantDelay time.Duration
	Logger       *zap.Logger
}

// Resolver is the geocoding stage of the pipeline.
type Resolver struct {
	geocoder     port.Geocoder
	translit     port.Transliterator
	retries      int
	retryDelay   time.Duration
	variantDelay time.Duration
	log          *zap.Logger
}

// NewResolver creates a Resolver.
func NewResolver(opts Options) *Resolver {
	r := &Resolver{
		geocoder:     opts.Geocoder,
		translit:     opts.Transliterator,
		retries:      opts.Retries,
		retryDelay:   opts.RetryDelay,
		variantDelay: opts.VariantDelay,
		log:          opts.Logger,
	}
	if r.retries < 1 {
		r.retries = 1
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	return r
}

// Resolve geocodes addr. It tries the variants of the structured query first,
// then the variants of raw_text plus city. It returns domain.ErrGeocodeFailed
// when nothing resolves, or the context error if ctx ends first.
func (r *Resolver) Resolve(ctx context.Context, addr *domain.ParsedAddress, lang domain.Language) (*domain.GeoPoint, error) {
	language := lang.GeocodeLanguage()

	if query := addr.GeocodeString(); query != "" {
		pt, err := r.ResolveQuery(ctx, query, language)
		if err != nil || pt != nil {
			return pt, err
		}
	}

	if addr.RawText != "" {
		fallback := addr.RawText
		if addr.City != "" && !strings.Contains(strings.ToLower(fallback), strings.ToLower(addr.City)) {
			fallback += ", " + addr.City
		}
		pt, err := r.ResolveQuery(ctx, fallback, language)
		if err != nil || pt != nil {
			return pt, err
		}
	}

	return nil, domain.ErrGeocodeFailed
}

// ResolveQuery tries every variant of query in order and returns the first
// hit with QueryUsed set. A nil point and nil error mean no variant resolved.
func (r *Resolver) ResolveQuery(ctx context.Context, query, language string) (*domain.GeoPoint, error) {
	for _, variant := range Variants(query, r.translit) {
		pt, err := r.tryVariant(ctx, variant, language)
		if err != nil {
			return nil, err
		}
		if pt != nil {
			pt.QueryUsed = variant
			return pt, nil
		}
		if err := sleep(ctx, r.variantDelay); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// tryVariant returns an error only when ctx is done. Geocoder failures are
// logged and end the variant.
func (r *Resolver) tryVariant(ctx context.Context, variant, language string) (*domain.GeoPoint, error) {
	for attempt := 1; attempt <= r.retries; attempt++ {
		pt, err := r.geocoder.Geocode(ctx, variant, language)
		switch {
		case err == nil:
			if pt == nil {
				r.log.Debug("geocode: no result", zap.String("query", variant))
			}
			return pt, nil
		case ctx.Err() != nil:
			return nil, ctx.Err()
		case IsTimeout(err):
			r.log.Warn("geocode: timeout",
				zap.String("query", variant),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			if attempt < r.retries {
				if err := sleep(ctx, r.retryDelay); err != nil {
					return nil, err
				}
			}
		default:
			r.log.Warn("geocode: service error", zap.String("query", variant), zap.Error(err))
			return nil, nil
		}
	}
	return nil, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
