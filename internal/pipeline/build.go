package pipeline

import (
	"context"

	"go.uber.org/zap"

	"geoaddr/internal/backend"
	"geoaddr/internal/config"
	"geoaddr/internal/extractor"
	"geoaddr/internal/geocode"
	"geoaddr/internal/geocode/nominatim"
	"geoaddr/internal/morph"
	"geoaddr/internal/ner"
	"geoaddr/internal/normalizer"
	"geoaddr/internal/pattern"
	"geoaddr/internal/port"
	"geoaddr/internal/translit"

	// Register backend providers.
	_ "geoaddr/internal/backend/claude"
	_ "geoaddr/internal/backend/gemini"
	_ "geoaddr/internal/backend/openai"
)

// Build assembles the full extraction stack from configuration and returns
// it together with the names of the active backends.
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Orchestrator, []string) {
	if log == nil {
		log = zap.NewNop()
	}

	chain := backend.Configure(ctx, &cfg.Backend, log.Named("backend"))

	ext := cfg.Extraction
	cascade := pattern.NewCascade(normalizer.New(morph.NewAnalyzer()), pattern.Confidences{
		StreetTypeFirst:     ext.StreetTypeFirst,
		StreetTypeLast:      ext.StreetTypeLast,
		PrepositionComma:    ext.PrepositionComma,
		PrepositionBuilding: ext.PrepositionBuilding,
		CityFirst:           ext.CityFirst,
		AddressLabel:        ext.AddressLabel,
		BareName:            ext.BareName,
		Floor:               ext.MinConfidence,
	})
	offline := extractor.New(extractor.Options{
		Cascade:            cascade,
		Spans:              ner.New(),
		SpanConfidence:     ext.AddressSpan,
		LocationConfidence: ext.Location,
		MinConfidence:      ext.MinConfidence,
		Logger:             log.Named("extractor"),
	})

	var tr port.Transliterator
	if cfg.Geocoder.Transliterate {
		tr = translit.New()
	}
	resolver := geocode.NewResolver(geocode.Options{
		Geocoder:       nominatim.NewClient(&cfg.Geocoder),
		Transliterator: tr,
		Retries:        cfg.Geocoder.Retries,
		RetryDelay:     cfg.Geocoder.RetryDelay,
		VariantDelay:   cfg.Geocoder.VariantDelay,
		Logger:         log.Named("geocode"),
	})

	orch := New(Options{
		Chain:      chain,
		Extractor:  offline,
		Resolver:   resolver,
		BatchDelay: cfg.Pipeline.BatchDelay,
		Logger:     log.Named("pipeline"),
	})
	return orch, chain.Names()
}
