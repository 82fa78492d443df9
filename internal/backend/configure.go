package backend

import (
	"context"

	"go.uber.org/zap"

	"geoaddr/internal/config"
	"geoaddr/internal/port"
)

// Configure builds the backend chain from configuration. Providers that fail
// to construct or report themselves unavailable are left out; an empty chain
// means offline-only mode.
func Configure(ctx context.Context, cfg *config.BackendConfig, log *zap.Logger) *Chain {
	if log == nil {
		log = zap.NewNop()
	}
	var active []port.AddressBackend
	for _, pc := range cfg.Providers() {
		b, err := NewBackend(pc)
		if err != nil {
			log.Warn("backend: cannot create provider", zap.String("provider", pc.Provider), zap.Error(err))
			continue
		}
		if !b.Available(ctx) {
			log.Info("backend: provider unavailable", zap.String("provider", pc.Provider))
			continue
		}
		log.Info("backend: provider active", zap.String("provider", pc.Provider))
		active = append(active, b)
	}
	if len(active) == 0 {
		log.Info("backend: no providers available, running offline only")
	}
	return NewChain(active, log)
}
