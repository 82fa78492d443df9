package backend

import (
	"fmt"
	"sort"

	"geoaddr/internal/config"
	"geoaddr/internal/port"
)

// ProviderFactory is a function that creates an AddressBackend from a provider config.
type ProviderFactory func(cfg *config.BackendProviderConfig) (port.AddressBackend, error)

// registry of backend provider factories, populated by init() in each provider package
// or explicitly via RegisterProvider.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a backend provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewBackend creates an AddressBackend from a provider config using the registered factory.
func NewBackend(cfg *config.BackendProviderConfig) (port.AddressBackend, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown backend provider: %s", cfg.Provider)
	}
	return factory(cfg)
}

// RegisteredProviders lists the registered provider names, sorted.
func RegisteredProviders() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
