package backend

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"geoaddr/internal/domain"
	"geoaddr/internal/port"
)

// circuitState tracks rate-limit backoff for a single backend.
type circuitState struct {
	mu      sync.RWMutex
	resetAt time.Time // zero value = closed (healthy)
}

func (c *circuitState) isOpenWithReset(now time.Time) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resetAt, !c.resetAt.IsZero() && now.Before(c.resetAt)
}

func (c *circuitState) open(resetAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetAt = resetAt
}

// Chain tries backends in priority order, skipping those with open circuits.
// It is safe for concurrent use.
type Chain struct {
	backends []port.AddressBackend
	circuits []*circuitState
	log      *zap.Logger
	now      func() time.Time
}

// NewChain creates a Chain from an ordered list of backends.
func NewChain(backends []port.AddressBackend, log *zap.Logger) *Chain {
	if log == nil {
		log = zap.NewNop()
	}
	circuits := make([]*circuitState, len(backends))
	for i := range circuits {
		circuits[i] = &circuitState{}
	}
	return &Chain{
		backends: backends,
		circuits: circuits,
		log:      log,
		now:      time.Now,
	}
}

// Names returns the backend names in priority order.
func (c *Chain) Names() []string {
	names := make([]string, len(c.backends))
	for i, b := range c.backends {
		names[i] = b.Name()
	}
	return names
}

// Len returns the number of backends. Zero means offline-only mode.
func (c *Chain) Len() int {
	return len(c.backends)
}

// Extract returns the first accepted candidate and the name of the backend
// that produced it. Backend failures are logged and skipped; when no backend
// yields a candidate the error is domain.ErrNoBackendCandidate.
func (c *Chain) Extract(ctx context.Context, text string) (*domain.ParsedAddress, string, error) {
	now := c.now()
	for i, b := range c.backends {
		name := b.Name()
		if resetAt, open := c.circuits[i].isOpenWithReset(now); open {
			c.log.Debug("backend chain: skipping, circuit open",
				zap.String("backend", name),
				zap.Time("reset_at", resetAt),
			)
			continue
		}

		addr, err := b.Extract(ctx, text)
		if err != nil {
			var rlErr *RateLimitError
			if errors.As(err, &rlErr) {
				c.circuits[i].open(now.Add(rlErr.RetryAfter))
			}
			c.log.Warn("backend chain: backend failed", zap.String("backend", name), zap.Error(err))
			continue
		}
		if !accept(addr, text) {
			c.log.Debug("backend chain: no candidate", zap.String("backend", name))
			continue
		}
		return addr, name, nil
	}
	return nil, "", domain.ErrNoBackendCandidate
}

// accept applies the acceptance rules shared by all backends. A raw_text that
// does not occur verbatim in the input is dropped first.
func accept(addr *domain.ParsedAddress, text string) bool {
	if addr == nil {
		return false
	}
	if addr.RawText != "" && !strings.Contains(text, addr.RawText) {
		addr.RawText = ""
	}
	if addr.StreetName == "" && addr.RawText == "" {
		return false
	}
	return addr.Confidence >= domain.MinConfidence
}
