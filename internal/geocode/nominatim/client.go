// Package nominatim implements port.Geocoder against the OpenStreetMap
// Nominatim search API.
package nominatim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/time/rate"

	"geoaddr/internal/config"
	"geoaddr/internal/domain"
	"geoaddr/internal/geocode"
)

const (
	defaultEndpoint  = "https://nominatim.openstreetmap.org"
	defaultUserAgent = "addr_extract_ai_v3/1.0"
	defaultTimeout   = 10 * time.Second
)

// Client queries /search and is rate limited to the public usage policy.
type Client struct {
	searchURL string
	userAgent string
	client    *http.Client
	limiter   *rate.Limiter
}

// NewClient creates a client from configuration.
func NewClient(cfg *config.GeocoderConfig) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return NewClientWithEndpoint(cfg, endpoint)
}

// NewClientWithEndpoint creates a client pointing at a custom base URL (for testing).
func NewClientWithEndpoint(cfg *config.GeocoderConfig, endpoint string) *Client {
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = defaultTimeout
	}
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	return &Client{
		searchURL: strings.TrimRight(endpoint, "/") + "/search",
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(limit, 1),
	}
}

type place struct {
	Lat         string            `json:"lat"`
	Lon         string            `json:"lon"`
	DisplayName string            `json:"display_name"`
	Address     map[string]string `json:"address"`
}

// Geocode returns the best match for query, or nil when there is none.
// Timeouts come back as geocode timeout errors and every other failure as a
// geocode service error.
func (c *Client) Geocode(ctx context.Context, query, language string) (*domain.GeoPoint, error) {
	// Wait fails early when the next slot is past the deadline.
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, geocode.NewTimeoutError(query, err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("limit", "1")
	params.Set("addressdetails", "1")
	if language != "" {
		params.Set("accept-language", language)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, geocode.NewServiceError(query, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, geocode.NewTimeoutError(query, err)
		}
		return nil, geocode.NewServiceError(query, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return nil, geocode.NewTimeoutError(query, err)
		}
		return nil, geocode.NewServiceError(query, fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, geocode.NewServiceError(query, fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(body), 200)))
	}

	var places []place
	if err := json.Unmarshal(body, &places); err != nil {
		return nil, geocode.NewServiceError(query, fmt.Errorf("decoding response: %w", err))
	}
	if len(places) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return nil, geocode.NewServiceError(query, fmt.Errorf("parsing lat %q: %w", places[0].Lat, err))
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return nil, geocode.NewServiceError(query, fmt.Errorf("parsing lon %q: %w", places[0].Lon, err))
	}

	return &domain.GeoPoint{
		Latitude:    lat,
		Longitude:   lon,
		DisplayName: places[0].DisplayName,
		Details:     places[0].Address,
	}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
