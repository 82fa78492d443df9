// Package claude implements an address backend on the Anthropic Messages API.
package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"geoaddr/internal/backend"
	"geoaddr/internal/config"
	"geoaddr/internal/domain"
	"geoaddr/internal/port"
)

const (
	apiURL     = "https://api.anthropic.com/v1/messages"
	apiVersion = "2023-06-01"
)

func init() {
	backend.RegisterProvider("claude", func(cfg *config.BackendProviderConfig) (port.AddressBackend, error) {
		return NewBackend(cfg), nil
	})
}

// Backend implements port.AddressBackend using the Anthropic Messages API.
type Backend struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewBackend creates a Claude-based address backend from a provider config.
func NewBackend(cfg *config.BackendProviderConfig) *Backend {
	return newBackend(cfg, apiURL)
}

// NewBackendWithEndpoint creates a backend pointing at a custom API endpoint (for testing).
func NewBackendWithEndpoint(cfg *config.BackendProviderConfig, endpoint string) *Backend {
	return newBackend(cfg, endpoint)
}

func newBackend(cfg *config.BackendProviderConfig, endpoint string) *Backend {
	model := cfg.Model
	if model == "" {
		model = "claude-3-5-haiku-latest"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Backend{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (b *Backend) Name() string {
	return "claude"
}

func (b *Backend) Available(context.Context) bool {
	return b.apiKey != ""
}

func (b *Backend) Extract(ctx context.Context, text string) (*domain.ParsedAddress, error) {
	reqBody := map[string]interface{}{
		"model":       b.model,
		"max_tokens":  300,
		"temperature": 0.0,
		"system":      backend.SystemPrompt,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": text,
			},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", b.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling anthropic API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, backend.StatusError("claude", resp.StatusCode, resp.Header.Get("Retry-After"), respBody)
	}

	return parseResponse(respBody)
}

// apiResponse models the Anthropic Messages API response.
type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func parseResponse(body []byte) (*domain.ParsedAddress, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	for _, block := range resp.Content {
		if block.Type == "text" {
			return backend.ParseResponse(block.Text)
		}
	}
	return nil, fmt.Errorf("empty response from API")
}
