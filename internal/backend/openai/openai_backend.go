// Package openai implements address backends for OpenAI-compatible chat
// completion APIs: Groq, OpenAI and local servers such as Ollama.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"geoaddr/internal/backend"
	"geoaddr/internal/config"
	"geoaddr/internal/domain"
	"geoaddr/internal/port"
)

const (
	groqURL          = "https://api.groq.com/openai/v1/chat/completions"
	openaiURL        = "https://api.openai.com/v1/chat/completions"
	defaultLocalBase = "http://localhost:11434/v1"
	probeTimeout     = 3 * time.Second
)

type preset struct {
	endpoint string
	model    string
	timeout  time.Duration
	jsonMode bool
	needsKey bool
}

var presets = map[string]preset{
	"groq":          {endpoint: groqURL, model: "llama-3.3-70b-versatile", timeout: 15 * time.Second, jsonMode: true, needsKey: true},
	"openai":        {endpoint: openaiURL, model: "gpt-4o-mini", timeout: 15 * time.Second, jsonMode: true, needsKey: true},
	"ollama":        {model: "llama3", timeout: 30 * time.Second},
	"openai_compat": {model: "llama3", timeout: 30 * time.Second},
}

func init() {
	for name := range presets {
		name := name
		backend.RegisterProvider(name, func(cfg *config.BackendProviderConfig) (port.AddressBackend, error) {
			return NewBackend(name, cfg)
		})
	}
}

// Backend implements port.AddressBackend over the Chat Completions API.
type Backend struct {
	name      string
	apiKey    string
	model     string
	endpoint  string
	modelsURL string
	jsonMode  bool
	needsKey  bool
	client    *http.Client
}

// NewBackend creates a backend for one of the known provider presets. Providers
// without a fixed endpoint use cfg.BaseURL, defaulting to a local Ollama.
func NewBackend(name string, cfg *config.BackendProviderConfig) (*Backend, error) {
	p, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown openai-compatible provider: %s", name)
	}
	endpoint := p.endpoint
	modelsURL := ""
	if endpoint == "" || cfg.BaseURL != "" {
		base := cfg.BaseURL
		if base == "" {
			base = defaultLocalBase
		}
		base = strings.TrimRight(base, "/")
		endpoint = base + "/chat/completions"
		modelsURL = base + "/models"
	}
	return newBackend(name, cfg, p, endpoint, modelsURL), nil
}

// NewBackendWithEndpoint creates a backend pointing at a custom API base URL (for testing).
// The chat endpoint is {base}/chat/completions and the probe is {base}/models.
func NewBackendWithEndpoint(name string, cfg *config.BackendProviderConfig, base string) *Backend {
	p := presets[name]
	base = strings.TrimRight(base, "/")
	return newBackend(name, cfg, p, base+"/chat/completions", base+"/models")
}

func newBackend(name string, cfg *config.BackendProviderConfig, p preset, endpoint, modelsURL string) *Backend {
	model := cfg.Model
	if model == "" {
		model = p.model
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = p.timeout
	}
	return &Backend{
		name:      name,
		apiKey:    cfg.APIKey,
		model:     model,
		endpoint:  endpoint,
		modelsURL: modelsURL,
		jsonMode:  p.jsonMode,
		needsKey:  p.needsKey,
		client:    &http.Client{Timeout: timeout},
	}
}

func (b *Backend) Name() string {
	return b.name
}

// Available reports whether the backend has a key or, for keyless local
// servers, whether {base}/models answers 200 within three seconds.
func (b *Backend) Available(ctx context.Context) bool {
	if b.needsKey {
		return b.apiKey != ""
	}
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.modelsURL, http.NoBody)
	if err != nil {
		return false
	}
	b.authorize(req)
	resp, err := b.client.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

func (b *Backend) Extract(ctx context.Context, text string) (*domain.ParsedAddress, error) {
	reqBody := map[string]interface{}{
		"model": b.model,
		"messages": []map[string]interface{}{
			{"role": "system", "content": backend.SystemPrompt},
			{"role": "user", "content": text},
		},
		"temperature": 0.0,
		"max_tokens":  300,
	}
	if b.jsonMode {
		reqBody["response_format"] = map[string]interface{}{"type": "json_object"}
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
	b.authorize(req)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling %s API: %w", b.name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, backend.StatusError(b.name, resp.StatusCode, resp.Header.Get("Retry-After"), respBody)
	}

	return parseResponse(respBody)
}

func (b *Backend) authorize(req *http.Request) {
	if b.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+b.apiKey)
	}
}

// apiResponse models the Chat Completions API response.
type apiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func parseResponse(body []byte) (*domain.ParsedAddress, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from API: no choices")
	}

	return backend.ParseResponse(resp.Choices[0].Message.Content)
}
