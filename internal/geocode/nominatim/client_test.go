package nominatim_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoaddr/internal/config"
	"geoaddr/internal/geocode"
	"geoaddr/internal/geocode/nominatim"
)

func testConfig() *config.GeocoderConfig {
	return &config.GeocoderConfig{UserAgent: "geoaddr-test/1.0", TimeoutSecs: 2}
}

func TestGeocode_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "вулиця Хрещатик, 22, Київ", r.URL.Query().Get("q"))
		assert.Equal(t, "jsonv2", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "uk", r.URL.Query().Get("accept-language"))
		assert.Equal(t, "geoaddr-test/1.0", r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"50.4474","lon":"30.5223","display_name":"22, Хрещатик, Київ","address":{"road":"Хрещатик","house_number":"22","city":"Київ"}}]`))
	}))
	defer server.Close()

	client := nominatim.NewClientWithEndpoint(testConfig(), server.URL)

	pt, err := client.Geocode(context.Background(), "вулиця Хрещатик, 22, Київ", "uk")

	require.NoError(t, err)
	require.NotNil(t, pt)
	assert.InDelta(t, 50.4474, pt.Latitude, 1e-9)
	assert.InDelta(t, 30.5223, pt.Longitude, 1e-9)
	assert.Equal(t, "22, Хрещатик, Київ", pt.DisplayName)
	assert.Equal(t, "22", pt.Details["house_number"])
}

func TestGeocode_NoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := nominatim.NewClientWithEndpoint(testConfig(), server.URL)

	pt, err := client.Geocode(context.Background(), "нісенітниця", "uk")

	require.NoError(t, err)
	assert.Nil(t, pt)
}

func TestGeocode_ServerErrorIsServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`overloaded`))
	}))
	defer server.Close()

	client := nominatim.NewClientWithEndpoint(testConfig(), server.URL)

	_, err := client.Geocode(context.Background(), "Київ", "uk")

	require.Error(t, err)
	assert.True(t, geocode.IsService(err))
	assert.Contains(t, err.Error(), "503")
}

func TestGeocode_BadJSONIsServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer server.Close()

	client := nominatim.NewClientWithEndpoint(testConfig(), server.URL)

	_, err := client.Geocode(context.Background(), "Київ", "uk")

	assert.True(t, geocode.IsService(err))
}

func TestGeocode_SlowServerIsTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := nominatim.NewClientWithEndpoint(testConfig(), server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Geocode(ctx, "Київ", "uk")

	require.Error(t, err)
	assert.True(t, geocode.IsTimeout(err))
}

func TestGeocode_RateLimitPastDeadlineIsTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.RatePerSecond = 0.5
	client := nominatim.NewClientWithEndpoint(cfg, server.URL)

	_, err := client.Geocode(context.Background(), "Київ", "uk")
	require.NoError(t, err)

	// The next slot is two seconds out, past this deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err = client.Geocode(ctx, "Львів", "uk")

	require.Error(t, err)
	assert.True(t, geocode.IsTimeout(err))
}

func TestGeocode_ErrorBodyCutOnRuneBoundary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("a" + strings.Repeat("ж", 150)))
	}))
	defer server.Close()

	client := nominatim.NewClientWithEndpoint(testConfig(), server.URL)

	_, err := client.Geocode(context.Background(), "Київ", "uk")

	require.Error(t, err)
	assert.True(t, geocode.IsService(err))
	assert.True(t, utf8.ValidString(err.Error()))
	assert.Contains(t, err.Error(), "...")
}

func TestNewClient_DefaultEndpoint(t *testing.T) {
	client := nominatim.NewClient(&config.GeocoderConfig{})

	assert.NotNil(t, client)
}
