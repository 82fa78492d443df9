package pipeline_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"geoaddr/internal/backend"
	"geoaddr/internal/domain"
	"geoaddr/internal/extractor"
	"geoaddr/internal/geocode"
	"geoaddr/internal/morph"
	"geoaddr/internal/ner"
	"geoaddr/internal/normalizer"
	"geoaddr/internal/pattern"
	"geoaddr/internal/pipeline"
	"geoaddr/internal/port"
	"geoaddr/mocks"
)

const example1 = "Зустріч за адресою вул. Хрещатик, 22, Київ, 01001."

func offlineExtractor() *extractor.Extractor {
	return extractor.New(extractor.Options{
		Cascade: pattern.NewCascade(normalizer.New(morph.NewAnalyzer()), pattern.DefaultConfidences()),
		Spans:   ner.New(),
	})
}

func newOrchestrator(chain pipeline.BackendChain, g *mocks.MockGeocoder) *pipeline.Orchestrator {
	opts := pipeline.Options{
		Extractor: offlineExtractor(),
		Resolver:  geocode.NewResolver(geocode.Options{Geocoder: g, Retries: 1}),
	}
	if chain != nil {
		opts.Chain = chain
	}
	return pipeline.New(opts)
}

func TestProcess_OfflineExample(t *testing.T) {
	g := new(mocks.MockGeocoder)
	g.On("Geocode", mock.Anything, "вулиця Хрещатик, 22, Київ", "uk").
		Return(&domain.GeoPoint{Latitude: 50.4474, Longitude: 30.5223, DisplayName: "Хрещатик 22"}, nil)

	res := newOrchestrator(nil, g).Process(context.Background(), example1, "")

	require.NotNil(t, res.Parsed)
	assert.Equal(t, domain.MethodOffline, res.Method)
	assert.Equal(t, domain.LanguageUkrainian, res.Language)
	assert.Equal(t, "вулиця", res.Parsed.StreetType)
	assert.Equal(t, "Хрещатик", res.Parsed.StreetName)
	assert.Equal(t, "22", res.Parsed.Building)
	assert.Equal(t, "Київ", res.Parsed.City)
	assert.Equal(t, "01001", res.Parsed.PostalCode)
	assert.InDelta(t, 0.8, res.Parsed.Confidence, 1e-9)
	assert.True(t, res.Geocoded)
	assert.InDelta(t, 50.4474, *res.Latitude, 1e-9)
	assert.Equal(t, "вулиця Хрещатик, 22, Київ", *res.QueryUsed)
	assert.Nil(t, res.Error)
}

func TestProcess_NoAddress(t *testing.T) {
	g := new(mocks.MockGeocoder)

	res := newOrchestrator(nil, g).Process(context.Background(), "Левый 2 белый рено и Мазда по дворам", "")

	assert.Equal(t, domain.MethodNone, res.Method)
	assert.Nil(t, res.Parsed)
	assert.False(t, res.Geocoded)
	assert.Equal(t, "No address found", res.ErrorMessage())
	g.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcess_NoCyrillicSkipsBackends(t *testing.T) {
	b := new(mocks.MockAddressBackend)
	b.On("Name").Return("groq")
	g := new(mocks.MockGeocoder)

	chain := backend.NewChain([]port.AddressBackend{b}, nil)
	res := newOrchestrator(chain, g).Process(context.Background(), "Meet me at 5 Baker Street", "")

	assert.Equal(t, domain.MethodNone, res.Method)
	assert.Equal(t, domain.LanguageUnknown, res.Language)
	assert.Equal(t, "No address found", res.ErrorMessage())
	b.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
}

func TestProcess_BackendCandidateGetsCityHint(t *testing.T) {
	text := "Чекаю на Садовій, 5"
	b := new(mocks.MockAddressBackend)
	b.On("Name").Return("groq")
	b.On("Extract", mock.Anything, text).Return(&domain.ParsedAddress{
		StreetType: "вулиця", StreetName: "Садова", Building: "5", RawText: "Садовій, 5", Confidence: 0.9,
	}, nil)
	g := new(mocks.MockGeocoder)
	g.On("Geocode", mock.Anything, "вулиця Садова, 5, Львів", "uk").
		Return(&domain.GeoPoint{Latitude: 49.84, Longitude: 24.03}, nil)

	chain := backend.NewChain([]port.AddressBackend{b}, nil)
	res := newOrchestrator(chain, g).Process(context.Background(), text, "Львів")

	require.NotNil(t, res.Parsed)
	assert.Equal(t, "groq", res.Method)
	assert.Equal(t, "Львів", res.Parsed.City)
	assert.True(t, res.Geocoded)
}

func TestProcess_BackendFailureFallsBackOffline(t *testing.T) {
	b := new(mocks.MockAddressBackend)
	b.On("Name").Return("groq")
	b.On("Extract", mock.Anything, example1).Return(nil, errors.New("connection refused"))
	g := new(mocks.MockGeocoder)
	g.On("Geocode", mock.Anything, mock.Anything, mock.Anything).Return(&domain.GeoPoint{Latitude: 1, Longitude: 2}, nil)

	chain := backend.NewChain([]port.AddressBackend{b}, nil)
	res := newOrchestrator(chain, g).Process(context.Background(), example1, "")

	assert.Equal(t, domain.MethodOffline, res.Method)
	assert.True(t, res.Geocoded)
}

func TestProcess_GeocodeFailureKeepsParsed(t *testing.T) {
	g := new(mocks.MockGeocoder)
	g.On("Geocode", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

	res := newOrchestrator(nil, g).Process(context.Background(), example1, "")

	require.NotNil(t, res.Parsed)
	assert.Equal(t, domain.MethodOffline, res.Method)
	assert.False(t, res.Geocoded)
	assert.Nil(t, res.Latitude)
	assert.Equal(t, "Address extracted but geocoding failed", res.ErrorMessage())
}

func TestProcess_DetectedCityUsedWithoutHint(t *testing.T) {
	text := "Шукаю квартиру у Львові, Шевченка, 12"
	g := new(mocks.MockGeocoder)
	g.On("Geocode", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

	res := newOrchestrator(nil, g).Process(context.Background(), text, "")

	require.NotNil(t, res.Parsed)
	assert.Equal(t, "Львів", res.Parsed.City)
}

func TestBatch_OrderAndErrorsPreserved(t *testing.T) {
	g := new(mocks.MockGeocoder)
	g.On("Geocode", mock.Anything, mock.Anything, mock.Anything).Return(&domain.GeoPoint{Latitude: 1, Longitude: 2}, nil)

	texts := []string{example1, "Левый 2 белый рено и Мазда по дворам", "plain text"}

	results := newOrchestrator(nil, g).Batch(context.Background(), texts, "")

	require.Len(t, results, 3)
	for i, res := range results {
		assert.Equal(t, texts[i], res.OriginalText)
	}
	assert.True(t, results[0].Geocoded)
	assert.Equal(t, "No address found", results[1].ErrorMessage())
	assert.Equal(t, "No address found", results[2].ErrorMessage())
}

func TestBatch_CancelledContext(t *testing.T) {
	g := new(mocks.MockGeocoder)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := newOrchestrator(nil, g).Batch(ctx, []string{example1, example1}, "")

	require.Len(t, results, 2)
	for _, res := range results {
		assert.False(t, res.Geocoded)
		assert.Equal(t, context.Canceled.Error(), res.ErrorMessage())
	}
	g.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything, mock.Anything)
}

func TestBatchFunc_CallbackPerInput(t *testing.T) {
	g := new(mocks.MockGeocoder)
	g.On("Geocode", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

	var seen []int
	results := newOrchestrator(nil, g).BatchFunc(context.Background(), []string{example1, "plain text"}, "",
		func(i int, res *domain.GeoResult) {
			seen = append(seen, i)
			assert.NotNil(t, res)
		})

	assert.Len(t, results, 2)
	assert.Equal(t, []int{0, 1}, seen)
}

func TestBatch_DelayFollowsGeocodedInputsOnly(t *testing.T) {
	const delay = 50 * time.Millisecond
	g := new(mocks.MockGeocoder)
	g.On("Geocode", mock.Anything, mock.Anything, mock.Anything).Return(&domain.GeoPoint{Latitude: 1, Longitude: 2}, nil)

	orch := pipeline.New(pipeline.Options{
		Extractor:  offlineExtractor(),
		Resolver:   geocode.NewResolver(geocode.Options{Geocoder: g, Retries: 1}),
		BatchDelay: delay,
	})

	// Geocoded, failed, geocoded: one delay, after the first input.
	start := time.Now()
	results := orch.Batch(context.Background(), []string{example1, "plain text", example1}, "")
	elapsed := time.Since(start)

	require.Len(t, results, 3)
	assert.True(t, results[0].Geocoded)
	assert.False(t, results[1].Geocoded)
	assert.True(t, results[2].Geocoded)
	assert.GreaterOrEqual(t, elapsed, delay)
	assert.Less(t, elapsed, 2*delay)
}

func TestBatch_NoDelayWithoutGeocodedInputs(t *testing.T) {
	g := new(mocks.MockGeocoder)

	orch := pipeline.New(pipeline.Options{
		Extractor:  offlineExtractor(),
		Resolver:   geocode.NewResolver(geocode.Options{Geocoder: g, Retries: 1}),
		BatchDelay: time.Second,
	})

	start := time.Now()
	results := orch.Batch(context.Background(), []string{"plain text", "Левый 2 белый рено и Мазда по дворам"}, "")

	require.Len(t, results, 2)
	assert.Less(t, time.Since(start), time.Second)
}
