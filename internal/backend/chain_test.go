package backend_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"geoaddr/internal/backend"
	"geoaddr/internal/domain"
	"geoaddr/internal/port"
	"geoaddr/mocks"
)

const chainInput = "Зустріч на вул. Хрещатик, 22"

func namedBackend(name string) *mocks.MockAddressBackend {
	b := new(mocks.MockAddressBackend)
	b.On("Name").Return(name)
	return b
}

func candidate(name string, conf float64) *domain.ParsedAddress {
	return &domain.ParsedAddress{StreetType: "вулиця", StreetName: name, Building: "22", RawText: "вул. Хрещатик, 22", Confidence: conf}
}

func TestChain_FirstSucceeds(t *testing.T) {
	b1 := namedBackend("groq")
	b2 := namedBackend("gemini")
	b1.On("Extract", mock.Anything, chainInput).Return(candidate("Хрещатик", 0.9), nil)

	chain := backend.NewChain([]port.AddressBackend{b1, b2}, nil)

	addr, name, err := chain.Extract(context.Background(), chainInput)

	require.NoError(t, err)
	assert.Equal(t, "groq", name)
	assert.Equal(t, "Хрещатик", addr.StreetName)
	b2.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
}

func TestChain_FailureFallsThrough(t *testing.T) {
	b1 := namedBackend("groq")
	b2 := namedBackend("gemini")
	b1.On("Extract", mock.Anything, chainInput).Return(nil, errors.New("connection refused"))
	b2.On("Extract", mock.Anything, chainInput).Return(candidate("Хрещатик", 0.8), nil)

	chain := backend.NewChain([]port.AddressBackend{b1, b2}, nil)

	_, name, err := chain.Extract(context.Background(), chainInput)

	require.NoError(t, err)
	assert.Equal(t, "gemini", name)
}

func TestChain_LowConfidenceSkipped(t *testing.T) {
	b1 := namedBackend("groq")
	b2 := namedBackend("gemini")
	b1.On("Extract", mock.Anything, chainInput).Return(candidate("Хрещатик", 0.1), nil)
	b2.On("Extract", mock.Anything, chainInput).Return(nil, nil)

	chain := backend.NewChain([]port.AddressBackend{b1, b2}, nil)

	addr, name, err := chain.Extract(context.Background(), chainInput)

	assert.ErrorIs(t, err, domain.ErrNoBackendCandidate)
	assert.Nil(t, addr)
	assert.Empty(t, name)
}

func TestChain_RawTextNotInInputIsCleared(t *testing.T) {
	b1 := namedBackend("groq")
	invented := &domain.ParsedAddress{StreetName: "Хрещатик", RawText: "вулиця Хрещатик 22", Confidence: 0.9}
	b1.On("Extract", mock.Anything, chainInput).Return(invented, nil)

	chain := backend.NewChain([]port.AddressBackend{b1}, nil)

	addr, _, err := chain.Extract(context.Background(), chainInput)

	require.NoError(t, err)
	assert.Empty(t, addr.RawText)
	assert.Equal(t, "Хрещатик", addr.StreetName)
}

func TestChain_OnlyInventedRawTextIsRejected(t *testing.T) {
	b1 := namedBackend("groq")
	b1.On("Extract", mock.Anything, chainInput).Return(&domain.ParsedAddress{RawText: "somewhere else", Confidence: 0.9}, nil)

	chain := backend.NewChain([]port.AddressBackend{b1}, nil)

	_, _, err := chain.Extract(context.Background(), chainInput)

	assert.ErrorIs(t, err, domain.ErrNoBackendCandidate)
}

func TestChain_RateLimitOpensCircuit(t *testing.T) {
	b1 := namedBackend("groq")
	b2 := namedBackend("gemini")
	b1.On("Extract", mock.Anything, chainInput).
		Return(nil, backend.NewRateLimitError("groq", errors.New("429"), 60)).Once()
	b2.On("Extract", mock.Anything, chainInput).Return(candidate("Хрещатик", 0.8), nil)

	chain := backend.NewChain([]port.AddressBackend{b1, b2}, nil)

	_, name, err := chain.Extract(context.Background(), chainInput)
	require.NoError(t, err)
	assert.Equal(t, "gemini", name)

	_, name, err = chain.Extract(context.Background(), chainInput)
	require.NoError(t, err)
	assert.Equal(t, "gemini", name)

	b1.AssertNumberOfCalls(t, "Extract", 1)
	b2.AssertNumberOfCalls(t, "Extract", 2)
}

func TestChain_Empty(t *testing.T) {
	chain := backend.NewChain(nil, nil)

	_, _, err := chain.Extract(context.Background(), chainInput)

	assert.ErrorIs(t, err, domain.ErrNoBackendCandidate)
	assert.Equal(t, 0, chain.Len())
	assert.Empty(t, chain.Names())
}
