package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"geoaddr/internal/domain"
	"geoaddr/internal/service"
	"geoaddr/mocks"
)

func TestChannelMessageWorker_PollsAndProcesses(t *testing.T) {
	repo := new(mocks.MockChannelMessageRepo)
	svc := new(mocks.MockChannelMessageService)

	msg := domain.ChannelMessage{ID: 1, ChannelID: "chan1", MessageID: 5, RawMessage: "вул. Хрещатик, 22"}

	// First poll returns one message, subsequent polls return empty
	repo.On("ClaimUnprocessed", mock.Anything, mock.AnythingOfType("int")).
		Return([]domain.ChannelMessage{msg}, nil).Once()
	repo.On("ClaimUnprocessed", mock.Anything, mock.AnythingOfType("int")).
		Return([]domain.ChannelMessage{}, nil).Maybe()
	svc.On("Process", mock.Anything, mock.AnythingOfType("*domain.ChannelMessage")).
		Return(&domain.GeoResult{Geocoded: true}, nil).Maybe()

	worker := service.NewChannelMessageWorker(repo, svc, service.ChannelWorkerConfig{
		PollInterval: 50 * time.Millisecond,
		BatchSize:    10,
		Concurrency:  2,
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	time.Sleep(200 * time.Millisecond)
	cancel()
	<-done

	repo.AssertCalled(t, "ClaimUnprocessed", mock.Anything, mock.AnythingOfType("int"))
	svc.AssertCalled(t, "Process", mock.Anything, mock.AnythingOfType("*domain.ChannelMessage"))
}

func TestChannelMessageWorker_ClaimLimitedByConcurrency(t *testing.T) {
	repo := new(mocks.MockChannelMessageRepo)
	svc := new(mocks.MockChannelMessageService)

	repo.On("ClaimUnprocessed", mock.Anything, 2).Return([]domain.ChannelMessage{}, nil).Maybe()

	worker := service.NewChannelMessageWorker(repo, svc, service.ChannelWorkerConfig{
		PollInterval: 50 * time.Millisecond,
		BatchSize:    20,
		Concurrency:  2,
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	time.Sleep(120 * time.Millisecond)
	cancel()
	<-done

	repo.AssertCalled(t, "ClaimUnprocessed", mock.Anything, 2)
}

func TestChannelMessageWorker_ClaimErrorKeepsPolling(t *testing.T) {
	repo := new(mocks.MockChannelMessageRepo)
	svc := new(mocks.MockChannelMessageService)

	repo.On("ClaimUnprocessed", mock.Anything, mock.AnythingOfType("int")).
		Return(nil, errors.New("connection reset"))

	worker := service.NewChannelMessageWorker(repo, svc, service.ChannelWorkerConfig{
		PollInterval: 30 * time.Millisecond,
		BatchSize:    5,
		Concurrency:  1,
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	time.Sleep(150 * time.Millisecond)
	cancel()
	<-done

	assert.GreaterOrEqual(t, len(repo.Calls), 2)
	svc.AssertNotCalled(t, "Process", mock.Anything, mock.Anything)
}

func TestChannelMessageWorker_RunOnce(t *testing.T) {
	repo := new(mocks.MockChannelMessageRepo)
	svc := new(mocks.MockChannelMessageService)

	first := []domain.ChannelMessage{{ID: 1}, {ID: 2}}
	repo.On("ClaimUnprocessed", mock.Anything, 2).Return(first, nil).Once()
	repo.On("ClaimUnprocessed", mock.Anything, 2).Return([]domain.ChannelMessage{{ID: 3}}, nil).Once()
	repo.On("ClaimUnprocessed", mock.Anything, 2).Return([]domain.ChannelMessage{}, nil).Once()

	svc.On("Process", mock.Anything, mock.MatchedBy(func(m *domain.ChannelMessage) bool { return m.ID == 2 })).
		Return(nil, errors.New("update failed"))
	svc.On("Process", mock.Anything, mock.AnythingOfType("*domain.ChannelMessage")).
		Return(&domain.GeoResult{}, nil)

	worker := service.NewChannelMessageWorker(repo, svc, service.ChannelWorkerConfig{BatchSize: 2}, nil)

	n, err := worker.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	svc.AssertNumberOfCalls(t, "Process", 3)
}

func TestChannelMessageWorker_RunOnceCancelled(t *testing.T) {
	repo := new(mocks.MockChannelMessageRepo)
	worker := service.NewChannelMessageWorker(repo, new(mocks.MockChannelMessageService), service.ChannelWorkerConfig{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := worker.RunOnce(ctx)

	assert.Equal(t, 0, n)
	assert.ErrorIs(t, err, context.Canceled)
	repo.AssertNotCalled(t, "ClaimUnprocessed", mock.Anything, mock.Anything)
}
