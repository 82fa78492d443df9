package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"geoaddr/internal/port"
)

// ChannelWorkerConfig holds settings for the channel message worker.
type ChannelWorkerConfig struct {
	PollInterval time.Duration
	BatchSize    int
	Concurrency  int
}

// ChannelMessageWorker polls for unprocessed channel messages and geocodes them.
type ChannelMessageWorker struct {
	repo    port.ChannelMessageRepository
	service ChannelMessageService
	cfg     ChannelWorkerConfig
	log     *zap.Logger
	wg      sync.WaitGroup
}

// NewChannelMessageWorker creates a new ChannelMessageWorker.
func NewChannelMessageWorker(repo port.ChannelMessageRepository, svc ChannelMessageService, cfg ChannelWorkerConfig, log *zap.Logger) *ChannelMessageWorker {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 1
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ChannelMessageWorker{repo: repo, service: svc, cfg: cfg, log: log}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight messages have finished.
func (w *ChannelMessageWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	w.log.Info("channel worker: started",
		zap.Duration("poll", w.cfg.PollInterval),
		zap.Int("batch_size", w.cfg.BatchSize),
		zap.Int("concurrency", w.cfg.Concurrency),
	)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("channel worker: shutting down, waiting for in-flight messages")
			w.wg.Wait()
			w.log.Info("channel worker: shutdown complete")
			return
		case <-ticker.C:
			available := w.cfg.Concurrency - len(sem)
			if available <= 0 {
				continue
			}
			limit := w.cfg.BatchSize
			if limit > available {
				limit = available
			}

			msgs, err := w.repo.ClaimUnprocessed(ctx, limit)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				w.log.Error("channel worker: claim failed", zap.Error(err))
				continue
			}

			for i := range msgs {
				msg := msgs[i]

				sem <- struct{}{}
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer func() { <-sem }()

					// In-flight messages finish even during shutdown.
					procCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
					defer cancel()

					if _, err := w.service.Process(procCtx, &msg); err != nil {
						w.log.Error("channel worker: process failed", zap.Int64("id", msg.ID), zap.Error(err))
					}
				}()
			}
		}
	}
}

// RunOnce claims and processes unprocessed messages sequentially until none
// are left or ctx ends. It returns the number of messages processed.
func (w *ChannelMessageWorker) RunOnce(ctx context.Context) (int, error) {
	processed := 0
	for {
		if err := ctx.Err(); err != nil {
			return processed, err
		}
		msgs, err := w.repo.ClaimUnprocessed(ctx, w.cfg.BatchSize)
		if err != nil {
			return processed, err
		}
		if len(msgs) == 0 {
			return processed, nil
		}
		for i := range msgs {
			if _, err := w.service.Process(ctx, &msgs[i]); err != nil {
				w.log.Error("channel worker: process failed", zap.Int64("id", msgs[i].ID), zap.Error(err))
				continue
			}
			processed++
		}
	}
}
