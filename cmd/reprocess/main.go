// Command reprocess clears the geocoding state of stored channel messages and
// geocodes them again in the foreground.
// Usage: go run ./cmd/reprocess [-channel ID]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"geoaddr/internal/config"
	"geoaddr/internal/logger"
	"geoaddr/internal/pipeline"
	"geoaddr/internal/repository/postgres"
	"geoaddr/internal/service"
)

const batchSize = 100

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	channelID := flag.String("channel", "", "only reprocess messages from this channel")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(ctx, &cfg.DB)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	repo := postgres.NewChannelMessageRepo(db)
	orch, _ := pipeline.Build(ctx, cfg, zlog)
	svc := service.NewChannelMessageService(repo, orch, zlog.Named("channel"))

	queued, err := svc.Reprocess(ctx, *channelID)
	if err != nil {
		return fmt.Errorf("resetting messages: %w", err)
	}
	zlog.Info("messages queued", zap.Int64("count", queued), zap.String("channel_id", *channelID))

	worker := service.NewChannelMessageWorker(repo, svc, service.ChannelWorkerConfig{
		BatchSize: batchSize,
	}, zlog.Named("worker"))

	processed, err := worker.RunOnce(ctx)
	if err != nil {
		return fmt.Errorf("after %d messages: %w", processed, err)
	}

	zlog.Info("reprocess complete", zap.Int("processed", processed))
	return nil
}
