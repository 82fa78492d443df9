// @title geoaddr API
// @version 1.0
// @description Street address extraction and geocoding for Russian and Ukrainian text.
// @BasePath /api/v1

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"geoaddr/internal/config"
	"geoaddr/internal/handler"
	"geoaddr/internal/logger"
	"geoaddr/internal/pipeline"
	"geoaddr/internal/port"
	"geoaddr/internal/repository/postgres"
	"geoaddr/internal/router"
	"geoaddr/internal/service"
	s3storage "geoaddr/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(ctx, &cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	channelRepo := postgres.NewChannelMessageRepo(db)

	// Initialize storage. Reports are still served inline without it.
	var reportStore port.ObjectStorage
	if cfg.S3.Bucket != "" {
		reportStore, err = s3storage.NewReportStore(ctx, &cfg.S3)
		if err != nil {
			zlog.Warn("report storage disabled", zap.Error(err))
			reportStore = nil
		}
	}

	// Initialize pipeline and services
	orch, backends := pipeline.Build(ctx, cfg, zlog)
	extractSvc := service.NewExtractService(orch, backends)
	reportSvc := service.NewReportService(reportStore)
	channelSvc := service.NewChannelMessageService(channelRepo, orch, zlog.Named("channel"))

	// Start the background geocoding worker
	worker := service.NewChannelMessageWorker(channelRepo, channelSvc, service.ChannelWorkerConfig{
		PollInterval: time.Duration(cfg.Queue.PollIntervalSecs) * time.Second,
		BatchSize:    cfg.Queue.BatchSize,
		Concurrency:  cfg.Queue.Concurrency,
	}, zlog.Named("worker"))
	go worker.Start(ctx)

	// Initialize handlers
	extractH := handler.NewExtractHandler(extractSvc, reportSvc)
	channelH := handler.NewChannelMessageHandler(channelSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(cfg, zlog, extractH, channelH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		zlog.Info("server starting", zap.String("addr", cfg.Server.Port), zap.Strings("backends", backends))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zlog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
