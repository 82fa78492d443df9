// Command geoaddr extracts and geocodes addresses from the command line.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"geoaddr/internal/cli"
	"geoaddr/internal/config"
	"geoaddr/internal/logger"
	"geoaddr/internal/pipeline"
	"geoaddr/internal/port"
	s3storage "geoaddr/internal/storage/s3"
)

var Version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	app := &cli.App{
		NewRunner: func(ctx context.Context) (cli.Runner, error) {
			orch, _ := pipeline.Build(ctx, cfg, log)
			return orch, nil
		},
		NewStorage: func(ctx context.Context) (port.ObjectStorage, error) {
			return s3storage.NewReportStore(ctx, &cfg.S3)
		},
		Log:     log,
		Version: Version,
	}

	code := cli.Execute(ctx, app)
	stop()
	_ = log.Sync()
	os.Exit(code)
}
