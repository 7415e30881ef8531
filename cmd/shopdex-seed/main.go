// Seed loader for shopdex: generates the demo electronics catalog and writes
// it to the store configured for ENV.
//
// Usage:
//
//	shopdex-seed -seed 42 -batch-size 100 -workers 4 -reindex
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/shopdex/internal/app"
	"github.com/kailas-cloud/shopdex/internal/config"
	logpkg "github.com/kailas-cloud/shopdex/internal/logger"
	seeduc "github.com/kailas-cloud/shopdex/internal/usecase/seed"
)

func main() {
	_ = godotenv.Load()

	opts := parseFlags()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	if err := run(ctx, opts); err != nil {
		cancel()
		log.Fatal(err)
	}
}

func parseFlags() seeduc.Config {
	var opts seeduc.Config
	flag.Uint64Var(&opts.Seed, "seed", 42, "PRNG seed; equal seeds give equal catalogs")
	flag.IntVar(&opts.BatchSize, "batch-size", seeduc.DefaultBatchSize, "products per bulk write")
	flag.IntVar(&opts.Workers, "workers", seeduc.DefaultWorkers, "concurrent bulk writes")
	flag.BoolVar(&opts.Reindex, "reindex", false, "rebuild the search index after loading")
	flag.Parse()
	return opts
}

func run(ctx context.Context, opts seeduc.Config) error {
	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Database.Driver == config.DriverMemory {
		logger.Warn("memory driver selected: the seeded catalog is lost when this process exits")
	}

	backend, err := app.OpenBackend(ctx, &cfg, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	res, err := seeduc.New(backend.Products, backend.Reindexer, opts, logger).Run(ctx)
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}

	for category, n := range res.ByCategory {
		logger.Info("category loaded", zap.String("category", category), zap.Int("products", n))
	}
	return nil
}
