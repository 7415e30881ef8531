package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/shopdex/internal/app"
	"github.com/kailas-cloud/shopdex/internal/config"
	logpkg "github.com/kailas-cloud/shopdex/internal/logger"
	"github.com/kailas-cloud/shopdex/internal/metrics"
	chiTransport "github.com/kailas-cloud/shopdex/internal/transport/chi"
	seeduc "github.com/kailas-cloud/shopdex/internal/usecase/seed"
	"github.com/kailas-cloud/shopdex/internal/version"
)

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLoggerWithFile(env, cfg.Logging.Level, logpkg.FileSink{
		Path:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting shopdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("build_date", version.Date),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)

	ctx := context.Background()
	backend, err := app.OpenBackend(ctx, &cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open product store", zap.Error(err))
	}
	defer backend.Close()

	metrics.RegisterHTTPMetrics()
	metrics.RegisterSearchMetrics()
	metrics.RegisterCatalogMetrics()

	lex, err := app.LoadLexicon(cfg.Search.LexiconFile)
	if err != nil {
		logger.Fatal("Failed to load lexicon", zap.Error(err))
	}

	if cfg.Seed.Enabled {
		_, err := seeduc.New(backend.Products, backend.Reindexer, seeduc.Config{
			Seed:      cfg.Seed.Seed,
			BatchSize: cfg.Seed.BatchSize,
			Reindex:   cfg.Seed.Reindex,
		}, logger).Run(ctx)
		if err != nil {
			logger.Fatal("Failed to seed catalog", zap.Error(err))
		}
	}

	svcs := app.NewServices(&cfg, backend, lex, logger)
	server := chiTransport.NewServer(svcs.Search, svcs.Catalog, svcs.Health, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      chiTransport.NewRouter(server, cfg.Auth.APIKeys, logger),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
