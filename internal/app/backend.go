// Package app wires configuration to concrete product storage.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopdex/internal/config"
	dbRedis "github.com/kailas-cloud/shopdex/internal/db/redis"
	domprod "github.com/kailas-cloud/shopdex/internal/domain/product"
	"github.com/kailas-cloud/shopdex/internal/domain/search/filter"
	"github.com/kailas-cloud/shopdex/internal/repository/memory"
	productrepo "github.com/kailas-cloud/shopdex/internal/repository/product"
	healthuc "github.com/kailas-cloud/shopdex/internal/usecase/health"
	seeduc "github.com/kailas-cloud/shopdex/internal/usecase/seed"
)

// ProductStore is everything the services need from product storage.
type ProductStore interface {
	Save(ctx context.Context, p *domprod.Product) error
	SaveAll(ctx context.Context, products []domprod.Product) error
	Get(ctx context.Context, id string) (domprod.Product, error)
	List(ctx context.Context, f filter.Filter, offset, limit int) ([]domprod.Product, error)
	CountMatching(ctx context.Context, f filter.Filter) (int, error)
	FindActiveMatching(ctx context.Context, f filter.Filter) ([]domprod.Product, error)
	FindActiveSample(ctx context.Context, maxCount int) ([]domprod.Product, error)
}

var (
	_ ProductStore = (*memory.Store)(nil)
	_ ProductStore = (*productrepo.Repo)(nil)
)

// Backend is an opened product store with its health probes.
type Backend struct {
	Products  ProductStore
	Pinger    healthuc.DBPinger
	Index     healthuc.IndexChecker // nil for the memory driver
	Reindexer seeduc.Reindexer      // nil for the memory driver
	close     func()
}

// Close releases the store connection.
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// OpenBackend opens the store selected by cfg.Database.Driver. The redis
// driver waits for readiness and ensures the product index exists.
func OpenBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Backend, error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		store := memory.New(cfg.Search.MaxCandidates)
		logger.Info("Using in-memory product store")
		return &Backend{Products: store, Pinger: store}, nil

	case config.DriverRedis:
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("create redis store: %w", err)
		}
		timeout := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, timeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("database not ready: %w", err)
		}
		logger.Info("Connected to database", zap.Strings("addrs", cfg.Database.Addrs))

		repo := productrepo.New(store, productrepo.Config{
			KeyPrefix:     cfg.Storage.KeyPrefix,
			MaxCandidates: cfg.Search.MaxCandidates,
		})
		if err := repo.EnsureIndex(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("ensure product index: %w", err)
		}
		return &Backend{Products: repo, Pinger: store, Index: repo, Reindexer: repo, close: store.Close}, nil

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}
