// Package seed loads the demo electronics catalog into a product store.
package seed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	domprod "github.com/kailas-cloud/shopdex/internal/domain/product"
	"github.com/kailas-cloud/shopdex/internal/metrics"
)

// Defaults applied by New for zero config values.
const (
	DefaultBatchSize = 100
	DefaultWorkers   = 4
)

// namespace scopes the name-based product IDs, so reseeding overwrites
// products instead of duplicating them.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://shopdex/seed"))

// Writer persists products in bulk.
type Writer interface {
	SaveAll(ctx context.Context, products []domprod.Product) error
}

// Reindexer rebuilds the search index after a bulk load.
type Reindexer interface {
	Reindex(ctx context.Context) error
}

// Config tunes a seed run.
type Config struct {
	Seed      uint64 // PRNG seed
	BatchSize int
	Workers   int
	Reindex   bool
}

// Result summarizes a seed run.
type Result struct {
	Generated  int
	Written    int64
	ByCategory map[string]int
	Duration   time.Duration
}

// Service generates the demo catalog and writes it in batches.
type Service struct {
	writer    Writer
	reindexer Reindexer // nil when the store has no index to rebuild
	cfg       Config
	logger    *zap.Logger
	now       func() time.Time
}

// New creates a seed service. reindexer may be nil.
func New(w Writer, reindexer Reindexer, cfg Config, logger *zap.Logger) *Service {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		writer:    w,
		reindexer: reindexer,
		cfg:       cfg,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Products builds the catalog as active products. The first product is the
// newest; each following one is a second older.
func (s *Service) Products() ([]domprod.Product, error) {
	drafts := Generate(rand.New(rand.NewPCG(s.cfg.Seed, s.cfg.Seed)))
	now := s.now()
	out := make([]domprod.Product, 0, len(drafts))
	for i, d := range drafts {
		id := uuid.NewSHA1(namespace, []byte(d.Title)).String()
		p, err := domprod.New(id, d, now.Add(-time.Duration(i)*time.Second))
		if err != nil {
			return nil, fmt.Errorf("seed product %q: %w", d.Title, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// Run writes the catalog with up to Workers concurrent batches, then
// optionally rebuilds the index.
func (s *Service) Run(ctx context.Context) (Result, error) {
	start := s.now()
	products, err := s.Products()
	if err != nil {
		return Result{}, err
	}

	res := Result{Generated: len(products), ByCategory: make(map[string]int)}
	for i := range products {
		res.ByCategory[products[i].Attr(domprod.KeyCategory)]++
	}

	var written atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for lo := 0; lo < len(products); lo += s.cfg.BatchSize {
		batch := products[lo:min(lo+s.cfg.BatchSize, len(products))]
		g.Go(func() error {
			batchStart := s.now()
			err := s.writer.SaveAll(gctx, batch)
			metrics.ObserveCatalogWrite(metrics.OpSeed, s.now().Sub(batchStart).Seconds(), err)
			if err != nil {
				return fmt.Errorf("write batch at %d: %w", lo, err)
			}
			written.Add(int64(len(batch)))
			for i := range batch {
				metrics.SeedProductsTotal.WithLabelValues(batch[i].Attr(domprod.KeyCategory)).Inc()
			}
			return nil
		})
	}
	err = g.Wait()
	res.Written = written.Load()
	if err != nil {
		return res, err
	}

	if s.cfg.Reindex && s.reindexer != nil {
		if err := s.reindexer.Reindex(ctx); err != nil {
			return res, fmt.Errorf("reindex: %w", err)
		}
	}

	res.Duration = s.now().Sub(start)
	s.logger.Info("catalog seeded",
		zap.Int("generated", res.Generated),
		zap.Int64("written", res.Written),
		zap.Any("by_category", res.ByCategory),
		zap.Duration("duration", res.Duration),
	)
	return res, nil
}
