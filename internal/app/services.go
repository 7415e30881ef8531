package app

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopdex/internal/config"
	"github.com/kailas-cloud/shopdex/internal/domain/search/lexicon"
	"github.com/kailas-cloud/shopdex/internal/domain/search/query"
	"github.com/kailas-cloud/shopdex/internal/domain/search/rank"
	healthuc "github.com/kailas-cloud/shopdex/internal/usecase/health"
	productuc "github.com/kailas-cloud/shopdex/internal/usecase/product"
	searchuc "github.com/kailas-cloud/shopdex/internal/usecase/search"
)

// Services are the use cases served over HTTP.
type Services struct {
	Search  *searchuc.Service
	Catalog *productuc.Service
	Health  *healthuc.Service
}

// LoadLexicon reads the lexicon file, or returns the built-in lexicon when path is empty.
func LoadLexicon(path string) (*lexicon.Lexicon, error) {
	if path == "" {
		return lexicon.Default(), nil
	}
	lex, err := lexicon.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load lexicon %s: %w", path, err)
	}
	return lex, nil
}

// NewServices builds the use cases on top of b.
func NewServices(cfg *config.Config, b *Backend, lex *lexicon.Lexicon, logger *zap.Logger) *Services {
	searchSvc := searchuc.New(
		b.Products,
		query.NewParser(lex).WithStorageAwarePrices(cfg.Search.StorageAwarePrices),
		rank.New(rank.DefaultWeights(), cfg.Search.PriceCap),
		searchuc.Config{
			Retriever: searchuc.RetrieverConfig{
				PriceTolerance:     cfg.Search.PriceTolerance,
				FallbackSampleSize: cfg.Search.FallbackSampleSize,
			},
			DefaultLimit: cfg.Search.DefaultPageSize,
			MaxLimit:     cfg.Search.MaxPageSize,
		},
		logger,
	)
	catalogSvc := productuc.New(b.Products).
		WithPagination(cfg.Search.DefaultPageSize, cfg.Search.MaxPageSize)
	return &Services{
		Search:  searchSvc,
		Catalog: catalogSvc,
		Health:  healthuc.New(b.Pinger, b.Index),
	}
}
