package search

import (
	"context"

	"github.com/kailas-cloud/shopdex/internal/domain/product"
	"github.com/kailas-cloud/shopdex/internal/domain/search/filter"
)

// ProductStore is the read contract the search pipeline needs from the catalog.
// Every method considers active products only.
type ProductStore interface {
	FindActiveMatching(ctx context.Context, f filter.Filter) ([]product.Product, error)
	FindActiveSample(ctx context.Context, maxCount int) ([]product.Product, error)
	CountMatching(ctx context.Context, f filter.Filter) (int, error)
}
