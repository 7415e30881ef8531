package product

import (
	"context"

	domprod "github.com/kailas-cloud/shopdex/internal/domain/product"
	"github.com/kailas-cloud/shopdex/internal/domain/search/filter"
)

// Repository defines the storage contract for the catalog.
// Get sees inactive products; List and CountMatching consider active ones only.
type Repository interface {
	Save(ctx context.Context, p *domprod.Product) error
	Get(ctx context.Context, id string) (domprod.Product, error)
	List(ctx context.Context, f filter.Filter, offset, limit int) ([]domprod.Product, error)
	CountMatching(ctx context.Context, f filter.Filter) (int, error)
}
