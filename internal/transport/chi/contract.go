package chi

import (
	"context"

	domprod "github.com/kailas-cloud/shopdex/internal/domain/product"
	healthuc "github.com/kailas-cloud/shopdex/internal/usecase/health"
	productuc "github.com/kailas-cloud/shopdex/internal/usecase/product"
	searchuc "github.com/kailas-cloud/shopdex/internal/usecase/search"
)

// Searcher runs catalog searches.
type Searcher interface {
	Search(ctx context.Context, rawQuery string, opts searchuc.Options) (*searchuc.Response, error)
}

// Catalog manages products.
type Catalog interface {
	Create(ctx context.Context, d domprod.Draft) (domprod.Product, error)
	Get(ctx context.Context, id string) (domprod.Product, error)
	Update(ctx context.Context, id string, u domprod.Update) (domprod.Product, error)
	UpdateMetadata(ctx context.Context, id string, attrs map[string]string) (domprod.Product, error)
	Deactivate(ctx context.Context, id string) error
	List(ctx context.Context, lf productuc.ListFilter, page, limit int) (productuc.Page, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
