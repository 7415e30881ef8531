package product

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/shopdex/internal/domain"
	domprod "github.com/kailas-cloud/shopdex/internal/domain/product"
	"github.com/kailas-cloud/shopdex/internal/domain/search/filter"
	"github.com/kailas-cloud/shopdex/internal/metrics"
)

// ListFilter narrows a catalog listing. Zero values mean "no constraint".
type ListFilter struct {
	Category string   // exact match
	Brand    string   // case-insensitive substring
	MinPrice *float64 // inclusive
	MaxPrice *float64 // inclusive
}

// Page is one page of a catalog listing.
type Page struct {
	Items []domprod.Product
	Total int
	Page  int
	Limit int
	Pages int
}

// Service handles catalog CRUD and listing.
type Service struct {
	repo            Repository
	newID           func() string
	now             func() time.Time
	defaultPageSize int
	maxPageSize     int
}

// New creates a catalog service.
func New(repo Repository) *Service {
	return &Service{
		repo:            repo,
		newID:           uuid.NewString,
		now:             func() time.Time { return time.Now().UTC() },
		defaultPageSize: 20,
		maxPageSize:     100,
	}
}

// WithPagination configures page size limits.
func (s *Service) WithPagination(defaultPageSize, maxPageSize int) *Service {
	if defaultPageSize > 0 {
		s.defaultPageSize = defaultPageSize
	}
	if maxPageSize > 0 {
		s.maxPageSize = maxPageSize
	}
	return s
}

// Create validates d and stores it as a new active product with a fresh ID.
func (s *Service) Create(ctx context.Context, d domprod.Draft) (p domprod.Product, err error) {
	defer s.observe(metrics.OpCreate, s.now(), &err)

	p, err = domprod.New(s.newID(), d, s.now())
	if err != nil {
		return domprod.Product{}, err
	}
	if err := s.repo.Save(ctx, &p); err != nil {
		return domprod.Product{}, fmt.Errorf("save product: %w", err)
	}
	return p, nil
}

// Get returns a product by ID, including deactivated ones.
func (s *Service) Get(ctx context.Context, id string) (domprod.Product, error) {
	if id == "" {
		return domprod.Product{}, domain.InvalidProductError("product ID is required")
	}
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return domprod.Product{}, fmt.Errorf("get product %s: %w", id, err)
	}
	return p, nil
}

// Update applies a partial update and re-derives the discount.
func (s *Service) Update(ctx context.Context, id string, u domprod.Update) (domprod.Product, error) {
	return s.modify(ctx, metrics.OpUpdate, id, func(p *domprod.Product) (domprod.Product, error) {
		return p.WithUpdate(u, s.now())
	})
}

// UpdateMetadata merges attrs into the product's metadata.
func (s *Service) UpdateMetadata(ctx context.Context, id string, attrs map[string]string) (domprod.Product, error) {
	if len(attrs) == 0 {
		return domprod.Product{}, domain.InvalidProductError("metadata is required")
	}
	return s.modify(ctx, metrics.OpMetadata, id, func(p *domprod.Product) (domprod.Product, error) {
		return p.WithMetadata(attrs, s.now()), nil
	})
}

// Deactivate soft-deletes a product: it stays readable by ID but leaves search and listing.
func (s *Service) Deactivate(ctx context.Context, id string) error {
	_, err := s.modify(ctx, metrics.OpDeactivate, id, func(p *domprod.Product) (domprod.Product, error) {
		return p.Deactivated(s.now()), nil
	})
	return err
}

// List returns one page of active products, newest first. The page and the
// total are fetched concurrently.
func (s *Service) List(ctx context.Context, lf ListFilter, page, limit int) (Page, error) {
	f, err := lf.toFilter()
	if err != nil {
		return Page{}, domain.InvalidProductError("%v", err)
	}

	page = max(page, 1)
	if limit <= 0 {
		limit = s.defaultPageSize
	}
	limit = min(limit, s.maxPageSize)

	var (
		items []domprod.Product
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// (page-1)*limit would overflow; no store holds that many products.
		if page-1 > (math.MaxInt-limit)/limit {
			return nil
		}
		var err error
		items, err = s.repo.List(gctx, f, (page-1)*limit, limit)
		if err != nil {
			return fmt.Errorf("list products: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.CountMatching(gctx, f)
		if err != nil {
			return fmt.Errorf("count products: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Page{}, err
	}

	if items == nil {
		items = []domprod.Product{}
	}
	return Page{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: (total + limit - 1) / limit,
	}, nil
}

func (s *Service) modify(
	ctx context.Context, op, id string, change func(p *domprod.Product) (domprod.Product, error),
) (_ domprod.Product, err error) {
	defer s.observe(op, s.now(), &err)

	current, err := s.Get(ctx, id)
	if err != nil {
		return domprod.Product{}, err
	}
	next, err := change(&current)
	if err != nil {
		return domprod.Product{}, err
	}
	if err := s.repo.Save(ctx, &next); err != nil {
		return domprod.Product{}, fmt.Errorf("save product %s: %w", id, err)
	}
	return next, nil
}

// observe records a write; validation and not-found failures count as errors too.
func (s *Service) observe(op string, start time.Time, err *error) {
	metrics.ObserveCatalogWrite(op, s.now().Sub(start).Seconds(), *err)
}

func (lf ListFilter) toFilter() (filter.Filter, error) {
	var conds []filter.Condition
	if lf.Category != "" {
		c, err := filter.NewMatch(domprod.KeyCategory, lf.Category)
		if err != nil {
			return filter.Filter{}, err
		}
		conds = append(conds, c)
	}
	if lf.Brand != "" {
		c, err := filter.NewContains(domprod.KeyBrand, lf.Brand)
		if err != nil {
			return filter.Filter{}, err
		}
		conds = append(conds, c)
	}
	if lf.MinPrice != nil || lf.MaxPrice != nil {
		r, err := filter.NewRangeFilter(nil, lf.MinPrice, nil, lf.MaxPrice)
		if err != nil {
			return filter.Filter{}, err
		}
		c, err := filter.NewRange(filter.FieldPrice, r)
		if err != nil {
			return filter.Filter{}, err
		}
		conds = append(conds, c)
	}
	return filter.New("", conds...)
}
