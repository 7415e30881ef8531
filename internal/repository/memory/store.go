// Package memory is an in-process product store ordered newest first.
package memory

import (
	"context"
	"sync"

	"github.com/google/btree"

	"github.com/kailas-cloud/shopdex/internal/domain"
	"github.com/kailas-cloud/shopdex/internal/domain/product"
	"github.com/kailas-cloud/shopdex/internal/domain/search/filter"
)

const (
	btreeDegree = 32

	// DefaultMaxCandidates caps FindActiveMatching results.
	DefaultMaxCandidates = 1000
)

// Store keeps products in a B-tree ordered by createdAt desc, then ID.
// It implements usecase/search.ProductStore and usecase/product.Repository.
type Store struct {
	mu            sync.RWMutex
	byID          map[string]product.Product
	ordered       *btree.BTreeG[product.Product]
	maxCandidates int
}

// New creates an empty store. A non-positive maxCandidates selects DefaultMaxCandidates.
func New(maxCandidates int) *Store {
	if maxCandidates <= 0 {
		maxCandidates = DefaultMaxCandidates
	}
	return &Store{
		byID:          make(map[string]product.Product),
		ordered:       btree.NewG(btreeDegree, newerFirst),
		maxCandidates: maxCandidates,
	}
}

func newerFirst(a, b product.Product) bool {
	ca, cb := a.CreatedAt(), b.CreatedAt()
	if !ca.Equal(cb) {
		return ca.After(cb)
	}
	return a.ID() < b.ID()
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Save inserts or replaces a product.
func (s *Store) Save(ctx context.Context, p *product.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(*p)
	return nil
}

// SaveAll inserts or replaces many products under one lock.
func (s *Store) SaveAll(ctx context.Context, products []product.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range products {
		s.put(products[i])
	}
	return nil
}

func (s *Store) put(p product.Product) {
	if old, ok := s.byID[p.ID()]; ok {
		s.ordered.Delete(old)
	}
	s.byID[p.ID()] = p
	s.ordered.ReplaceOrInsert(p)
}

// Get returns a product by ID, active or not.
func (s *Store) Get(ctx context.Context, id string) (product.Product, error) {
	if err := ctx.Err(); err != nil {
		return product.Product{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[id]
	if !ok {
		return product.Product{}, domain.ErrProductNotFound
	}
	return p, nil
}

// List returns one page of active products matching f, newest first.
func (s *Store) List(ctx context.Context, f filter.Filter, offset, limit int) ([]product.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.collect(f, offset, limit), nil
}

// CountMatching counts active products matching f.
func (s *Store) CountMatching(ctx context.Context, f filter.Filter) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	s.ordered.Ascend(func(p product.Product) bool {
		if p.IsActive() && f.Matches(&p) {
			n++
		}
		return true
	})
	return n, nil
}

// FindActiveMatching returns active products matching f, capped at maxCandidates.
func (s *Store) FindActiveMatching(ctx context.Context, f filter.Filter) ([]product.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.collect(f, 0, s.maxCandidates), nil
}

// FindActiveSample returns up to maxCount active products, newest first.
func (s *Store) FindActiveSample(ctx context.Context, maxCount int) ([]product.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.collect(filter.Filter{}, 0, maxCount), nil
}

// Len returns the number of stored products, including inactive ones.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

func (s *Store) collect(f filter.Filter, offset, limit int) []product.Product {
	out := make([]product.Product, 0, min(max(limit, 0), 64))
	if limit <= 0 {
		return out
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	skipped := 0
	s.ordered.Ascend(func(p product.Product) bool {
		if !p.IsActive() || !f.Matches(&p) {
			return true
		}
		if skipped < offset {
			skipped++
			return true
		}
		out = append(out, p)
		return len(out) < limit
	})
	return out
}
