package product

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/kailas-cloud/shopdex/internal/db"
	"github.com/kailas-cloud/shopdex/internal/domain"
	domprod "github.com/kailas-cloud/shopdex/internal/domain/product"
	"github.com/kailas-cloud/shopdex/internal/domain/search/filter"
)

// Defaults applied by New for zero config values.
const (
	DefaultKeyPrefix     = "shopdex:"
	DefaultMaxCandidates = 1000
)

// ErrUnsupportedFilter signals a condition on an attribute the index does not cover.
var ErrUnsupportedFilter = domain.ErrUnsupportedFilter

// store is the consumer interface for products (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
	Search(ctx context.Context, q *db.Query) (*db.SearchResult, error)
	SearchCount(ctx context.Context, q *db.Query) (int, error)
}

// Config tunes the repository.
type Config struct {
	KeyPrefix     string
	MaxCandidates int // cap on FindActiveMatching results
}

// Repo stores products as Redis hashes under one FT index. It implements
// usecase/search.ProductStore and usecase/product.Repository.
type Repo struct {
	store         store
	prefix        string
	maxCandidates int
}

// New creates a product repository.
func New(s store, cfg Config) *Repo {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultKeyPrefix
	}
	if cfg.MaxCandidates <= 0 {
		cfg.MaxCandidates = DefaultMaxCandidates
	}
	return &Repo{store: s, prefix: cfg.KeyPrefix, maxCandidates: cfg.MaxCandidates}
}

// EnsureIndex creates the product index when it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	name := r.indexName()
	exists, err := r.store.IndexExists(ctx, name)
	if err != nil {
		return fmt.Errorf("check index %s: %w", name, err)
	}
	if exists {
		return nil
	}
	if err := r.store.CreateIndex(ctx, buildIndex(name, r.keyPrefix())); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index %s: %w", name, err)
	}
	return nil
}

// IndexReady returns db.ErrIndexNotFound when the product index is absent.
func (r *Repo) IndexReady(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, r.indexName())
	if err != nil {
		return err
	}
	if !exists {
		return db.ErrIndexNotFound
	}
	return nil
}

// Reindex drops the index (keeping the hashes) and recreates it so existing
// products are indexed under the current schema.
func (r *Repo) Reindex(ctx context.Context) error {
	name := r.indexName()
	if err := r.store.DropIndex(ctx, name); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
		return fmt.Errorf("drop index %s: %w", name, err)
	}
	return r.EnsureIndex(ctx)
}

// Save writes the full product hash.
func (r *Repo) Save(ctx context.Context, p *domprod.Product) error {
	fields, err := buildHashFields(p)
	if err != nil {
		return err
	}
	key := r.key(p.ID())
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

// SaveAll writes many products in one pipelined round-trip.
func (r *Repo) SaveAll(ctx context.Context, products []domprod.Product) error {
	items := make([]db.HashSetItem, 0, len(products))
	for i := range products {
		fields, err := buildHashFields(&products[i])
		if err != nil {
			return err
		}
		items = append(items, db.HashSetItem{Key: r.key(products[i].ID()), Fields: fields})
	}
	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("hset %d products: %w", len(items), err)
	}
	return nil
}

// Get returns a product by ID, active or not.
func (r *Repo) Get(ctx context.Context, id string) (domprod.Product, error) {
	key := r.key(id)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domprod.Product{}, domain.ErrProductNotFound
		}
		return domprod.Product{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	return parseHashFields(id, m)
}

// List returns one page of active products matching f, newest first.
func (r *Repo) List(ctx context.Context, f filter.Filter, offset, limit int) ([]domprod.Product, error) {
	return r.search(ctx, f, offset, limit)
}

// CountMatching counts active products matching f.
func (r *Repo) CountMatching(ctx context.Context, f filter.Filter) (int, error) {
	q, err := r.query(f, 0, 0)
	if err != nil {
		return 0, err
	}
	n, err := r.store.SearchCount(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// FindActiveMatching returns active products matching f, capped at MaxCandidates.
func (r *Repo) FindActiveMatching(ctx context.Context, f filter.Filter) ([]domprod.Product, error) {
	return r.search(ctx, f, 0, r.maxCandidates)
}

// FindActiveSample returns up to maxCount active products, newest first.
func (r *Repo) FindActiveSample(ctx context.Context, maxCount int) ([]domprod.Product, error) {
	if maxCount <= 0 {
		return []domprod.Product{}, nil
	}
	return r.search(ctx, filter.Filter{}, 0, maxCount)
}

func (r *Repo) search(ctx context.Context, f filter.Filter, offset, limit int) ([]domprod.Product, error) {
	q, err := r.query(f, offset, limit)
	if err != nil {
		return nil, err
	}
	q.SortBy = fieldCreatedAt
	q.SortDesc = true

	res, err := r.store.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}

	out := make([]domprod.Product, 0, len(res.Entries))
	for _, e := range res.Entries {
		p, err := parseHashFields(strings.TrimPrefix(e.Key, r.keyPrefix()), e.Fields)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// query validates f against the index and adds the active-only clause.
func (r *Repo) query(f filter.Filter, offset, limit int) (*db.Query, error) {
	for _, c := range f.Conditions() {
		if c.IsRange() {
			continue
		}
		if !slices.Contains(tagAttributes, c.Key()) {
			return nil, fmt.Errorf("%w: attribute %q", ErrUnsupportedFilter, c.Key())
		}
	}

	active, err := filter.NewMatch(fieldActive, strconv.FormatBool(true))
	if err != nil {
		return nil, err
	}
	conds := append([]filter.Condition{active}, f.Conditions()...)
	withActive, err := filter.New(f.Text(), conds...)
	if err != nil {
		return nil, err
	}

	return &db.Query{
		IndexName:  r.indexName(),
		Filter:     withActive,
		TextFields: textFields,
		Offset:     offset,
		Limit:      limit,
	}, nil
}

func (r *Repo) keyPrefix() string { return r.prefix + "product:" }

func (r *Repo) key(id string) string { return r.keyPrefix() + id }

func (r *Repo) indexName() string { return r.prefix + "products:idx" }
