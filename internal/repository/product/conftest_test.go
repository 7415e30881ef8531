package product

import (
	"context"
	"testing"
	"time"

	"github.com/kailas-cloud/shopdex/internal/db"
	domprod "github.com/kailas-cloud/shopdex/internal/domain/product"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetFn        func(ctx context.Context, key string, fields map[string]string) error
	hsetMultiFn   func(ctx context.Context, items []db.HashSetItem) error
	hgetAllFn     func(ctx context.Context, key string) (map[string]string, error)
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	dropIndexFn   func(ctx context.Context, name string) error
	indexExistsFn func(ctx context.Context, name string) (bool, error)
	searchFn      func(ctx context.Context, q *db.Query) (*db.SearchResult, error)
	searchCountFn func(ctx context.Context, q *db.Query) (int, error)
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	return nil
}

func (m *mockStore) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if m.hsetMultiFn != nil {
		return m.hsetMultiFn(ctx, items)
	}
	return nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) DropIndex(ctx context.Context, name string) error {
	if m.dropIndexFn != nil {
		return m.dropIndexFn(ctx, name)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func (m *mockStore) Search(ctx context.Context, q *db.Query) (*db.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) SearchCount(ctx context.Context, q *db.Query) (int, error) {
	if m.searchCountFn != nil {
		return m.searchCountFn(ctx, q)
	}
	return 0, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, Config{}), ms
}

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func testProduct(t *testing.T) domprod.Product {
	t.Helper()
	p, err := domprod.New("p-1", domprod.Draft{
		Title:          "Apple iPhone 16 (Black, 128GB)",
		Description:    "A18 chip, 48MP camera",
		Rating:         4.5,
		ReviewCount:    1200,
		Stock:          40,
		Price:          69900,
		MRP:            79900,
		UnitsSold:      5000,
		SalesVelocity:  12.5,
		ReturnRate:     2,
		ComplaintCount: 3,
		Metadata: map[string]string{
			domprod.KeyBrand:    "Apple",
			domprod.KeyModel:    "iPhone 16",
			domprod.KeyColor:    "Black",
			domprod.KeyStorage:  "128GB",
			domprod.KeyCategory: "Mobile Phones",
			domprod.KeyRAM:      "6GB",
		},
		SearchKeywords: []string{"iphone", "apple phone"},
	}, testNow)
	if err != nil {
		t.Fatalf("product.New: %v", err)
	}
	return p
}
