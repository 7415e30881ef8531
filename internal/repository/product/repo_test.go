package product

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/kailas-cloud/shopdex/internal/db"
	"github.com/kailas-cloud/shopdex/internal/domain"
	domprod "github.com/kailas-cloud/shopdex/internal/domain/product"
	"github.com/kailas-cloud/shopdex/internal/domain/search/filter"
)

// --- dto ---

func TestHashFields_RoundTrip(t *testing.T) {
	p := testProduct(t)
	fields, err := buildHashFields(&p)
	if err != nil {
		t.Fatalf("buildHashFields: %v", err)
	}

	if fields[domprod.KeyColor] != "Black" || fields[fieldBrandText] != "Apple" {
		t.Errorf("tag/text mirrors missing: %v", fields)
	}
	if fields[fieldActive] != "true" {
		t.Errorf("is_active = %q", fields[fieldActive])
	}

	got, err := parseHashFields("ignored", fields)
	if err != nil {
		t.Fatalf("parseHashFields: %v", err)
	}
	if got.ID() != "p-1" {
		t.Errorf("ID = %q", got.ID())
	}
	if !reflect.DeepEqual(got.Draft(), p.Draft()) {
		t.Errorf("draft mismatch:\n got %+v\nwant %+v", got.Draft(), p.Draft())
	}
	if got.DiscountPercentage() != p.DiscountPercentage() {
		t.Errorf("discount = %v, want %v", got.DiscountPercentage(), p.DiscountPercentage())
	}
	if !got.CreatedAt().Equal(testNow) || !got.IsActive() {
		t.Errorf("createdAt=%v active=%v", got.CreatedAt(), got.IsActive())
	}
}

func TestHashFields_AbsentAttributesWrittenEmpty(t *testing.T) {
	p, err := domprod.New("p-2", domprod.Draft{Title: "Cable", Description: "USB-C", Price: 299}, testNow)
	if err != nil {
		t.Fatal(err)
	}
	fields, err := buildHashFields(&p)
	if err != nil {
		t.Fatal(err)
	}
	for _, attr := range tagAttributes {
		v, ok := fields[attr]
		if !ok || v != "" {
			t.Errorf("attr %s = %q (present %v), want empty", attr, v, ok)
		}
	}
	if fields[fieldSearchKeywords] != "[]" {
		t.Errorf("keywords = %q", fields[fieldSearchKeywords])
	}
}

func TestParseHashFields_BadMetadata(t *testing.T) {
	_, err := parseHashFields("x", map[string]string{fieldTitle: "t", fieldMetadata: "{not json"})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestParseHashFields_Lenient(t *testing.T) {
	p, err := parseHashFields("x", map[string]string{
		fieldTitle: "t",
		fieldStock: "junk",
		fieldPrice: "12.5",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID() != "x" || p.Stock() != 0 || p.Price() != 12.5 || p.IsActive() {
		t.Errorf("parsed = id %q stock %d price %v active %v", p.ID(), p.Stock(), p.Price(), p.IsActive())
	}
	if !p.CreatedAt().IsZero() {
		t.Errorf("createdAt = %v", p.CreatedAt())
	}
}

// --- index ---

func TestEnsureIndex_Creates(t *testing.T) {
	repo, ms := newTestRepo(t)
	var created *db.IndexDefinition
	ms.createIndexFn = func(_ context.Context, def *db.IndexDefinition) error {
		created = def
		return nil
	}

	if err := repo.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created == nil {
		t.Fatal("index not created")
	}
	if created.Name != "shopdex:products:idx" || created.Prefixes[0] != "shopdex:product:" {
		t.Errorf("def = %s", created.String())
	}
	if got := created.TextFields(); !reflect.DeepEqual(got, textFields) {
		t.Errorf("text fields = %v, want %v", got, textFields)
	}
}

func TestEnsureIndex_ExistsNoop(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.indexExistsFn = func(context.Context, string) (bool, error) { return true, nil }
	ms.createIndexFn = func(context.Context, *db.IndexDefinition) error {
		t.Error("CreateIndex must not be called")
		return nil
	}
	if err := repo.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnsureIndex_RaceTolerated(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.createIndexFn = func(context.Context, *db.IndexDefinition) error { return db.ErrIndexExists }
	if err := repo.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestIndexReady(t *testing.T) {
	repo, ms := newTestRepo(t)
	if err := repo.IndexReady(context.Background()); !errors.Is(err, db.ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
	ms.indexExistsFn = func(context.Context, string) (bool, error) { return true, nil }
	if err := repo.IndexReady(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestReindex(t *testing.T) {
	repo, ms := newTestRepo(t)
	var dropped string
	ms.dropIndexFn = func(_ context.Context, name string) error {
		dropped = name
		return db.ErrIndexNotFound
	}
	created := false
	ms.createIndexFn = func(context.Context, *db.IndexDefinition) error {
		created = true
		return nil
	}
	if err := repo.Reindex(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dropped != "shopdex:products:idx" || !created {
		t.Errorf("dropped=%q created=%v", dropped, created)
	}
}

// --- writes ---

func TestSave(t *testing.T) {
	repo, ms := newTestRepo(t)
	p := testProduct(t)
	ms.hsetFn = func(_ context.Context, key string, fields map[string]string) error {
		if key != "shopdex:product:p-1" {
			t.Errorf("key = %q", key)
		}
		if fields[fieldTitle] != p.Title() {
			t.Errorf("title = %q", fields[fieldTitle])
		}
		return nil
	}
	if err := repo.Save(context.Background(), &p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSave_Error(t *testing.T) {
	repo, ms := newTestRepo(t)
	p := testProduct(t)
	ms.hsetFn = func(context.Context, string, map[string]string) error { return errors.New("OOM") }
	if err := repo.Save(context.Background(), &p); err == nil {
		t.Fatal("expected error")
	}
}

func TestSaveAll(t *testing.T) {
	repo, ms := newTestRepo(t)
	a := testProduct(t)
	b, _ := domprod.New("p-2", domprod.Draft{Title: "Cable", Description: "USB-C", Price: 299}, testNow)

	var keys []string
	ms.hsetMultiFn = func(_ context.Context, items []db.HashSetItem) error {
		for _, it := range items {
			keys = append(keys, it.Key)
		}
		return nil
	}
	if err := repo.SaveAll(context.Background(), []domprod.Product{a, b}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(keys, []string{"shopdex:product:p-1", "shopdex:product:p-2"}) {
		t.Errorf("keys = %v", keys)
	}
}

// --- reads ---

func TestGet(t *testing.T) {
	repo, ms := newTestRepo(t)
	p := testProduct(t)
	fields, _ := buildHashFields(&p)
	ms.hgetAllFn = func(_ context.Context, key string) (map[string]string, error) {
		if key != "shopdex:product:p-1" {
			t.Errorf("key = %q", key)
		}
		return fields, nil
	}

	got, err := repo.Get(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title() != p.Title() {
		t.Errorf("title = %q", got.Title())
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)
	_, err := repo.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestGet_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.hgetAllFn = func(context.Context, string) (map[string]string, error) {
		return nil, &db.Error{Op: db.OpHGetAll, Err: errors.New("timeout")}
	}
	_, err := repo.Get(context.Background(), "p-1")
	if err == nil || errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("expected store error, got %v", err)
	}
}

func TestFindActiveMatching_BuildsQuery(t *testing.T) {
	ms := &mockStore{}
	repo := New(ms, Config{KeyPrefix: "t:", MaxCandidates: 50})
	p := testProduct(t)
	fields, _ := buildHashFields(&p)

	var got *db.Query
	ms.searchFn = func(_ context.Context, q *db.Query) (*db.SearchResult, error) {
		got = q
		return &db.SearchResult{Total: 1, Entries: []db.SearchEntry{{Key: "t:product:p-1", Fields: fields}}}, nil
	}

	color, _ := filter.NewContains(domprod.KeyColor, "black")
	price, _ := filter.NewRange(filter.FieldPrice, filter.Between(50000, 80000))
	f, _ := filter.New("iphone", price, color)

	products, err := repo.FindActiveMatching(context.Background(), f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 1 || products[0].ID() != "p-1" {
		t.Fatalf("products = %v", products)
	}

	if got.IndexName != "t:products:idx" || got.Limit != 50 || got.Offset != 0 {
		t.Errorf("query = %+v", got)
	}
	if got.SortBy != fieldCreatedAt || !got.SortDesc {
		t.Errorf("sort = %s desc=%v", got.SortBy, got.SortDesc)
	}
	if got.Filter.Text() != "iphone" {
		t.Errorf("text = %q", got.Filter.Text())
	}
	conds := got.Filter.Conditions()
	if len(conds) != 3 || conds[0].Key() != fieldActive || conds[0].Value() != "true" {
		t.Errorf("conditions = %+v", conds)
	}
}

func TestFindActiveMatching_UnindexedAttribute(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.searchFn = func(context.Context, *db.Query) (*db.SearchResult, error) {
		t.Error("Search must not be called")
		return nil, nil
	}
	ram, _ := filter.NewMatch(domprod.KeyRAM, "8GB")
	f, _ := filter.New("", ram)

	_, err := repo.FindActiveMatching(context.Background(), f)
	if !errors.Is(err, ErrUnsupportedFilter) {
		t.Errorf("expected ErrUnsupportedFilter, got %v", err)
	}
}

func TestFindActiveMatching_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)
	storeErr := &db.Error{Op: db.OpSearch, Err: errors.New("connection reset")}
	ms.searchFn = func(context.Context, *db.Query) (*db.SearchResult, error) { return nil, storeErr }

	_, err := repo.FindActiveMatching(context.Background(), filter.Filter{})
	if !errors.Is(err, storeErr) {
		t.Errorf("expected wrapped store error, got %v", err)
	}
}

func TestFindActiveSample(t *testing.T) {
	repo, ms := newTestRepo(t)
	var limit int
	ms.searchFn = func(_ context.Context, q *db.Query) (*db.SearchResult, error) {
		limit = q.Limit
		if q.Filter.Text() != "" || len(q.Filter.Conditions()) != 1 {
			t.Errorf("sample filter = %+v", q.Filter)
		}
		return &db.SearchResult{}, nil
	}

	got, err := repo.FindActiveSample(context.Background(), 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if limit != 1000 || got == nil || len(got) != 0 {
		t.Errorf("limit = %d, got = %v", limit, got)
	}

	got, err = repo.FindActiveSample(context.Background(), 0)
	if err != nil || got == nil || len(got) != 0 {
		t.Errorf("zero sample = %v, %v", got, err)
	}
}

func TestList_PassesPage(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.searchFn = func(_ context.Context, q *db.Query) (*db.SearchResult, error) {
		if q.Offset != 40 || q.Limit != 20 {
			t.Errorf("offset/limit = %d/%d", q.Offset, q.Limit)
		}
		return &db.SearchResult{}, nil
	}
	if _, err := repo.List(context.Background(), filter.Filter{}, 40, 20); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCountMatching(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.searchCountFn = func(_ context.Context, q *db.Query) (int, error) {
		if len(q.Filter.Conditions()) != 2 {
			t.Errorf("conditions = %+v", q.Filter.Conditions())
		}
		return 7, nil
	}
	cat, _ := filter.NewMatch(domprod.KeyCategory, "Laptops")
	f, _ := filter.New("", cat)

	n, err := repo.CountMatching(context.Background(), f)
	if err != nil || n != 7 {
		t.Errorf("count = %d, %v", n, err)
	}
}
