package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/shopdex/internal/domain"
	domprod "github.com/kailas-cloud/shopdex/internal/domain/product"
	"github.com/kailas-cloud/shopdex/internal/domain/search/query"
	"github.com/kailas-cloud/shopdex/internal/domain/search/result"
	"github.com/kailas-cloud/shopdex/internal/metrics"
	healthuc "github.com/kailas-cloud/shopdex/internal/usecase/health"
	productuc "github.com/kailas-cloud/shopdex/internal/usecase/product"
	searchuc "github.com/kailas-cloud/shopdex/internal/usecase/search"
)

type fakeSearcher struct {
	resp     *searchuc.Response
	err      error
	gotQuery string
	gotOpts  searchuc.Options
}

func (f *fakeSearcher) Search(_ context.Context, rawQuery string, opts searchuc.Options) (*searchuc.Response, error) {
	f.gotQuery, f.gotOpts = rawQuery, opts
	return f.resp, f.err
}

type fakeCatalog struct {
	createFn   func(d domprod.Draft) (domprod.Product, error)
	getFn      func(id string) (domprod.Product, error)
	updateFn   func(id string, u domprod.Update) (domprod.Product, error)
	metadataFn func(id string, attrs map[string]string) (domprod.Product, error)
	deactivate func(id string) error
	listFn     func(lf productuc.ListFilter, page, limit int) (productuc.Page, error)
}

func (f *fakeCatalog) Create(_ context.Context, d domprod.Draft) (domprod.Product, error) {
	return f.createFn(d)
}

func (f *fakeCatalog) Get(_ context.Context, id string) (domprod.Product, error) { return f.getFn(id) }

func (f *fakeCatalog) Update(_ context.Context, id string, u domprod.Update) (domprod.Product, error) {
	return f.updateFn(id, u)
}

func (f *fakeCatalog) UpdateMetadata(_ context.Context, id string, attrs map[string]string) (domprod.Product, error) {
	return f.metadataFn(id, attrs)
}

func (f *fakeCatalog) Deactivate(_ context.Context, id string) error { return f.deactivate(id) }

func (f *fakeCatalog) List(_ context.Context, lf productuc.ListFilter, page, limit int) (productuc.Page, error) {
	return f.listFn(lf, page, limit)
}

type fakeHealth struct{ report healthuc.Report }

func (f fakeHealth) Check(context.Context) healthuc.Report { return f.report }

func testProduct(t *testing.T) domprod.Product {
	t.Helper()
	p, err := domprod.New("p-1", domprod.Draft{
		Title:       "Apple iPhone 15 (Blue, 128GB)",
		Description: "A16 Bionic",
		Price:       65000,
		MRP:         69900,
		Stock:       5,
		Metadata:    map[string]string{domprod.KeyBrand: "Apple", domprod.KeyColor: "Blue"},
	}, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func newTestRouter(s Searcher, c Catalog, h HealthChecker, keys ...string) http.Handler {
	return NewRouter(NewServer(s, c, h, nil), keys, zap.NewNop())
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var out map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("%s %s: decode %q: %v", method, target, rr.Body.String(), err)
	}
	return rr, out
}

func TestSearchProducts(t *testing.T) {
	p := testProduct(t)
	s := &fakeSearcher{resp: &searchuc.Response{
		Data: []result.Scored{result.New(p, 1.25)},
		Metadata: searchuc.Metadata{
			TotalResults: 1, Page: 2, Limit: 5, ProcessingTimeMs: 3,
			Query: query.ParsedQuery{OriginalQuery: "iphone", CleanedText: "iphone", Tokens: []string{"iphone"}},
		},
	}}
	h := newTestRouter(s, &fakeCatalog{}, fakeHealth{})

	rr, body := do(t, h, http.MethodGet, "/api/v1/search/product?query=iphone&page=2&limit=5", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %v", rr.Code, body)
	}
	if s.gotQuery != "iphone" || s.gotOpts.Page != 2 || s.gotOpts.Limit != 5 {
		t.Errorf("forwarded %q %+v", s.gotQuery, s.gotOpts)
	}
	if body["success"] != true {
		t.Errorf("success = %v", body["success"])
	}
	data := body["data"].([]any)
	item := data[0].(map[string]any)
	if item["_score"] != 1.25 || item["id"] != "p-1" || item["availability"] != "LOW_STOCK" {
		t.Errorf("item = %v", item)
	}
	meta := body["metadata"].(map[string]any)
	if meta["totalResults"] != float64(1) || meta["query"].(map[string]any)["cleanedText"] != "iphone" {
		t.Errorf("metadata = %v", meta)
	}
}

func TestSearchProducts_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		status int
		code   string
	}{
		{"bad page", "/api/v1/search/product?query=x&page=two", nil, http.StatusBadRequest, CodeBadRequest},
		{"bad limit", "/api/v1/search/product?query=x&limit=1.5", nil, http.StatusBadRequest, CodeBadRequest},
		{"blank query", "/api/v1/search/product", fmt.Errorf("%w: query is required", domain.ErrInvalidQuery),
			http.StatusBadRequest, CodeInvalidQuery},
		{"store down", "/api/v1/search/product?query=x",
			domain.NewRetrievalError("find matching", errors.New("conn refused")),
			http.StatusServiceUnavailable, CodeStoreUnavailable},
		{"unsupported filter", "/api/v1/search/product?query=x",
			domain.NewRetrievalError("find matching", fmt.Errorf("%w: attribute %q", domain.ErrUnsupportedFilter, "ram")),
			http.StatusBadRequest, CodeUnsupportedFilter},
		{"unexpected", "/api/v1/search/product?query=x", errors.New("boom"),
			http.StatusInternalServerError, CodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRouter(&fakeSearcher{err: tt.err}, &fakeCatalog{}, fakeHealth{})
			rr, body := do(t, h, http.MethodGet, tt.target, "")
			if rr.Code != tt.status || body["code"] != tt.code || body["success"] != false {
				t.Errorf("got %d %v, want %d %s", rr.Code, body, tt.status, tt.code)
			}
		})
	}
}

func TestSearchProducts_StoreErrorHidesDetail(t *testing.T) {
	h := newTestRouter(&fakeSearcher{
		err: domain.NewRetrievalError("find matching", errors.New("dial tcp 10.0.0.1:6379")),
	}, &fakeCatalog{}, fakeHealth{})
	_, body := do(t, h, http.MethodGet, "/api/v1/search/product?query=x", "")
	if strings.Contains(body["error"].(string), "10.0.0.1") {
		t.Errorf("internal detail leaked: %v", body["error"])
	}
}

func TestListProducts(t *testing.T) {
	p := testProduct(t)
	var gotFilter productuc.ListFilter
	var gotPage, gotLimit int
	c := &fakeCatalog{listFn: func(lf productuc.ListFilter, page, limit int) (productuc.Page, error) {
		gotFilter, gotPage, gotLimit = lf, page, limit
		return productuc.Page{Items: []domprod.Product{p}, Total: 41, Page: 3, Limit: 20, Pages: 3}, nil
	}}
	h := newTestRouter(&fakeSearcher{}, c, fakeHealth{})

	rr, body := do(t, h, http.MethodGet,
		"/api/v1/products?page=3&category=Mobile%20Phone&brand=app&minPrice=1000&maxPrice=70000.5", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %v", rr.Code, body)
	}
	if gotPage != 3 || gotLimit != 0 {
		t.Errorf("page/limit = %d/%d", gotPage, gotLimit)
	}
	if gotFilter.Category != "Mobile Phone" || gotFilter.Brand != "app" ||
		gotFilter.MinPrice == nil || *gotFilter.MinPrice != 1000 ||
		gotFilter.MaxPrice == nil || *gotFilter.MaxPrice != 70000.5 {
		t.Errorf("filter = %+v", gotFilter)
	}
	pg := body["pagination"].(map[string]any)
	if pg["total"] != float64(41) || pg["pages"] != float64(3) {
		t.Errorf("pagination = %v", pg)
	}
	if len(body["data"].([]any)) != 1 {
		t.Errorf("data = %v", body["data"])
	}
}

func TestListProducts_NoPriceBounds(t *testing.T) {
	var gotFilter productuc.ListFilter
	c := &fakeCatalog{listFn: func(lf productuc.ListFilter, _, _ int) (productuc.Page, error) {
		gotFilter = lf
		return productuc.Page{Items: []domprod.Product{}}, nil
	}}
	h := newTestRouter(&fakeSearcher{}, c, fakeHealth{})

	rr, body := do(t, h, http.MethodGet, "/api/v1/products", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if gotFilter.MinPrice != nil || gotFilter.MaxPrice != nil {
		t.Errorf("filter = %+v", gotFilter)
	}
	if data, ok := body["data"].([]any); !ok || len(data) != 0 {
		t.Errorf("data must be an empty array, got %v", body["data"])
	}

	rr, _ = do(t, h, http.MethodGet, "/api/v1/products?minPrice=cheap", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad minPrice status = %d", rr.Code)
	}
}

func TestCreateProduct(t *testing.T) {
	var got domprod.Draft
	c := &fakeCatalog{createFn: func(d domprod.Draft) (domprod.Product, error) {
		got = d
		return testProduct(t), nil
	}}
	h := newTestRouter(&fakeSearcher{}, c, fakeHealth{})

	rr, body := do(t, h, http.MethodPost, "/api/v1/product",
		`{"title":"T","description":"D","price":100,"stock":0,"metadata":{"brand":"Boat"}}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d: %v", rr.Code, body)
	}
	if body["productId"] != "p-1" || body["success"] != true {
		t.Errorf("body = %v", body)
	}
	if got.Title != "T" || got.Price != 100 || got.Stock != 0 || got.Metadata["brand"] != "Boat" {
		t.Errorf("draft = %+v", got)
	}
}

func TestCreateProduct_Validation(t *testing.T) {
	c := &fakeCatalog{createFn: func(domprod.Draft) (domprod.Product, error) {
		return domprod.Product{}, domain.InvalidProductError("price must be positive")
	}}
	h := newTestRouter(&fakeSearcher{}, c, fakeHealth{})

	rr, body := do(t, h, http.MethodPost, "/api/v1/product", `{"title":"T","description":"D","price":100}`)
	if rr.Code != http.StatusBadRequest || body["code"] != CodeValidationFailed {
		t.Errorf("missing stock: %d %v", rr.Code, body)
	}

	rr, body = do(t, h, http.MethodPost, "/api/v1/product", `{"title":"T","description":"D","price":-1,"stock":1}`)
	if rr.Code != http.StatusBadRequest || !strings.Contains(body["error"].(string), "price must be positive") {
		t.Errorf("domain validation: %d %v", rr.Code, body)
	}

	rr, body = do(t, h, http.MethodPost, "/api/v1/product", `{not json`)
	if rr.Code != http.StatusBadRequest || body["code"] != CodeBadRequest {
		t.Errorf("bad json: %d %v", rr.Code, body)
	}
}

func TestUpdateMetadata_RouteBeforeID(t *testing.T) {
	p := testProduct(t)
	var gotID string
	c := &fakeCatalog{
		metadataFn: func(id string, attrs map[string]string) (domprod.Product, error) {
			gotID = id
			return p.WithMetadata(attrs, p.UpdatedAt()), nil
		},
		updateFn: func(string, domprod.Update) (domprod.Product, error) {
			t.Fatal("meta-data must not route to UpdateProduct")
			return domprod.Product{}, nil
		},
	}
	h := newTestRouter(&fakeSearcher{}, c, fakeHealth{})

	rr, body := do(t, h, http.MethodPut, "/api/v1/product/meta-data", `{"productId":"p-1","metadata":{"ram":"6GB"}}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %v", rr.Code, body)
	}
	if gotID != "p-1" || body["metadata"].(map[string]any)["ram"] != "6GB" {
		t.Errorf("id=%q body=%v", gotID, body)
	}

	rr, _ = do(t, h, http.MethodPut, "/api/v1/product/meta-data", `{"metadata":{"ram":"6GB"}}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("missing productId status = %d", rr.Code)
	}
}

func TestGetUpdateDeleteProduct(t *testing.T) {
	p := testProduct(t)
	var gotUpdate domprod.Update
	c := &fakeCatalog{
		getFn: func(id string) (domprod.Product, error) {
			if id != "p-1" {
				return domprod.Product{}, fmt.Errorf("get product %s: %w", id, domain.ErrProductNotFound)
			}
			return p, nil
		},
		updateFn: func(_ string, u domprod.Update) (domprod.Product, error) {
			gotUpdate = u
			return p, nil
		},
		deactivate: func(id string) error {
			if id != "p-1" {
				return domain.ErrProductNotFound
			}
			return nil
		},
	}
	h := newTestRouter(&fakeSearcher{}, c, fakeHealth{})

	rr, body := do(t, h, http.MethodGet, "/api/v1/product/p-1", "")
	if rr.Code != http.StatusOK || body["data"].(map[string]any)["title"] != p.Title() {
		t.Errorf("get: %d %v", rr.Code, body)
	}
	rr, body = do(t, h, http.MethodGet, "/api/v1/product/nope", "")
	if rr.Code != http.StatusNotFound || body["code"] != CodeProductNotFound {
		t.Errorf("get missing: %d %v", rr.Code, body)
	}

	rr, _ = do(t, h, http.MethodPut, "/api/v1/product/p-1", `{"price":60000,"isActive":true}`)
	if rr.Code != http.StatusOK {
		t.Errorf("update status = %d", rr.Code)
	}
	if gotUpdate.Price == nil || *gotUpdate.Price != 60000 || gotUpdate.Title != nil ||
		gotUpdate.IsActive == nil || !*gotUpdate.IsActive {
		t.Errorf("update = %+v", gotUpdate)
	}

	rr, body = do(t, h, http.MethodDelete, "/api/v1/product/p-1", "")
	if rr.Code != http.StatusOK || body["message"] != "Product deactivated successfully" {
		t.Errorf("delete: %d %v", rr.Code, body)
	}
	rr, _ = do(t, h, http.MethodDelete, "/api/v1/product/nope", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("delete missing status = %d", rr.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		report healthuc.Report
		status int
	}{
		{healthuc.Report{Status: healthuc.Healthy, Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckOK}}, http.StatusOK},
		{healthuc.Report{Status: healthuc.Degraded, Checks: map[string]healthuc.CheckResult{"search_index": healthuc.CheckError}}, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		h := newTestRouter(&fakeSearcher{}, &fakeCatalog{}, fakeHealth{report: tt.report}, "secret")
		rr, body := do(t, h, http.MethodGet, "/health", "")
		if rr.Code != tt.status || body["status"] != string(tt.report.Status) {
			t.Errorf("health %s: %d %v", tt.report.Status, rr.Code, body)
		}
	}
}

func TestRouter_AuthAndRequestID(t *testing.T) {
	h := newTestRouter(&fakeSearcher{}, &fakeCatalog{}, fakeHealth{}, "secret")

	rr, body := do(t, h, http.MethodGet, "/api/v1/search/product?query=x", "")
	if rr.Code != http.StatusUnauthorized || body["code"] != CodeUnauthorized {
		t.Errorf("unauthenticated: %d %v", rr.Code, body)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}

	rr, _ = do(t, h, http.MethodGet, "/api/v1/unknown", "")
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("auth runs before routing, got %d", rr.Code)
	}
}

func TestRouter_MetricsByRoutePattern(t *testing.T) {
	p := testProduct(t)
	c := &fakeCatalog{getFn: func(id string) (domprod.Product, error) {
		if id != "p-1" {
			return domprod.Product{}, domain.ErrProductNotFound
		}
		return p, nil
	}}
	s := &fakeSearcher{resp: &searchuc.Response{Data: []result.Scored{}}}
	h := newTestRouter(s, c, fakeHealth{report: healthuc.Report{Status: healthuc.Healthy}})

	tests := []struct {
		method, target string
		route, status  string
	}{
		{http.MethodGet, "/api/v1/product/p-1", "/api/v1/product/{id}", "200"},
		{http.MethodGet, "/api/v1/product/p-2", "/api/v1/product/{id}", "404"},
		{http.MethodGet, "/api/v1/search/product?query=iphone", "/api/v1/search/product", "200"},
		{http.MethodGet, "/health", "/health", "200"},
		{http.MethodGet, "/nope", metrics.RouteUnmatched, "404"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			counter := metrics.HTTPRequestsTotal.WithLabelValues(tt.method, tt.route, tt.status)
			before := testutil.ToFloat64(counter)

			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.target, http.NoBody))

			if got := testutil.ToFloat64(counter) - before; got != 1 {
				t.Errorf("requests_total{route=%q,status=%q} delta = %v (response %d)", tt.route, tt.status, got, rr.Code)
			}
		})
	}
}

func TestRouter_NotFound(t *testing.T) {
	h := newTestRouter(&fakeSearcher{}, &fakeCatalog{}, fakeHealth{})
	rr, body := do(t, h, http.MethodGet, "/api/v1/unknown", "")
	if rr.Code != http.StatusNotFound || body["success"] != false {
		t.Errorf("not found: %d %v", rr.Code, body)
	}
}

func TestJSONRecoverer(t *testing.T) {
	c := &fakeCatalog{getFn: func(string) (domprod.Product, error) { panic("nil map") }}
	h := newTestRouter(&fakeSearcher{}, c, fakeHealth{})

	rr, body := do(t, h, http.MethodGet, "/api/v1/product/p-1", "")
	if rr.Code != http.StatusInternalServerError || body["code"] != CodeInternalError {
		t.Errorf("panic: %d %v", rr.Code, body)
	}
}
