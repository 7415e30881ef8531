package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	healthuc "github.com/kailas-cloud/shopdex/internal/usecase/health"
	productuc "github.com/kailas-cloud/shopdex/internal/usecase/product"
	searchuc "github.com/kailas-cloud/shopdex/internal/usecase/search"
)

const maxBodyBytes = 1 << 20

// Server serves the catalog and search HTTP API.
type Server struct {
	search  Searcher
	catalog Catalog
	health  HealthChecker
	logger  *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(search Searcher, catalog Catalog, health HealthChecker, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{search: search, catalog: catalog, health: health, logger: logger}
}

// Routes mounts the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/search/product", s.SearchProducts)
		r.Get("/products", s.ListProducts)
		r.Post("/product", s.CreateProduct)
		// registered before /product/{id} so "meta-data" is never read as an ID
		r.Put("/product/meta-data", s.UpdateMetadata)
		r.Get("/product/{id}", s.GetProduct)
		r.Put("/product/{id}", s.UpdateProduct)
		r.Delete("/product/{id}", s.DeleteProduct)
	})
}

// SearchProducts handles GET /api/v1/search/product.
func (s *Server) SearchProducts(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	var page, limit *int
	if err := runtime.BindQueryParameter("form", true, false, "page", params, &page); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid page parameter")
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", params, &limit); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid limit parameter")
		return
	}

	resp, err := s.search.Search(r.Context(), params.Get("query"), searchuc.Options{
		Page:  deref(page),
		Limit: deref(limit),
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, searchToJSON(resp))
}

// ListProducts handles GET /api/v1/products.
func (s *Server) ListProducts(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	var (
		page, limit        *int
		minPrice, maxPrice *float64
	)
	bindings := []struct {
		name string
		dest any
	}{{"page", &page}, {"limit", &limit}, {"minPrice", &minPrice}, {"maxPrice", &maxPrice}}
	for _, b := range bindings {
		if err := runtime.BindQueryParameter("form", true, false, b.name, params, b.dest); err != nil {
			writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid "+b.name+" parameter")
			return
		}
	}

	p, err := s.catalog.List(r.Context(), productuc.ListFilter{
		Category: params.Get("category"),
		Brand:    params.Get("brand"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
	}, deref(page), deref(limit))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pageToJSON(&p))
}

// CreateProduct handles POST /api/v1/product.
func (s *Server) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.missingRequired() {
		writeError(w, http.StatusBadRequest, CodeValidationFailed,
			"Missing required fields: title, description, price, stock")
		return
	}

	p, err := s.catalog.Create(r.Context(), req.toDraft())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createResponse{
		Success:   true,
		ProductID: p.ID(),
		Message:   "Product created successfully",
	})
}

// UpdateMetadata handles PUT /api/v1/product/meta-data.
func (s *Server) UpdateMetadata(w http.ResponseWriter, r *http.Request) {
	var req metadataRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "Product ID is required")
		return
	}

	p, err := s.catalog.UpdateMetadata(r.Context(), req.ProductID, req.Metadata)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, metadataResponse{Success: true, ProductID: p.ID(), Metadata: p.Metadata()})
}

// GetProduct handles GET /api/v1/product/{id}.
func (s *Server) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := s.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, productResponse{Success: true, Data: productToJSON(&p)})
}

// UpdateProduct handles PUT /api/v1/product/{id}.
func (s *Server) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !s.decode(w, r, &req) {
		return
	}

	p, err := s.catalog.Update(r.Context(), chi.URLParam(r, "id"), req.toUpdate())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, productResponse{Success: true, Data: productToJSON(&p)})
}

// DeleteProduct handles DELETE /api/v1/product/{id}. Products are deactivated, not removed.
func (s *Server) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.Deactivate(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Product deactivated successfully"})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, healthResponse{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// decode reads a JSON body into v, writing a 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, CodeBadRequest, "request body too large")
		return false
	}
	writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
