package chi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopdex/internal/domain"
)

// Error codes returned in the "code" field of error responses.
const (
	CodeBadRequest        = "bad_request"
	CodeUnauthorized      = "unauthorized"
	CodeInvalidQuery      = "invalid_query"
	CodeValidationFailed  = "validation_failed"
	CodeUnsupportedFilter = "unsupported_filter"
	CodeProductNotFound   = "product_not_found"
	CodeStoreUnavailable  = "store_unavailable"
	CodeInternalError     = "internal_error"
)

// errorResponse is the failure envelope.
type errorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Error   string `json:"error"`
}

// errorMapping maps a domain sentinel to a transport status. Order matters:
// the first matching sentinel wins.
type errorMapping struct {
	sentinel error
	status   int
	code     string
	// detail exposes the full error text; otherwise only the sentinel text is sent.
	detail bool
}

var errorTable = []errorMapping{
	{domain.ErrInvalidQuery, http.StatusBadRequest, CodeInvalidQuery, true},
	{domain.ErrInvalidProduct, http.StatusBadRequest, CodeValidationFailed, true},
	{domain.ErrUnsupportedFilter, http.StatusBadRequest, CodeUnsupportedFilter, false},
	{domain.ErrProductNotFound, http.StatusNotFound, CodeProductNotFound, false},
	{domain.ErrRetrieval, http.StatusServiceUnavailable, CodeStoreUnavailable, false},
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Error: message})
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	for _, m := range errorTable {
		if !errors.Is(err, m.sentinel) {
			continue
		}
		msg := m.sentinel.Error()
		if m.detail {
			msg = err.Error()
		}
		if m.status >= http.StatusInternalServerError {
			s.logger.Error("store error", zap.Error(err))
		} else {
			s.logger.Warn("domain error", zap.Error(err))
		}
		writeError(w, m.status, m.code, msg)
		return
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
