package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuery signals an empty or missing search query.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrRetrieval signals that the product store could not serve a request.
	ErrRetrieval = errors.New("retrieval failed")
	// ErrProductNotFound signals a missing product.
	ErrProductNotFound = errors.New("product not found")
	// ErrInvalidProduct signals a product that fails validation.
	ErrInvalidProduct = errors.New("invalid product")
	// ErrUnsupportedFilter signals a filter on an attribute the store cannot evaluate.
	ErrUnsupportedFilter = errors.New("filter not supported by index")
)

// RetrievalError wraps a product store failure with the retrieval stage it happened in.
// errors.Is(err, ErrRetrieval) holds; Unwrap yields the store error unchanged.
type RetrievalError struct {
	Stage string
	Err   error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrRetrieval.Error(), e.Stage, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// Is reports ErrRetrieval as a match so callers can classify without a type assertion.
func (e *RetrievalError) Is(target error) bool { return target == ErrRetrieval }

// NewRetrievalError wraps err as a RetrievalError. A nil err yields nil.
func NewRetrievalError(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &RetrievalError{Stage: stage, Err: err}
}

// InvalidProductError carries the reason a product failed validation.
func InvalidProductError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidProduct, fmt.Sprintf(format, args...))
}
