package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestRetrievalError_IsAndUnwrap(t *testing.T) {
	cause := context.DeadlineExceeded
	err := NewRetrievalError("find matching", cause)

	if !errors.Is(err, ErrRetrieval) {
		t.Error("expected errors.Is(err, ErrRetrieval)")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("expected cause to be reachable via errors.Is")
	}

	var re *RetrievalError
	if !errors.As(err, &re) {
		t.Fatal("expected *RetrievalError")
	}
	if re.Stage != "find matching" {
		t.Errorf("Stage = %q", re.Stage)
	}
}

func TestRetrievalError_Wrapped(t *testing.T) {
	err := fmt.Errorf("search: %w", NewRetrievalError("sample", errors.New("conn refused")))
	if !errors.Is(err, ErrRetrieval) {
		t.Error("wrapped RetrievalError should still match ErrRetrieval")
	}
	if !strings.Contains(err.Error(), "conn refused") {
		t.Errorf("message lost cause: %q", err)
	}
}

func TestNewRetrievalError_Nil(t *testing.T) {
	if err := NewRetrievalError("x", nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestInvalidProductError(t *testing.T) {
	err := InvalidProductError("price must be positive, got %v", -1)
	if !errors.Is(err, ErrInvalidProduct) {
		t.Error("expected ErrInvalidProduct")
	}
	if !strings.Contains(err.Error(), "price must be positive") {
		t.Errorf("error = %q", err)
	}
}
