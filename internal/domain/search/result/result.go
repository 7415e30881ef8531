package result

import "github.com/kailas-cloud/shopdex/internal/domain/product"

// Scored is a ranked search hit: a product and its final score.
type Scored struct {
	product product.Product
	score   float64
}

// New creates a scored hit.
func New(p product.Product, score float64) Scored {
	return Scored{product: p, score: score}
}

// Product returns the ranked product.
func (s *Scored) Product() *product.Product { return &s.product }

// ID returns the product identifier.
func (s *Scored) ID() string { return s.product.ID() }

// Score returns the rounded ranking score.
func (s *Scored) Score() float64 { return s.score }
