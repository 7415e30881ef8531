package search

import (
	"context"

	"github.com/kailas-cloud/shopdex/internal/domain"
	"github.com/kailas-cloud/shopdex/internal/domain/product"
	"github.com/kailas-cloud/shopdex/internal/domain/search/filter"
	"github.com/kailas-cloud/shopdex/internal/domain/search/fuzzy"
	"github.com/kailas-cloud/shopdex/internal/domain/search/query"
)

// Retrieval defaults.
const (
	DefaultPriceTolerance     = 0.2
	DefaultFallbackSampleSize = 1000
)

// Retrieval stage names reported in RetrievalError.
const (
	StageMatching = "find matching"
	StageSample   = "fallback sample"
)

// RetrieverConfig tunes candidate retrieval.
type RetrieverConfig struct {
	PriceTolerance     float64 // fraction of the target price, e.g. 0.2 for ±20%
	FallbackSampleSize int     // max products scanned by the fuzzy fallback
}

// Candidates is the outcome of a retrieval.
type Candidates struct {
	Products []product.Product
	Fallback bool // true when the fuzzy sample path produced the products
}

// Retriever turns a parsed query into a candidate product set.
type Retriever struct {
	store ProductStore
	cfg   RetrieverConfig
}

// NewRetriever creates a Retriever. Zero config values select the defaults.
func NewRetriever(store ProductStore, cfg RetrieverConfig) *Retriever {
	if cfg.PriceTolerance <= 0 {
		cfg.PriceTolerance = DefaultPriceTolerance
	}
	if cfg.FallbackSampleSize <= 0 {
		cfg.FallbackSampleSize = DefaultFallbackSampleSize
	}
	return &Retriever{store: store, cfg: cfg}
}

// BuildFilter translates a parsed query into a store predicate.
func (r *Retriever) BuildFilter(q *query.ParsedQuery) (filter.Filter, error) {
	var conds []filter.Condition

	if q.PriceIntent != nil {
		target := q.PriceIntent.TargetValue
		c, err := filter.NewRange(filter.FieldPrice, filter.Between(
			target*(1-r.cfg.PriceTolerance),
			target*(1+r.cfg.PriceTolerance),
		))
		if err != nil {
			return filter.Filter{}, err
		}
		conds = append(conds, c)
	}
	if q.Color != "" {
		c, err := filter.NewContains(product.KeyColor, q.Color)
		if err != nil {
			return filter.Filter{}, err
		}
		conds = append(conds, c)
	}
	if q.Storage != "" {
		c, err := filter.NewContains(product.KeyStorage, q.Storage)
		if err != nil {
			return filter.Filter{}, err
		}
		conds = append(conds, c)
	}

	return filter.New(q.CleanedText, conds...)
}

// Retrieve fetches strict matches and falls back to fuzzy sample matching when none are found.
func (r *Retriever) Retrieve(ctx context.Context, q *query.ParsedQuery) (Candidates, error) {
	f, err := r.BuildFilter(q)
	if err != nil {
		return Candidates{}, err
	}

	products, err := r.store.FindActiveMatching(ctx, f)
	if err != nil {
		return Candidates{}, domain.NewRetrievalError(StageMatching, err)
	}
	if len(products) > 0 {
		return Candidates{Products: products}, nil
	}

	products, err = r.fallback(ctx, q.CleanedText)
	if err != nil {
		return Candidates{}, err
	}
	return Candidates{Products: products, Fallback: true}, nil
}

// fallback keeps sampled products whose searchable text has a word within
// MaxFallbackDistance edits of some query token.
func (r *Retriever) fallback(ctx context.Context, text string) ([]product.Product, error) {
	sample, err := r.store.FindActiveSample(ctx, r.cfg.FallbackSampleSize)
	if err != nil {
		return nil, domain.NewRetrievalError(StageSample, err)
	}

	tokens := query.Tokenize(text)
	matched := make([]product.Product, 0, len(sample))
	for i := range sample {
		if fuzzy.AnyWithin(tokens, fuzzy.Words(sample[i].SearchableText()), fuzzy.MaxFallbackDistance) {
			matched = append(matched, sample[i])
		}
	}
	return matched, nil
}
