// Package rank scores candidate products with a weighted multi-factor formula.
package rank

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kailas-cloud/shopdex/internal/domain/product"
	"github.com/kailas-cloud/shopdex/internal/domain/search/fuzzy"
	"github.com/kailas-cloud/shopdex/internal/domain/search/query"
	"github.com/kailas-cloud/shopdex/internal/domain/search/result"
)

// DefaultPriceCap is the reference price for cheap/expensive intent scoring.
const DefaultPriceCap = 150000

// Penalty multipliers.
const (
	highReturnPenalty     = 0.9
	highComplaintsPenalty = 0.85
	outOfStockPenalty     = 0.5

	highReturnRate     = 10
	highComplaintCount = 50
)

// Weights are the per-factor multipliers of the weighted sum.
type Weights struct {
	Relevance float64
	Rating    float64
	Sales     float64
	Stock     float64
	Price     float64
	Discount  float64
}

// DefaultWeights returns the standard weights (sum 100).
func DefaultWeights() Weights {
	return Weights{
		Relevance: 30,
		Rating:    20,
		Sales:     15,
		Stock:     10,
		Price:     15,
		Discount:  10,
	}
}

// Breakdown is the per-factor decomposition of a product score.
type Breakdown struct {
	Relevance  float64
	Rating     float64
	Sales      float64
	Stock      float64
	Price      float64
	Discount   float64
	Weighted   float64 // weighted sum before penalties
	Multiplier float64 // product of triggered penalties
	Score      float64 // Weighted * Multiplier, rounded to 2 decimals
}

// Ranker scores and orders products. Safe for concurrent use.
type Ranker struct {
	weights  Weights
	priceCap float64
}

// New creates a Ranker. A non-positive priceCap selects DefaultPriceCap.
func New(w Weights, priceCap float64) *Ranker {
	if priceCap <= 0 {
		priceCap = DefaultPriceCap
	}
	return &Ranker{weights: w, priceCap: priceCap}
}

// NewDefault creates a Ranker with DefaultWeights and DefaultPriceCap.
func NewDefault() *Ranker { return New(DefaultWeights(), DefaultPriceCap) }

// Rank scores every product and stable-sorts by score descending.
func (r *Ranker) Rank(products []product.Product, q *query.ParsedQuery) []result.Scored {
	scored := make([]result.Scored, 0, len(products))
	for i := range products {
		scored = append(scored, result.New(products[i], r.Score(&products[i], q)))
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score() > scored[j].Score()
	})
	return scored
}

// Score returns the final rounded score of p for q.
func (r *Ranker) Score(p *product.Product, q *query.ParsedQuery) float64 {
	return r.Breakdown(p, q).Score
}

// Breakdown computes every factor of the score of p for q.
func (r *Ranker) Breakdown(p *product.Product, q *query.ParsedQuery) Breakdown {
	b := Breakdown{
		Relevance: Relevance(p, q.Tokens),
		Rating:    ratingFactor(p),
		Sales:     min(float64(p.UnitsSold())/10000, 1),
		Stock:     stockFactor(p.Stock()),
		Price:     r.priceFactor(p.Price(), q),
		Discount:  p.DiscountPercentage() / 100,
	}
	w := r.weights
	b.Weighted = b.Relevance*w.Relevance +
		b.Rating*w.Rating +
		b.Sales*w.Sales +
		b.Stock*w.Stock +
		b.Price*w.Price +
		b.Discount*w.Discount

	b.Multiplier = 1
	if p.ReturnRate() > highReturnRate {
		b.Multiplier *= highReturnPenalty
	}
	if p.ComplaintCount() > highComplaintCount {
		b.Multiplier *= highComplaintsPenalty
	}
	if p.Stock() == 0 {
		b.Multiplier *= outOfStockPenalty
	}
	b.Score = round2(b.Weighted * b.Multiplier)
	return b
}

// Relevance averages the per-token match strength against p, capped at 1.
// Each token earns 1.0 for a title hit, 0.8 for brand or model, 0.5 for
// description, plus 0.3 per searchable word within one edit and 0.1 per word
// at exactly two.
func Relevance(p *product.Product, tokens []string) float64 {
	title := strings.ToLower(p.Title())
	brand := strings.ToLower(p.Attr(product.KeyBrand))
	model := strings.ToLower(p.Attr(product.KeyModel))
	desc := strings.ToLower(p.Description())
	words := fuzzy.Words(p.SearchableText())

	var score float64
	for _, tok := range tokens {
		tok = strings.ToLower(tok)
		if strings.Contains(title, tok) {
			score += 1.0
		}
		if strings.Contains(brand, tok) || strings.Contains(model, tok) {
			score += 0.8
		}
		if strings.Contains(desc, tok) {
			score += 0.5
		}
		for _, w := range words {
			switch d := fuzzy.Distance(tok, w); {
			case d <= 1:
				score += 0.3
			case d == 2:
				score += 0.1
			}
		}
	}
	return min(score/float64(max(len(tokens), 1)), 1)
}

func ratingFactor(p *product.Product) float64 {
	reviewBonus := min(float64(p.ReviewCount())/1000, 1) * 0.2
	return p.Rating()/5 + reviewBonus
}

func stockFactor(stock int) float64 {
	switch {
	case stock > 100:
		return 1
	case stock > 10:
		return 0.7
	case stock > 0:
		return 0.3
	default:
		return 0
	}
}

// priceFactor is not clamped: prices above the cap go negative under cheap intent.
func (r *Ranker) priceFactor(price float64, q *query.ParsedQuery) float64 {
	switch {
	case q.CheapIntent:
		return 1 - price/r.priceCap
	case q.ExpensiveIntent:
		return price / r.priceCap
	case q.PriceIntent != nil && q.PriceIntent.TargetValue > 0:
		target := q.PriceIntent.TargetValue
		diff := price - target
		if diff < 0 {
			diff = -diff
		}
		return 1 - min(diff/target, 1)
	case q.PriceIntent != nil:
		return 0
	default:
		return 0.5
	}
}

func round2(x float64) float64 {
	f, _ := decimal.NewFromFloat(x).Round(2).Float64()
	return f
}
