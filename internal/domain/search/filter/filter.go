// Package filter defines the abstract product predicate handed to a product store.
// Active-only is implied by every store operation and is not part of the predicate.
package filter

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/shopdex/internal/domain/product"
	"github.com/kailas-cloud/shopdex/internal/domain/search/query"
)

// MaxConditions is the maximum number of conditions in one filter.
const MaxConditions = 32

// Numeric field names usable in range conditions. Any other key refers to a metadata attribute.
const (
	FieldPrice  = "price"
	FieldMRP    = "mrp"
	FieldRating = "rating"
	FieldStock  = "stock"
)

// Kind classifies a condition.
type Kind int

const (
	// KindMatch is an exact attribute match.
	KindMatch Kind = iota
	// KindContains is a case-insensitive substring match on an attribute.
	KindContains
	// KindRange is a numeric range on a product field.
	KindRange
)

// Filter is a conjunction of an optional full-text constraint and field conditions.
type Filter struct {
	text       string
	conditions []Condition
}

// New validates and creates a Filter. An empty text means no text constraint.
func New(text string, conds ...Condition) (Filter, error) {
	if len(conds) > MaxConditions {
		return Filter{}, fmt.Errorf("too many conditions (max %d)", MaxConditions)
	}
	return Filter{text: strings.TrimSpace(text), conditions: conds}, nil
}

// Text returns the full-text constraint.
func (f Filter) Text() string { return f.text }

// Tokens returns the text constraint split into words.
func (f Filter) Tokens() []string { return query.Tokenize(f.text) }

// Conditions returns the field conditions.
func (f Filter) Conditions() []Condition { return f.conditions }

// IsEmpty reports whether the filter matches every active product.
func (f Filter) IsEmpty() bool { return f.text == "" && len(f.conditions) == 0 }

// Matches evaluates the predicate in process. Text matches when any query
// token equals a word of the product's searchable text.
func (f Filter) Matches(p *product.Product) bool {
	if f.text != "" && !matchesText(f.Tokens(), p.SearchableText()) {
		return false
	}
	for _, c := range f.conditions {
		if !c.Matches(p) {
			return false
		}
	}
	return true
}

func matchesText(tokens []string, searchable string) bool {
	words := make(map[string]struct{})
	for _, w := range query.Tokenize(searchable) {
		words[w] = struct{}{}
	}
	for _, t := range tokens {
		if _, ok := words[t]; ok {
			return true
		}
	}
	return false
}

// Condition is a single filter clause.
type Condition struct {
	key       string
	kind      Kind
	value     string
	rangeExpr *Range
}

// NewMatch creates an exact attribute match condition.
func NewMatch(key, value string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if value == "" {
		return Condition{}, fmt.Errorf("match value is required for key %q", key)
	}
	return Condition{key: key, kind: KindMatch, value: value}, nil
}

// NewContains creates a case-insensitive substring condition on an attribute.
func NewContains(key, value string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if value == "" {
		return Condition{}, fmt.Errorf("contains value is required for key %q", key)
	}
	return Condition{key: key, kind: KindContains, value: value}, nil
}

// NewRange creates a numeric range condition.
func NewRange(key string, r Range) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if !IsNumericField(key) {
		return Condition{}, fmt.Errorf("field %q is not numeric", key)
	}
	return Condition{key: key, kind: KindRange, rangeExpr: &r}, nil
}

// Key returns the field name.
func (c Condition) Key() string { return c.key }

// Kind returns the condition kind.
func (c Condition) Kind() Kind { return c.kind }

// Value returns the match or contains operand.
func (c Condition) Value() string { return c.value }

// Range returns the numeric range expression.
func (c Condition) Range() *Range { return c.rangeExpr }

// IsMatch reports whether this is an exact match condition.
func (c Condition) IsMatch() bool { return c.kind == KindMatch }

// IsContains reports whether this is a substring condition.
func (c Condition) IsContains() bool { return c.kind == KindContains }

// IsRange reports whether this is a range condition.
func (c Condition) IsRange() bool { return c.kind == KindRange }

// Matches evaluates the condition against a product.
func (c Condition) Matches(p *product.Product) bool {
	switch c.kind {
	case KindMatch:
		return p.Attr(c.key) == c.value
	case KindContains:
		return strings.Contains(strings.ToLower(p.Attr(c.key)), strings.ToLower(c.value))
	case KindRange:
		v, ok := NumericValue(p, c.key)
		return ok && c.rangeExpr.Contains(v)
	}
	return false
}

// IsNumericField reports whether key names a numeric product field.
func IsNumericField(key string) bool {
	switch key {
	case FieldPrice, FieldMRP, FieldRating, FieldStock:
		return true
	}
	return false
}

// NumericValue resolves a numeric product field.
func NumericValue(p *product.Product, key string) (float64, bool) {
	switch key {
	case FieldPrice:
		return p.Price(), true
	case FieldMRP:
		return p.MRP(), true
	case FieldRating:
		return p.Rating(), true
	case FieldStock:
		return float64(p.Stock()), true
	}
	return 0, false
}

// Range is a numeric range with gt/gte/lt/lte boundaries.
type Range struct {
	gt  *float64
	gte *float64
	lt  *float64
	lte *float64
}

// NewRangeFilter validates and creates a Range.
// At least one boundary required. gt/gte and lt/lte are mutually exclusive.
func NewRangeFilter(gt, gte, lt, lte *float64) (Range, error) {
	if gt == nil && gte == nil && lt == nil && lte == nil {
		return Range{}, fmt.Errorf("at least one range boundary is required")
	}
	if gt != nil && gte != nil {
		return Range{}, fmt.Errorf("cannot specify both gt and gte")
	}
	if lt != nil && lte != nil {
		return Range{}, fmt.Errorf("cannot specify both lt and lte")
	}
	return Range{gt: gt, gte: gte, lt: lt, lte: lte}, nil
}

// Between is an inclusive range [lo, hi].
func Between(lo, hi float64) Range {
	return Range{gte: &lo, lte: &hi}
}

// GT returns the lower exclusive bound.
func (r Range) GT() *float64 { return r.gt }

// GTE returns the lower inclusive bound.
func (r Range) GTE() *float64 { return r.gte }

// LT returns the upper exclusive bound.
func (r Range) LT() *float64 { return r.lt }

// LTE returns the upper inclusive bound.
func (r Range) LTE() *float64 { return r.lte }

// Contains reports whether x satisfies every boundary.
func (r Range) Contains(x float64) bool {
	switch {
	case r.gt != nil && x <= *r.gt:
		return false
	case r.gte != nil && x < *r.gte:
		return false
	case r.lt != nil && x >= *r.lt:
		return false
	case r.lte != nil && x > *r.lte:
		return false
	}
	return true
}
