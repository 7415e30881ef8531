package product

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kailas-cloud/shopdex/internal/domain"
)

// DefaultCurrency is applied when a draft leaves the currency empty.
const DefaultCurrency = "Rupee"

// Well-known metadata attribute names.
const (
	KeyCategory = "category"
	KeyBrand    = "brand"
	KeyModel    = "model"
	KeyColor    = "color"
	KeyStorage  = "storage"
	KeyRAM      = "ram"
)

// Availability is a coarse stock status derived from the stock count.
type Availability string

const (
	// InStock means stock >= 10.
	InStock Availability = "IN_STOCK"
	// LowStock means 0 < stock < 10.
	LowStock Availability = "LOW_STOCK"
	// OutOfStock means stock == 0.
	OutOfStock Availability = "OUT_OF_STOCK"
)

// Draft holds the writable fields of a product.
type Draft struct {
	Title          string
	Description    string
	Rating         float64
	ReviewCount    int
	Stock          int
	Price          float64
	MRP            float64
	Currency       string
	UnitsSold      int
	SalesVelocity  float64
	ReturnRate     float64
	ComplaintCount int
	Metadata       map[string]string
	SearchKeywords []string
}

// Product is the catalog aggregate (immutable value object).
type Product struct {
	id        string
	draft     Draft
	discount  float64
	active    bool
	createdAt time.Time
	updatedAt time.Time
}

// New validates a draft and creates an active product.
// MRP defaults to price, currency to DefaultCurrency.
func New(id string, d Draft, now time.Time) (Product, error) {
	if id == "" {
		return Product{}, domain.InvalidProductError("product ID is required")
	}
	d = normalize(d)
	if err := validate(&d); err != nil {
		return Product{}, err
	}
	return Product{
		id:        id,
		draft:     d,
		discount:  DiscountPercentage(d.Price, d.MRP),
		active:    true,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct creates a Product without validation (storage hydration).
// The discount is re-derived from price and MRP.
func Reconstruct(id string, d Draft, active bool, createdAt, updatedAt time.Time) Product {
	return Product{
		id:        id,
		draft:     d,
		discount:  DiscountPercentage(d.Price, d.MRP),
		active:    active,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// DiscountPercentage derives (mrp-price)/mrp*100. Zero when either side is zero.
func DiscountPercentage(price, mrp float64) float64 {
	if price == 0 || mrp == 0 {
		return 0
	}
	p := decimal.NewFromFloat(price)
	m := decimal.NewFromFloat(mrp)
	f, _ := m.Sub(p).Div(m).Mul(decimal.NewFromInt(100)).Float64()
	return f
}

// ID returns the product identifier.
func (p *Product) ID() string { return p.id }

// Title returns the product title.
func (p *Product) Title() string { return p.draft.Title }

// Description returns the product description.
func (p *Product) Description() string { return p.draft.Description }

// Rating returns the average rating (0-5).
func (p *Product) Rating() float64 { return p.draft.Rating }

// ReviewCount returns the number of reviews.
func (p *Product) ReviewCount() int { return p.draft.ReviewCount }

// Stock returns the units in stock.
func (p *Product) Stock() int { return p.draft.Stock }

// Price returns the selling price.
func (p *Product) Price() float64 { return p.draft.Price }

// MRP returns the maximum retail price.
func (p *Product) MRP() float64 { return p.draft.MRP }

// Currency returns the price currency.
func (p *Product) Currency() string { return p.draft.Currency }

// UnitsSold returns lifetime units sold.
func (p *Product) UnitsSold() int { return p.draft.UnitsSold }

// SalesVelocity returns units sold per day.
func (p *Product) SalesVelocity() float64 { return p.draft.SalesVelocity }

// ReturnRate returns the return percentage (0-100).
func (p *Product) ReturnRate() float64 { return p.draft.ReturnRate }

// ComplaintCount returns the number of complaints.
func (p *Product) ComplaintCount() int { return p.draft.ComplaintCount }

// DiscountPercentage returns the derived discount.
func (p *Product) DiscountPercentage() float64 { return p.discount }

// Metadata returns the attribute map. Callers must not mutate it.
func (p *Product) Metadata() map[string]string { return p.draft.Metadata }

// Attr returns a single metadata attribute ("" when absent).
func (p *Product) Attr(name string) string { return p.draft.Metadata[name] }

// SearchKeywords returns the curated search keywords.
func (p *Product) SearchKeywords() []string { return p.draft.SearchKeywords }

// IsActive reports whether the product is visible to search and listing.
func (p *Product) IsActive() bool { return p.active }

// CreatedAt returns the creation time.
func (p *Product) CreatedAt() time.Time { return p.createdAt }

// UpdatedAt returns the last modification time.
func (p *Product) UpdatedAt() time.Time { return p.updatedAt }

// Availability derives the stock status.
func (p *Product) Availability() Availability {
	switch {
	case p.draft.Stock == 0:
		return OutOfStock
	case p.draft.Stock < 10:
		return LowStock
	default:
		return InStock
	}
}

// SearchableText joins title, description, brand and model, lowercased.
func (p *Product) SearchableText() string {
	return strings.ToLower(strings.Join([]string{
		p.draft.Title, p.draft.Description, p.Attr(KeyBrand), p.Attr(KeyModel),
	}, " "))
}

// Draft returns a copy of the writable fields.
func (p *Product) Draft() Draft {
	d := p.draft
	d.Metadata = cloneStringMap(p.draft.Metadata)
	d.SearchKeywords = append([]string(nil), p.draft.SearchKeywords...)
	return d
}

// Update describes a partial update. Nil fields are left unchanged.
type Update struct {
	Title          *string
	Description    *string
	Rating         *float64
	ReviewCount    *int
	Stock          *int
	Price          *float64
	MRP            *float64
	Currency       *string
	UnitsSold      *int
	SalesVelocity  *float64
	ReturnRate     *float64
	ComplaintCount *int
	Metadata       map[string]string
	SearchKeywords []string
	IsActive       *bool
}

// WithUpdate applies u, re-validates and re-derives the discount.
func (p *Product) WithUpdate(u Update, now time.Time) (Product, error) {
	d := p.Draft()
	setIf(&d.Title, u.Title)
	setIf(&d.Description, u.Description)
	setIf(&d.Rating, u.Rating)
	setIf(&d.ReviewCount, u.ReviewCount)
	setIf(&d.Stock, u.Stock)
	setIf(&d.Price, u.Price)
	setIf(&d.MRP, u.MRP)
	setIf(&d.Currency, u.Currency)
	setIf(&d.UnitsSold, u.UnitsSold)
	setIf(&d.SalesVelocity, u.SalesVelocity)
	setIf(&d.ReturnRate, u.ReturnRate)
	setIf(&d.ComplaintCount, u.ComplaintCount)
	if u.Metadata != nil {
		d.Metadata = cloneStringMap(u.Metadata)
	}
	if u.SearchKeywords != nil {
		d.SearchKeywords = append([]string(nil), u.SearchKeywords...)
	}
	active := p.active
	setIf(&active, u.IsActive)

	d = normalize(d)
	if err := validate(&d); err != nil {
		return Product{}, err
	}
	return Product{
		id:        p.id,
		draft:     d,
		discount:  DiscountPercentage(d.Price, d.MRP),
		active:    active,
		createdAt: p.createdAt,
		updatedAt: now,
	}, nil
}

// WithMetadata returns a copy with attrs merged over the existing metadata.
func (p *Product) WithMetadata(attrs map[string]string, now time.Time) Product {
	merged := cloneStringMap(p.draft.Metadata)
	if merged == nil {
		merged = make(map[string]string, len(attrs))
	}
	for k, v := range attrs {
		merged[k] = v
	}
	c := *p
	c.draft = p.Draft()
	c.draft.Metadata = merged
	c.discount = DiscountPercentage(c.draft.Price, c.draft.MRP)
	c.updatedAt = now
	return c
}

// Deactivated returns a soft-deleted copy.
func (p *Product) Deactivated(now time.Time) Product {
	c := *p
	c.draft = p.Draft()
	c.active = false
	c.discount = DiscountPercentage(c.draft.Price, c.draft.MRP)
	c.updatedAt = now
	return c
}

func normalize(d Draft) Draft {
	d.Title = strings.TrimSpace(d.Title)
	if d.Currency == "" {
		d.Currency = DefaultCurrency
	}
	if d.MRP == 0 {
		d.MRP = d.Price
	}
	d.Metadata = cloneStringMap(d.Metadata)
	return d
}

func validate(d *Draft) error {
	switch {
	case d.Title == "":
		return domain.InvalidProductError("title is required")
	case d.Description == "":
		return domain.InvalidProductError("description is required")
	case d.Price <= 0:
		return domain.InvalidProductError("price must be positive")
	case d.MRP < 0:
		return domain.InvalidProductError("mrp must not be negative")
	case d.Stock < 0:
		return domain.InvalidProductError("stock must not be negative")
	case d.Rating < 0 || d.Rating > 5:
		return domain.InvalidProductError("rating must be between 0 and 5")
	case d.ReturnRate < 0 || d.ReturnRate > 100:
		return domain.InvalidProductError("return rate must be between 0 and 100")
	case d.ReviewCount < 0 || d.UnitsSold < 0 || d.ComplaintCount < 0 || d.SalesVelocity < 0:
		return domain.InvalidProductError("counters must not be negative")
	}
	return nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func cloneStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
