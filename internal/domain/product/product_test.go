package product

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/kailas-cloud/shopdex/internal/domain"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func validDraft() Draft {
	return Draft{
		Title:       "Apple iPhone 16 (Black, 128GB)",
		Description: "A18 chip, 48MP camera",
		Rating:      4.5,
		ReviewCount: 1200,
		Stock:       50,
		Price:       79900,
		MRP:         89900,
		Metadata: map[string]string{
			KeyBrand:   "Apple",
			KeyModel:   "iPhone 16",
			KeyColor:   "Black",
			KeyStorage: "128GB",
		},
	}
}

func TestNew_Valid(t *testing.T) {
	p, err := New("p-1", validDraft(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID() != "p-1" {
		t.Errorf("ID() = %q", p.ID())
	}
	if !p.IsActive() {
		t.Error("new product should be active")
	}
	if p.Currency() != DefaultCurrency {
		t.Errorf("Currency() = %q, want %q", p.Currency(), DefaultCurrency)
	}
	want := (89900.0 - 79900.0) / 89900.0 * 100
	if math.Abs(p.DiscountPercentage()-want) > 1e-9 {
		t.Errorf("DiscountPercentage() = %f, want %f", p.DiscountPercentage(), want)
	}
	if !p.CreatedAt().Equal(now) || !p.UpdatedAt().Equal(now) {
		t.Error("timestamps not set")
	}
}

func TestNew_DefaultsMRPToPrice(t *testing.T) {
	d := validDraft()
	d.MRP = 0
	p, err := New("p-1", d, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.MRP() != d.Price {
		t.Errorf("MRP() = %f, want %f", p.MRP(), d.Price)
	}
	if p.DiscountPercentage() != 0 {
		t.Errorf("DiscountPercentage() = %f, want 0", p.DiscountPercentage())
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		mutate func(d *Draft)
	}{
		{"empty id", "", func(d *Draft) {}},
		{"empty title", "p", func(d *Draft) { d.Title = "  " }},
		{"empty description", "p", func(d *Draft) { d.Description = "" }},
		{"zero price", "p", func(d *Draft) { d.Price = 0 }},
		{"negative stock", "p", func(d *Draft) { d.Stock = -1 }},
		{"rating too high", "p", func(d *Draft) { d.Rating = 5.5 }},
		{"return rate too high", "p", func(d *Draft) { d.ReturnRate = 101 }},
		{"negative complaints", "p", func(d *Draft) { d.ComplaintCount = -3 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)
			_, err := New(tt.id, d, now)
			if !errors.Is(err, domain.ErrInvalidProduct) {
				t.Fatalf("expected ErrInvalidProduct, got %v", err)
			}
		})
	}
}

func TestNew_CopiesMetadata(t *testing.T) {
	d := validDraft()
	p, err := New("p-1", d, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d.Metadata[KeyColor] = "Pink"
	if p.Attr(KeyColor) != "Black" {
		t.Errorf("metadata aliased caller map: %q", p.Attr(KeyColor))
	}
}

func TestDiscountPercentage(t *testing.T) {
	tests := []struct {
		price, mrp, want float64
	}{
		{100, 200, 50},
		{150, 150, 0},
		{0, 200, 0},
		{100, 0, 0},
		{75, 100, 25},
	}
	for _, tt := range tests {
		got := DiscountPercentage(tt.price, tt.mrp)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("DiscountPercentage(%v, %v) = %v, want %v", tt.price, tt.mrp, got, tt.want)
		}
	}
}

func TestAvailability(t *testing.T) {
	tests := []struct {
		stock int
		want  Availability
	}{
		{0, OutOfStock},
		{1, LowStock},
		{9, LowStock},
		{10, InStock},
		{500, InStock},
	}
	for _, tt := range tests {
		d := validDraft()
		d.Stock = tt.stock
		p := Reconstruct("p", d, true, now, now)
		if got := p.Availability(); got != tt.want {
			t.Errorf("stock %d: Availability() = %s, want %s", tt.stock, got, tt.want)
		}
	}
}

func TestWithUpdate_RederivesDiscount(t *testing.T) {
	p, _ := New("p-1", validDraft(), now)
	price := 44950.0
	later := now.Add(time.Hour)

	u, err := p.WithUpdate(Update{Price: &price}, later)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Price() != price {
		t.Errorf("Price() = %f", u.Price())
	}
	if math.Abs(u.DiscountPercentage()-50) > 1e-9 {
		t.Errorf("DiscountPercentage() = %f, want 50", u.DiscountPercentage())
	}
	if !u.UpdatedAt().Equal(later) || !u.CreatedAt().Equal(now) {
		t.Error("timestamps not maintained")
	}
	if p.Price() != 79900 {
		t.Error("original product mutated")
	}
}

func TestWithUpdate_Invalid(t *testing.T) {
	p, _ := New("p-1", validDraft(), now)
	rating := 7.0
	if _, err := p.WithUpdate(Update{Rating: &rating}, now); !errors.Is(err, domain.ErrInvalidProduct) {
		t.Fatalf("expected ErrInvalidProduct, got %v", err)
	}
}

func TestWithMetadata_Merges(t *testing.T) {
	p, _ := New("p-1", validDraft(), now)
	m := p.WithMetadata(map[string]string{KeyColor: "Blue", KeyRAM: "8GB"}, now)

	if m.Attr(KeyColor) != "Blue" || m.Attr(KeyRAM) != "8GB" || m.Attr(KeyBrand) != "Apple" {
		t.Errorf("unexpected metadata: %v", m.Metadata())
	}
	if p.Attr(KeyColor) != "Black" {
		t.Error("original metadata mutated")
	}
}

func TestDeactivated(t *testing.T) {
	p, _ := New("p-1", validDraft(), now)
	d := p.Deactivated(now.Add(time.Minute))
	if d.IsActive() {
		t.Error("expected inactive")
	}
	if !p.IsActive() {
		t.Error("original should stay active")
	}
}

func TestSearchableText(t *testing.T) {
	p, _ := New("p-1", validDraft(), now)
	want := "apple iphone 16 (black, 128gb) a18 chip, 48mp camera apple iphone 16"
	if got := p.SearchableText(); got != want {
		t.Errorf("SearchableText() = %q, want %q", got, want)
	}
}
