package seed

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/shopspring/decimal"

	domprod "github.com/kailas-cloud/shopdex/internal/domain/product"
)

// Demo catalog categories.
const (
	CategoryPhone      = "Mobile Phone"
	CategoryLaptop     = "Laptop"
	CategoryHeadphones = "Headphones"
	CategoryAccessory  = "Accessory"
)

var colors = []string{"Black", "White", "Blue", "Red", "Green", "Silver", "Gold", "Purple", "Pink"}

var accessoryBrands = []string{"Anker", "Belkin", "Amazon Basics", "Mi", "Realme", "Samsung"}

type phoneModel struct {
	brand, model string
	basePrice    float64
	ram          string
	storage      []string
}

var phones = []phoneModel{
	{"Apple", "iPhone 16 Pro Max", 159900, "8GB", []string{"256GB", "512GB", "1TB"}},
	{"Apple", "iPhone 16 Pro", 134900, "8GB", []string{"128GB", "256GB", "512GB"}},
	{"Apple", "iPhone 16", 79900, "6GB", []string{"128GB", "256GB", "512GB"}},
	{"Apple", "iPhone 15", 69900, "6GB", []string{"128GB", "256GB"}},
	{"Apple", "iPhone 14", 59900, "6GB", []string{"128GB", "256GB"}},
	{"Apple", "iPhone 13", 49900, "4GB", []string{"128GB", "256GB"}},
	{"Apple", "iPhone SE", 43900, "4GB", []string{"64GB", "128GB"}},
	{"Samsung", "Galaxy S24 Ultra", 129999, "12GB", []string{"256GB", "512GB", "1TB"}},
	{"Samsung", "Galaxy S24", 79999, "8GB", []string{"128GB", "256GB"}},
	{"Samsung", "Galaxy A54", 35999, "8GB", []string{"128GB", "256GB"}},
	{"Samsung", "Galaxy M34", 18999, "6GB", []string{"128GB"}},
	{"OnePlus", "12 Pro", 64999, "12GB", []string{"256GB", "512GB"}},
	{"OnePlus", "11", 54999, "8GB", []string{"128GB", "256GB"}},
	{"OnePlus", "Nord CE 3", 24999, "8GB", []string{"128GB"}},
	{"Xiaomi", "14 Pro", 79999, "12GB", []string{"256GB", "512GB"}},
	{"Xiaomi", "13", 54999, "8GB", []string{"128GB", "256GB"}},
	{"Xiaomi", "Redmi Note 13 Pro", 24999, "8GB", []string{"128GB", "256GB"}},
	{"Realme", "12 Pro+", 29999, "8GB", []string{"128GB", "256GB"}},
	{"Realme", "GT 3", 42999, "12GB", []string{"256GB"}},
	{"Google", "Pixel 8 Pro", 106999, "12GB", []string{"128GB", "256GB", "512GB"}},
	{"Google", "Pixel 7a", 43999, "8GB", []string{"128GB"}},
}

type laptopModel struct {
	brand, model string
	basePrice    float64
	ram          []string
	storage      []string
}

var laptops = []laptopModel{
	{"Apple", "MacBook Air M2", 114900, []string{"8GB", "16GB"}, []string{"256GB", "512GB"}},
	{"Apple", "MacBook Pro M3", 169900, []string{"16GB", "32GB"}, []string{"512GB", "1TB"}},
	{"Dell", "XPS 13", 89990, []string{"8GB", "16GB"}, []string{"256GB", "512GB"}},
	{"HP", "Pavilion 15", 45990, []string{"8GB", "16GB"}, []string{"512GB", "1TB"}},
	{"Lenovo", "ThinkPad X1", 125990, []string{"16GB", "32GB"}, []string{"512GB", "1TB"}},
	{"Asus", "ROG Strix G15", 89990, []string{"16GB", "32GB"}, []string{"512GB", "1TB"}},
}

type headphoneModel struct {
	brand, model, kind string
	price              float64
}

var headphones = []headphoneModel{
	{"Sony", "WH-1000XM5", "Over-Ear", 29990},
	{"Apple", "AirPods Pro 2", "In-Ear", 24900},
	{"JBL", "Tune 750BTNC", "Over-Ear", 4999},
	{"Boat", "Rockerz 450", "Over-Ear", 1499},
	{"Samsung", "Galaxy Buds 2 Pro", "In-Ear", 14990},
	{"Bose", "QuietComfort 45", "Over-Ear", 32900},
}

type accessoryLine struct {
	kind, prefix string
	models       []string
	minPrice     int
	maxPrice     int
}

var accessories = []accessoryLine{
	{"iPhone Cover", "iPhone", []string{"16", "15", "14", "13"}, 499, 1999},
	{"iPhone Charger", "iPhone", []string{"Fast Charger", "20W", "30W"}, 799, 2499},
	{"Phone Case", "Samsung", []string{"S24", "S23", "A54"}, 399, 1499},
	{"Screen Guard", "Tempered Glass", []string{"iPhone", "Samsung", "OnePlus"}, 199, 999},
}

// Generate builds the demo electronics catalog: phone variants by storage
// and color, laptop variants by RAM and storage, headphones by color, and
// accessories. Equal generators produce equal catalogs.
func Generate(rng *rand.Rand) []domprod.Draft {
	g := generator{rng: rng}
	var out []domprod.Draft
	for _, p := range phones {
		for _, storage := range p.storage {
			for _, color := range colors[:5] {
				out = append(out, g.phone(p, storage, color))
			}
		}
	}
	for _, l := range laptops {
		for _, ram := range l.ram {
			for _, storage := range l.storage {
				out = append(out, g.laptop(l, ram, storage))
			}
		}
	}
	for _, h := range headphones {
		for _, color := range colors[:3] {
			out = append(out, g.headphone(h, color))
		}
	}
	for _, a := range accessories {
		for _, m := range a.models {
			out = append(out, g.accessory(a, m))
		}
	}
	return out
}

type generator struct {
	rng *rand.Rand
}

func (g generator) phone(p phoneModel, storage, color string) domprod.Draft {
	mult := map[string]float64{"1TB": 1.4, "512GB": 1.2, "256GB": 1.1}[storage]
	if mult == 0 {
		mult = 1
	}
	mrp := math.Round(p.basePrice * mult)
	discount := g.rng.Float64()*20 + 5
	processor := "Snapdragon 8 Gen 2"
	if p.brand == "Apple" {
		processor = "A17 Bionic"
	}
	return domprod.Draft{
		Title: fmt.Sprintf("%s %s (%s, %s)", p.brand, p.model, color, storage),
		Description: fmt.Sprintf("%s %s with %s RAM and %s storage in %s color. "+
			"Features advanced camera system, powerful processor, and long battery life. "+
			"Perfect for photography, gaming, and daily use.", p.brand, p.model, p.ram, storage, color),
		Rating:         g.oneDecimal(3.5, 1.5),
		ReviewCount:    g.rng.IntN(5000) + 100,
		Stock:          g.rng.IntN(500),
		Price:          math.Round(mrp * (1 - discount/100)),
		MRP:            mrp,
		UnitsSold:      g.rng.IntN(10000),
		SalesVelocity:  g.oneDecimal(0, 50),
		ReturnRate:     g.oneDecimal(0, 5),
		ComplaintCount: g.rng.IntN(100),
		Metadata: map[string]string{
			domprod.KeyCategory: CategoryPhone,
			domprod.KeyBrand:    p.brand,
			domprod.KeyModel:    p.model,
			domprod.KeyColor:    color,
			domprod.KeyRAM:      p.ram,
			domprod.KeyStorage:  storage,
			"screenSize":        "6.1-6.7 inches",
			"battery":           "4000-5000mAh",
			"processor":         processor,
		},
		SearchKeywords: []string{
			strings.ToLower(p.brand), strings.ToLower(p.model), "phone", "smartphone", strings.ToLower(color),
		},
	}
}

func (g generator) laptop(l laptopModel, ram, storage string) domprod.Draft {
	storageMult := map[string]float64{"1TB": 1.2, "512GB": 1.1}[storage]
	if storageMult == 0 {
		storageMult = 1
	}
	ramMult := map[string]float64{"32GB": 1.3, "16GB": 1.15}[ram]
	if ramMult == 0 {
		ramMult = 1
	}
	mrp := math.Round(l.basePrice * storageMult * ramMult)
	processor := "Intel Core i5/i7"
	if l.brand == "Apple" {
		processor = "M2/M3 Chip"
	}
	return domprod.Draft{
		Title: fmt.Sprintf("%s %s (%s RAM, %s SSD)", l.brand, l.model, ram, storage),
		Description: fmt.Sprintf("%s %s laptop with %s RAM and %s SSD storage. "+
			"Perfect for work, study, and entertainment. "+
			"Features high-resolution display and powerful performance.", l.brand, l.model, ram, storage),
		Rating:         g.oneDecimal(4.0, 1),
		ReviewCount:    g.rng.IntN(2000) + 50,
		Stock:          g.rng.IntN(200),
		Price:          math.Round(mrp * 0.9),
		MRP:            mrp,
		UnitsSold:      g.rng.IntN(3000),
		SalesVelocity:  g.oneDecimal(0, 20),
		ReturnRate:     g.oneDecimal(0, 3),
		ComplaintCount: g.rng.IntN(50),
		Metadata: map[string]string{
			domprod.KeyCategory: CategoryLaptop,
			domprod.KeyBrand:    l.brand,
			domprod.KeyModel:    l.model,
			domprod.KeyRAM:      ram,
			domprod.KeyStorage:  storage,
			"screenSize":        "13-15 inches",
			"processor":         processor,
		},
		SearchKeywords: []string{strings.ToLower(l.brand), strings.ToLower(l.model), "laptop", "computer"},
	}
}

func (g generator) headphone(h headphoneModel, color string) domprod.Draft {
	return domprod.Draft{
		Title: fmt.Sprintf("%s %s Wireless Headphones (%s)", h.brand, h.model, color),
		Description: fmt.Sprintf("%s %s %s wireless headphones in %s. "+
			"Features noise cancellation, premium sound quality, and comfortable design. "+
			"Perfect for music lovers and professionals.", h.brand, h.model, h.kind, color),
		Rating:         g.oneDecimal(3.8, 1.2),
		ReviewCount:    g.rng.IntN(3000) + 200,
		Stock:          g.rng.IntN(1000),
		Price:          math.Round(h.price * (0.8 + g.rng.Float64()*0.15)),
		MRP:            h.price,
		UnitsSold:      g.rng.IntN(15000),
		SalesVelocity:  g.oneDecimal(0, 100),
		ReturnRate:     g.oneDecimal(0, 4),
		ComplaintCount: g.rng.IntN(80),
		Metadata: map[string]string{
			domprod.KeyCategory: CategoryHeadphones,
			domprod.KeyBrand:    h.brand,
			domprod.KeyModel:    h.model,
			domprod.KeyColor:    color,
			"soundOutput":       "Stereo",
			"type":              h.kind,
		},
		SearchKeywords: []string{strings.ToLower(h.brand), "headphones", "audio", "wireless", strings.ToLower(color)},
	}
}

func (g generator) accessory(a accessoryLine, model string) domprod.Draft {
	price := float64(g.rng.IntN(a.maxPrice-a.minPrice) + a.minPrice)
	return domprod.Draft{
		Title:          fmt.Sprintf("%s %s %s", a.prefix, model, a.kind),
		Description:    fmt.Sprintf("High-quality %s for %s %s. Durable, protective, and stylish accessory.", a.kind, a.prefix, model),
		Rating:         g.oneDecimal(3.5, 1.5),
		ReviewCount:    g.rng.IntN(1000) + 50,
		Stock:          g.rng.IntN(2000),
		Price:          price,
		MRP:            math.Round(price * 1.3),
		UnitsSold:      g.rng.IntN(20000),
		SalesVelocity:  g.oneDecimal(0, 150),
		ReturnRate:     g.oneDecimal(0, 6),
		ComplaintCount: g.rng.IntN(150),
		Metadata: map[string]string{
			domprod.KeyCategory: CategoryAccessory,
			domprod.KeyBrand:    accessoryBrands[g.rng.IntN(len(accessoryBrands))],
			domprod.KeyModel:    a.prefix + " " + model,
		},
		SearchKeywords: []string{strings.ToLower(a.kind), strings.ToLower(a.prefix), strings.ToLower(model)},
	}
}

// oneDecimal draws uniformly from [base, base+spread) rounded to one decimal.
func (g generator) oneDecimal(base, spread float64) float64 {
	return decimal.NewFromFloat(base + g.rng.Float64()*spread).Round(1).InexactFloat64()
}
