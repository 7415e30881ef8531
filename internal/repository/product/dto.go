package product

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cast"

	domprod "github.com/kailas-cloud/shopdex/internal/domain/product"
)

// Hash field names.
const (
	fieldID             = "id"
	fieldTitle          = "title"
	fieldDescription    = "description"
	fieldBrandText      = "brand_text"
	fieldModelText      = "model_text"
	fieldRating         = "rating"
	fieldReviewCount    = "review_count"
	fieldStock          = "stock"
	fieldPrice          = "price"
	fieldMRP            = "mrp"
	fieldCurrency       = "currency"
	fieldDiscount       = "discount_percentage"
	fieldUnitsSold      = "units_sold"
	fieldSalesVelocity  = "sales_velocity"
	fieldReturnRate     = "return_rate"
	fieldComplaintCount = "complaint_count"
	fieldMetadata       = "metadata"
	fieldSearchKeywords = "search_keywords"
	fieldActive         = "is_active"
	fieldCreatedAt      = "created_at"
	fieldUpdatedAt      = "updated_at"
)

// tagAttributes are the metadata attributes mirrored into indexed TAG fields.
// Filter conditions on any other attribute cannot be pushed down.
var tagAttributes = []string{
	domprod.KeyCategory,
	domprod.KeyBrand,
	domprod.KeyModel,
	domprod.KeyColor,
	domprod.KeyStorage,
}

// textFields are the TEXT fields a filter's text constraint is matched against.
var textFields = []string{fieldTitle, fieldDescription, fieldBrandText, fieldModelText}

// buildHashFields flattens a product into HSET fields. Every field is always
// written so an overwrite never leaves stale tag values behind.
func buildHashFields(p *domprod.Product) (map[string]string, error) {
	meta, err := json.Marshal(p.Metadata())
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}
	keywords := p.SearchKeywords()
	if keywords == nil {
		keywords = []string{}
	}
	kw, err := json.Marshal(keywords)
	if err != nil {
		return nil, fmt.Errorf("marshal search keywords: %w", err)
	}

	m := map[string]string{
		fieldID:             p.ID(),
		fieldTitle:          p.Title(),
		fieldDescription:    p.Description(),
		fieldBrandText:      p.Attr(domprod.KeyBrand),
		fieldModelText:      p.Attr(domprod.KeyModel),
		fieldRating:         formatFloat(p.Rating()),
		fieldReviewCount:    strconv.Itoa(p.ReviewCount()),
		fieldStock:          strconv.Itoa(p.Stock()),
		fieldPrice:          formatFloat(p.Price()),
		fieldMRP:            formatFloat(p.MRP()),
		fieldCurrency:       p.Currency(),
		fieldDiscount:       formatFloat(p.DiscountPercentage()),
		fieldUnitsSold:      strconv.Itoa(p.UnitsSold()),
		fieldSalesVelocity:  formatFloat(p.SalesVelocity()),
		fieldReturnRate:     formatFloat(p.ReturnRate()),
		fieldComplaintCount: strconv.Itoa(p.ComplaintCount()),
		fieldMetadata:       string(meta),
		fieldSearchKeywords: string(kw),
		fieldActive:         strconv.FormatBool(p.IsActive()),
		fieldCreatedAt:      strconv.FormatInt(p.CreatedAt().UnixMilli(), 10),
		fieldUpdatedAt:      strconv.FormatInt(p.UpdatedAt().UnixMilli(), 10),
	}
	for _, attr := range tagAttributes {
		m[attr] = p.Attr(attr)
	}
	return m, nil
}

// parseHashFields rebuilds a product from its hash. Numeric fields decode
// leniently; malformed JSON in metadata or keywords is an error.
func parseHashFields(id string, m map[string]string) (domprod.Product, error) {
	if v := m[fieldID]; v != "" {
		id = v
	}

	var meta map[string]string
	if raw := m[fieldMetadata]; raw != "" && raw != "null" {
		if err := json.Unmarshal([]byte(raw), &meta); err != nil {
			return domprod.Product{}, fmt.Errorf("product %s: decode metadata: %w", id, err)
		}
	}
	var keywords []string
	if raw := m[fieldSearchKeywords]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &keywords); err != nil {
			return domprod.Product{}, fmt.Errorf("product %s: decode search keywords: %w", id, err)
		}
	}

	d := domprod.Draft{
		Title:          m[fieldTitle],
		Description:    m[fieldDescription],
		Rating:         cast.ToFloat64(m[fieldRating]),
		ReviewCount:    cast.ToInt(m[fieldReviewCount]),
		Stock:          cast.ToInt(m[fieldStock]),
		Price:          cast.ToFloat64(m[fieldPrice]),
		MRP:            cast.ToFloat64(m[fieldMRP]),
		Currency:       m[fieldCurrency],
		UnitsSold:      cast.ToInt(m[fieldUnitsSold]),
		SalesVelocity:  cast.ToFloat64(m[fieldSalesVelocity]),
		ReturnRate:     cast.ToFloat64(m[fieldReturnRate]),
		ComplaintCount: cast.ToInt(m[fieldComplaintCount]),
		Metadata:       meta,
		SearchKeywords: keywords,
	}

	return domprod.Reconstruct(id, d,
		cast.ToBool(m[fieldActive]),
		parseMillis(m[fieldCreatedAt]),
		parseMillis(m[fieldUpdatedAt]),
	), nil
}

func parseMillis(v string) time.Time {
	ms := cast.ToInt64(v)
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
