package chi

import (
	"time"

	domprod "github.com/kailas-cloud/shopdex/internal/domain/product"
	"github.com/kailas-cloud/shopdex/internal/domain/search/query"
	"github.com/kailas-cloud/shopdex/internal/domain/search/result"
	productuc "github.com/kailas-cloud/shopdex/internal/usecase/product"
	searchuc "github.com/kailas-cloud/shopdex/internal/usecase/search"
)

type productJSON struct {
	ID                 string            `json:"id"`
	Title              string            `json:"title"`
	Description        string            `json:"description"`
	Rating             float64           `json:"rating"`
	ReviewCount        int               `json:"reviewCount"`
	Stock              int               `json:"stock"`
	Price              float64           `json:"price"`
	MRP                float64           `json:"mrp"`
	Currency           string            `json:"currency"`
	UnitsSold          int               `json:"unitsSold"`
	SalesVelocity      float64           `json:"salesVelocity"`
	ReturnRate         float64           `json:"returnRate"`
	ComplaintCount     int               `json:"complaintCount"`
	DiscountPercentage float64           `json:"discountPercentage"`
	Availability       string            `json:"availability"`
	Metadata           map[string]string `json:"metadata"`
	SearchKeywords     []string          `json:"searchKeywords"`
	IsActive           bool              `json:"isActive"`
	CreatedAt          time.Time         `json:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt"`
}

type scoredJSON struct {
	productJSON
	Score float64 `json:"_score"`
}

type searchMetadataJSON struct {
	TotalResults     int               `json:"totalResults"`
	Page             int               `json:"page"`
	Limit            int               `json:"limit"`
	ProcessingTimeMs int64             `json:"processingTimeMs"`
	Fallback         bool              `json:"fallback"`
	Query            query.ParsedQuery `json:"query"`
}

type searchResponse struct {
	Success  bool               `json:"success"`
	Data     []scoredJSON       `json:"data"`
	Metadata searchMetadataJSON `json:"metadata"`
}

type paginationJSON struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

type listResponse struct {
	Success    bool           `json:"success"`
	Data       []productJSON  `json:"data"`
	Pagination paginationJSON `json:"pagination"`
}

type productResponse struct {
	Success bool        `json:"success"`
	Data    productJSON `json:"data"`
}

type createResponse struct {
	Success   bool   `json:"success"`
	ProductID string `json:"productId"`
	Message   string `json:"message"`
}

type metadataResponse struct {
	Success   bool              `json:"success"`
	ProductID string            `json:"productId"`
	Metadata  map[string]string `json:"metadata"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// productRequest is the body of POST /product and PUT /product/{id}.
// Absent fields stay nil so updates can be partial.
type productRequest struct {
	Title          *string           `json:"title"`
	Description    *string           `json:"description"`
	Rating         *float64          `json:"rating"`
	ReviewCount    *int              `json:"reviewCount"`
	Stock          *int              `json:"stock"`
	Price          *float64          `json:"price"`
	MRP            *float64          `json:"mrp"`
	Currency       *string           `json:"currency"`
	UnitsSold      *int              `json:"unitsSold"`
	SalesVelocity  *float64          `json:"salesVelocity"`
	ReturnRate     *float64          `json:"returnRate"`
	ComplaintCount *int              `json:"complaintCount"`
	Metadata       map[string]string `json:"metadata"`
	SearchKeywords []string          `json:"searchKeywords"`
	IsActive       *bool             `json:"isActive"`
}

type metadataRequest struct {
	ProductID string            `json:"productId"`
	Metadata  map[string]string `json:"metadata"`
}

// missingRequired reports whether a create request lacks title, description, price or stock.
func (r *productRequest) missingRequired() bool {
	return r.Title == nil || r.Description == nil || r.Price == nil || r.Stock == nil
}

func (r *productRequest) toDraft() domprod.Draft {
	return domprod.Draft{
		Title:          deref(r.Title),
		Description:    deref(r.Description),
		Rating:         deref(r.Rating),
		ReviewCount:    deref(r.ReviewCount),
		Stock:          deref(r.Stock),
		Price:          deref(r.Price),
		MRP:            deref(r.MRP),
		Currency:       deref(r.Currency),
		UnitsSold:      deref(r.UnitsSold),
		SalesVelocity:  deref(r.SalesVelocity),
		ReturnRate:     deref(r.ReturnRate),
		ComplaintCount: deref(r.ComplaintCount),
		Metadata:       r.Metadata,
		SearchKeywords: r.SearchKeywords,
	}
}

func (r *productRequest) toUpdate() domprod.Update {
	return domprod.Update{
		Title:          r.Title,
		Description:    r.Description,
		Rating:         r.Rating,
		ReviewCount:    r.ReviewCount,
		Stock:          r.Stock,
		Price:          r.Price,
		MRP:            r.MRP,
		Currency:       r.Currency,
		UnitsSold:      r.UnitsSold,
		SalesVelocity:  r.SalesVelocity,
		ReturnRate:     r.ReturnRate,
		ComplaintCount: r.ComplaintCount,
		Metadata:       r.Metadata,
		SearchKeywords: r.SearchKeywords,
		IsActive:       r.IsActive,
	}
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func productToJSON(p *domprod.Product) productJSON {
	meta := p.Metadata()
	if meta == nil {
		meta = map[string]string{}
	}
	keywords := p.SearchKeywords()
	if keywords == nil {
		keywords = []string{}
	}
	return productJSON{
		ID:                 p.ID(),
		Title:              p.Title(),
		Description:        p.Description(),
		Rating:             p.Rating(),
		ReviewCount:        p.ReviewCount(),
		Stock:              p.Stock(),
		Price:              p.Price(),
		MRP:                p.MRP(),
		Currency:           p.Currency(),
		UnitsSold:          p.UnitsSold(),
		SalesVelocity:      p.SalesVelocity(),
		ReturnRate:         p.ReturnRate(),
		ComplaintCount:     p.ComplaintCount(),
		DiscountPercentage: p.DiscountPercentage(),
		Availability:       string(p.Availability()),
		Metadata:           meta,
		SearchKeywords:     keywords,
		IsActive:           p.IsActive(),
		CreatedAt:          p.CreatedAt(),
		UpdatedAt:          p.UpdatedAt(),
	}
}

func searchToJSON(resp *searchuc.Response) searchResponse {
	data := make([]scoredJSON, len(resp.Data))
	for i := range resp.Data {
		data[i] = scoredToJSON(&resp.Data[i])
	}
	m := resp.Metadata
	return searchResponse{
		Success: true,
		Data:    data,
		Metadata: searchMetadataJSON{
			TotalResults:     m.TotalResults,
			Page:             m.Page,
			Limit:            m.Limit,
			ProcessingTimeMs: m.ProcessingTimeMs,
			Fallback:         m.Fallback,
			Query:            m.Query,
		},
	}
}

func scoredToJSON(s *result.Scored) scoredJSON {
	return scoredJSON{productJSON: productToJSON(s.Product()), Score: s.Score()}
}

func pageToJSON(p *productuc.Page) listResponse {
	data := make([]productJSON, len(p.Items))
	for i := range p.Items {
		data[i] = productToJSON(&p.Items[i])
	}
	return listResponse{
		Success: true,
		Data:    data,
		Pagination: paginationJSON{
			Total: p.Total,
			Page:  p.Page,
			Limit: p.Limit,
			Pages: p.Pages,
		},
	}
}
