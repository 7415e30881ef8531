package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopdex/internal/domain"
	"github.com/kailas-cloud/shopdex/internal/domain/search/query"
	"github.com/kailas-cloud/shopdex/internal/domain/search/rank"
	"github.com/kailas-cloud/shopdex/internal/domain/search/result"
	"github.com/kailas-cloud/shopdex/internal/metrics"
)

// DefaultMaxPageSize bounds the page size a caller may request.
const DefaultMaxPageSize = 100

// Options are the per-call pagination options. Zero values select the defaults.
type Options struct {
	Page  int
	Limit int
}

// Metadata describes a search response.
type Metadata struct {
	TotalResults     int
	Page             int
	Limit            int
	ProcessingTimeMs int64
	Fallback         bool
	Query            query.ParsedQuery
}

// Response is one page of ranked results.
type Response struct {
	Data     []result.Scored
	Metadata Metadata
}

// Config tunes the search pipeline.
type Config struct {
	Retriever    RetrieverConfig
	DefaultLimit int
	MaxLimit     int
}

// Service orchestrates parse, retrieve, rank and paginate.
type Service struct {
	parser    *query.Parser
	retriever *Retriever
	ranker    *rank.Ranker
	cfg       Config
	logger    *zap.Logger
	now       func() time.Time
}

// New creates a search service.
func New(store ProductStore, parser *query.Parser, ranker *rank.Ranker, cfg Config, logger *zap.Logger) *Service {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = rank.DefaultLimit
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = DefaultMaxPageSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		parser:    parser,
		retriever: NewRetriever(store, cfg.Retriever),
		ranker:    ranker,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Search runs the full pipeline for one query. Store failures surface as
// *domain.RetrievalError; a blank query is domain.ErrInvalidQuery.
func (s *Service) Search(ctx context.Context, rawQuery string, opts Options) (*Response, error) {
	start := s.now()

	resp, err := s.search(ctx, rawQuery, opts, start)

	metrics.SearchDuration.Observe(s.now().Sub(start).Seconds())
	metrics.SearchRequestsTotal.WithLabelValues(outcome(resp, err)).Inc()
	return resp, err
}

func (s *Service) search(ctx context.Context, rawQuery string, opts Options, start time.Time) (*Response, error) {
	if strings.TrimSpace(rawQuery) == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrInvalidQuery)
	}
	page, limit := s.pagination(opts)

	parsed := s.parser.Parse(rawQuery)
	s.logger.Debug("Query parsed",
		zap.String("query", rawQuery),
		zap.String("cleaned", parsed.CleanedText),
		zap.Strings("tokens", parsed.Tokens),
		zap.Bool("cheap", parsed.CheapIntent),
		zap.Bool("expensive", parsed.ExpensiveIntent),
		zap.String("color", parsed.Color),
		zap.String("storage", parsed.Storage),
	)

	candidates, err := s.retriever.Retrieve(ctx, &parsed)
	if err != nil {
		s.logger.Error("Candidate retrieval failed", zap.String("query", rawQuery), zap.Error(err))
		return nil, err
	}
	if candidates.Fallback {
		metrics.SearchFallbackTotal.Inc()
	}
	metrics.SearchCandidates.Observe(float64(len(candidates.Products)))
	s.logger.Debug("Candidates retrieved",
		zap.Int("count", len(candidates.Products)),
		zap.Bool("fallback", candidates.Fallback),
	)

	ranked := s.ranker.Rank(candidates.Products, &parsed)
	data := rank.Paginate(ranked, page, limit)
	s.logger.Debug("Candidates ranked", zap.Int("total", len(ranked)), zap.Int("page_size", len(data)))

	return &Response{
		Data: data,
		Metadata: Metadata{
			TotalResults:     len(ranked),
			Page:             page,
			Limit:            limit,
			ProcessingTimeMs: s.now().Sub(start).Milliseconds(),
			Fallback:         candidates.Fallback,
			Query:            parsed,
		},
	}, nil
}

func (s *Service) pagination(opts Options) (page, limit int) {
	page, limit = opts.Page, opts.Limit
	if page < 1 {
		page = rank.DefaultPage
	}
	if limit < 1 {
		limit = s.cfg.DefaultLimit
	}
	if limit > s.cfg.MaxLimit {
		limit = s.cfg.MaxLimit
	}
	return page, limit
}

func outcome(resp *Response, err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidQuery):
		return metrics.OutcomeInvalid
	case err != nil:
		return metrics.OutcomeError
	case resp.Metadata.TotalResults == 0:
		return metrics.OutcomeEmpty
	default:
		return metrics.OutcomeOK
	}
}
