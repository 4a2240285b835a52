package search

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/unidex/internal/domain/entity"
	"github.com/kailas-cloud/unidex/internal/domain/search/mode"
	"github.com/kailas-cloud/unidex/internal/domain/search/request"
	"github.com/kailas-cloud/unidex/internal/domain/search/result"
	"github.com/kailas-cloud/unidex/internal/metrics"
	"github.com/kailas-cloud/unidex/internal/vectorstore"
)

// Params are the raw, unvalidated search parameters as received from the
// caller. Threshold < 0 means "not provided" and selects the default.
type Params struct {
	Query     string
	Mode      string
	Domain    string
	Type      string
	TopK      int
	Threshold float64
}

// HitMetadata is the metadata subset exposed on a search hit. Funding
// figures and the open custom map stay internal.
type HitMetadata struct {
	Sector   string   `json:"sector,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	TRL      int      `json:"trl,omitempty"`
}

// HitEntity is the entity subset exposed on a search hit.
type HitEntity struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Type        entity.Type   `json:"entityType"`
	Domain      entity.Domain `json:"domain"`
	Metadata    HitMetadata   `json:"metadata"`
}

// Hit is a single shaped search result.
type Hit struct {
	Entity            HitEntity        `json:"entity"`
	Similarity        float64          `json:"similarity"`
	SimilarityPercent int              `json:"similarityPercent"`
	MatchType         result.MatchType `json:"matchType"`
}

// Meta describes how a search was answered.
type Meta struct {
	Count    int       `json:"count"`
	Mode     mode.Mode `json:"mode"`
	Degraded bool      `json:"degraded"`
	Cached   bool      `json:"cached"`
	TookMs   int64     `json:"tookMs"`
}

// Response is the shaped search response.
type Response struct {
	Results []Hit `json:"results"`
	Meta    Meta  `json:"meta"`
}

// Service validates search parameters, dispatches to the store by mode, and
// shapes hits for the API.
type Service struct {
	store  Store
	logger *zap.Logger
}

// New creates a search service.
func New(store Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Search executes an entity search across semantic, keyword, or hybrid modes.
func (s *Service) Search(ctx context.Context, p Params) (Response, error) {
	req, err := request.New(
		p.Query,
		mode.Mode(p.Mode),
		entity.Domain(p.Domain),
		entity.Type(p.Type),
		p.TopK,
		p.Threshold,
	)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(p.Mode, "invalid").Inc()
		return Response{}, err
	}

	start := time.Now()

	hits, outcome, err := s.dispatch(ctx, &req)

	duration := time.Since(start)
	modeLabel := string(req.Mode())

	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(modeLabel, "error").Inc()
		return Response{}, fmt.Errorf("search %s: %w", modeLabel, err)
	}

	metrics.SearchRequestsTotal.WithLabelValues(modeLabel, "success").Inc()
	metrics.SearchDuration.WithLabelValues(modeLabel).Observe(duration.Seconds())
	if outcome.Degraded {
		metrics.SearchDegradedTotal.Inc()
	}
	if outcome.Cached {
		metrics.SearchCacheTotal.WithLabelValues("hit").Inc()
	} else {
		metrics.SearchCacheTotal.WithLabelValues("miss").Inc()
	}

	s.logger.Debug("Search completed",
		zap.String("mode", modeLabel),
		zap.String("query", req.Query()),
		zap.Int("count", len(hits)),
		zap.Bool("cached", outcome.Cached),
		zap.Bool("degraded", outcome.Degraded),
		zap.Duration("duration", duration),
	)

	return Response{
		Results: shapeHits(hits),
		Meta: Meta{
			Count:    len(hits),
			Mode:     req.Mode(),
			Degraded: outcome.Degraded,
			Cached:   outcome.Cached,
			TookMs:   duration.Milliseconds(),
		},
	}, nil
}

func (s *Service) dispatch(
	ctx context.Context, req *request.Request,
) ([]result.Result, vectorstore.Outcome, error) {
	switch req.Mode() {
	case mode.Semantic:
		return s.store.Search(ctx, req)
	case mode.Keyword:
		return s.store.KeywordSearch(req)
	default:
		return s.store.HybridSearch(ctx, req)
	}
}

func shapeHits(hits []result.Result) []Hit {
	shaped := make([]Hit, len(hits))
	for i := range hits {
		h := &hits[i]
		e := h.Entity()
		shaped[i] = Hit{
			Entity: HitEntity{
				ID:          e.ID,
				Name:        e.Name,
				Description: e.Description,
				Type:        e.Type,
				Domain:      e.Domain,
				Metadata: HitMetadata{
					Sector:   e.Metadata.Sector,
					Keywords: e.Metadata.Keywords,
					Tags:     e.Metadata.Tags,
					TRL:      e.Metadata.TRL,
				},
			},
			Similarity:        h.Score(),
			SimilarityPercent: int(math.Round(h.Score() * 100)),
			MatchType:         h.MatchType(),
		}
	}
	return shaped
}
