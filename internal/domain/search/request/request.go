package request

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/unidex/internal/domain"
	"github.com/kailas-cloud/unidex/internal/domain/entity"
	"github.com/kailas-cloud/unidex/internal/domain/search/mode"
)

// Search parameter limits.
const (
	// MinQueryLength is the minimum query length after trimming.
	MinQueryLength = 2
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 4096
	DefaultTopK    = 10
	MaxTopK        = 100
	// DefaultThreshold is the minimum similarity applied when none is given.
	DefaultThreshold = 0.5
)

// Request is a validated search query.
type Request struct {
	query      string
	searchMode mode.Mode
	domain     entity.Domain
	entityType entity.Type
	topK       int
	threshold  float64
}

// New validates and normalizes search parameters.
// Defaults: mode=hybrid, topK=10, threshold=0.5. A negative threshold selects
// the default; an explicit 0 disables score filtering.
func New(
	query string,
	m mode.Mode,
	dom entity.Domain,
	typ entity.Type,
	topK int,
	threshold float64,
) (Request, error) {
	query = strings.TrimSpace(query)
	if len(query) < MinQueryLength {
		return Request{}, fmt.Errorf("%w: query must be at least %d characters",
			domain.ErrInvalidQuery, MinQueryLength)
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)",
			domain.ErrInvalidQuery, MaxQueryLength)
	}
	if m == "" {
		m = mode.Hybrid
	}
	if !m.IsValid() {
		return Request{}, fmt.Errorf("%w: %q", domain.ErrInvalidMode, m)
	}
	if dom != "" && !dom.IsValid() {
		return Request{}, fmt.Errorf("%w: unknown domain %q", domain.ErrInvalidQuery, dom)
	}
	if typ != "" && !typ.IsValid() {
		return Request{}, fmt.Errorf("%w: unknown entity type %q", domain.ErrInvalidQuery, typ)
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	if topK > MaxTopK {
		topK = MaxTopK
	}
	if threshold < 0 {
		threshold = DefaultThreshold
	}
	if threshold > 1 {
		return Request{}, fmt.Errorf("%w: threshold must be between 0 and 1", domain.ErrInvalidQuery)
	}

	return Request{
		query:      query,
		searchMode: m,
		domain:     dom,
		entityType: typ,
		topK:       topK,
		threshold:  threshold,
	}, nil
}

// Query returns the trimmed search query text.
func (r *Request) Query() string { return r.query }

// Mode returns the search strategy.
func (r *Request) Mode() mode.Mode { return r.searchMode }

// Domain returns the dataset domain filter ("" = all).
func (r *Request) Domain() entity.Domain { return r.domain }

// EntityType returns the entity type filter ("" = all).
func (r *Request) EntityType() entity.Type { return r.entityType }

// TopK returns the maximum number of results.
func (r *Request) TopK() int { return r.topK }

// Threshold returns the minimum similarity score.
func (r *Request) Threshold() float64 { return r.threshold }
