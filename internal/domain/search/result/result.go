package result

import "github.com/kailas-cloud/unidex/internal/domain/entity"

// MatchType says which retrieval strategy produced a hit.
type MatchType string

// Match type constants.
const (
	Semantic MatchType = "semantic"
	Keyword  MatchType = "keyword"
	Hybrid   MatchType = "hybrid"
)

// Result is a single search hit: the matched entity plus its score.
type Result struct {
	entity    *entity.Entity
	score     float64
	matchType MatchType
}

// New creates a search result.
func New(e *entity.Entity, score float64, matchType MatchType) Result {
	return Result{entity: e, score: score, matchType: matchType}
}

// Entity returns the matched entity.
func (r *Result) Entity() *entity.Entity { return r.entity }

// Score returns the relevance score in [0,1].
func (r *Result) Score() float64 { return r.score }

// MatchType returns the retrieval strategy that produced the hit.
func (r *Result) MatchType() MatchType { return r.matchType }

// WithScore returns a copy carrying a different score and match type.
// Used by hybrid fusion when merging per-mode hits.
func (r *Result) WithScore(score float64, matchType MatchType) Result {
	return Result{entity: r.entity, score: score, matchType: matchType}
}
