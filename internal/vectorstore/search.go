package vectorstore

import (
	"context"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/unidex/internal/domain/entity"
	"github.com/kailas-cloud/unidex/internal/domain/search/mode"
	"github.com/kailas-cloud/unidex/internal/domain/search/request"
	"github.com/kailas-cloud/unidex/internal/domain/search/result"
)

// Keyword scoring weights: a term hit in the name counts double a hit in the
// description. Scores are normalized to [0,1] by maxTermWeight*termCount.
const (
	nameWeight    = 2.0
	descWeight    = 1.0
	maxTermWeight = nameWeight + descWeight
	// minTermLength drops short tokens, matching the knowledge-base search
	// precedent (terms must be longer than 2 characters).
	minTermLength = 3
)

// Outcome carries search metadata alongside the results.
type Outcome struct {
	// Cached is true when the result list came from the query cache.
	Cached bool
	// Degraded is true when hybrid search fell back to keyword-only because
	// the embedding provider was unavailable.
	Degraded bool
}

// Search runs semantic search: embed the query with the same model as the
// entities, score every stored vector by cosine similarity, filter, sort
// descending, truncate to topK. When the embedding provider is unavailable
// the call degrades to keyword scoring with the outcome flagged Degraded,
// the same fallback hybrid uses; degraded results are not cached.
func (s *Store) Search(ctx context.Context, req *request.Request) ([]result.Result, Outcome, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, Outcome{}, err
	}

	key := cacheKey(mode.Semantic, req)
	if hits, ok := s.cache.Get(key); ok {
		return hits, Outcome{Cached: true}, nil
	}

	queryVec, err := s.embedOne(ctx, req.Query())
	if err != nil {
		s.logger.Warn("Embedding provider unavailable, degrading semantic search to keyword",
			zap.String("query", req.Query()),
			zap.Error(err),
		)
		return s.scoreKeyword(req), Outcome{Degraded: true}, nil
	}

	hits := s.scoreSemantic(queryVec, req)
	s.cache.Put(key, hits)
	return hits, Outcome{}, nil
}

// KeywordSearch scores entities by weighted term overlap against name and
// description. Deterministic: repeating a query yields the same ranked list
// and scores.
func (s *Store) KeywordSearch(req *request.Request) ([]result.Result, Outcome, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, Outcome{}, err
	}

	key := cacheKey(mode.Keyword, req)
	if hits, ok := s.cache.Get(key); ok {
		return hits, Outcome{Cached: true}, nil
	}

	hits := s.scoreKeyword(req)
	s.cache.Put(key, hits)
	return hits, Outcome{}, nil
}

// HybridSearch runs both modes and merges by entity id, keeping the higher
// of the two scores (documented rule; a hit present in both lists is marked
// hybrid). When the embedding provider is unavailable the semantic leg is
// dropped and the outcome is flagged Degraded instead of failing the call.
func (s *Store) HybridSearch(ctx context.Context, req *request.Request) ([]result.Result, Outcome, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, Outcome{}, err
	}

	key := cacheKey(mode.Hybrid, req)
	if hits, ok := s.cache.Get(key); ok {
		return hits, Outcome{Cached: true}, nil
	}

	var outcome Outcome

	var semantic []result.Result
	queryVec, err := s.embedOne(ctx, req.Query())
	if err != nil {
		outcome.Degraded = true
		s.logger.Warn("Semantic leg unavailable, degrading to keyword search",
			zap.String("query", req.Query()),
			zap.Error(err),
		)
	} else {
		semantic = s.scoreSemantic(queryVec, req)
	}

	keyword := s.scoreKeyword(req)
	hits := mergeMax(semantic, keyword, req.TopK())

	// Degraded results are not cached: the provider may recover.
	if !outcome.Degraded {
		s.cache.Put(key, hits)
	}
	return hits, outcome, nil
}

// scoreSemantic scores every stored vector against queryVec under the
// request filters. Caller must have loaded the store.
func (s *Store) scoreSemantic(queryVec []float32, req *request.Request) []result.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var hits []result.Result
	for id, rec := range s.records {
		if rec.Model != s.model {
			continue
		}
		e := s.index.Entity(id)
		if e == nil || !matchesFilters(e, req) {
			continue
		}

		score := CosineSimilarity(queryVec, rec.Vector)
		if score < req.Threshold() {
			continue
		}
		hits = append(hits, result.New(e, score, result.Semantic))
	}

	sortHits(hits)
	return truncate(hits, req.TopK())
}

// scoreKeyword scores all indexed entities by term overlap.
func (s *Store) scoreKeyword(req *request.Request) []result.Result {
	terms := Tokenize(req.Query())
	if len(terms) == 0 {
		return nil
	}

	entities := s.index.Entities()
	var hits []result.Result
	for i := range entities {
		e := &entities[i]
		if !matchesFilters(e, req) {
			continue
		}

		name := strings.ToLower(e.Name)
		desc := strings.ToLower(e.Description)

		var weight float64
		for _, term := range terms {
			if strings.Contains(name, term) {
				weight += nameWeight
			}
			if strings.Contains(desc, term) {
				weight += descWeight
			}
		}
		if weight == 0 {
			continue
		}

		score := weight / (maxTermWeight * float64(len(terms)))
		if score < req.Threshold() {
			continue
		}
		hits = append(hits, result.New(e, score, result.Keyword))
	}

	sortHits(hits)
	return truncate(hits, req.TopK())
}

// mergeMax merges two hit lists by entity id keeping the higher score. Hits
// present in both lists are marked hybrid.
func mergeMax(semantic, keyword []result.Result, topK int) []result.Result {
	merged := make(map[string]result.Result, len(semantic)+len(keyword))

	for _, h := range semantic {
		merged[h.Entity().ID] = h
	}
	for _, h := range keyword {
		prev, ok := merged[h.Entity().ID]
		if !ok {
			merged[h.Entity().ID] = h
			continue
		}
		best := prev.Score()
		if h.Score() > best {
			best = h.Score()
		}
		merged[h.Entity().ID] = prev.WithScore(best, result.Hybrid)
	}

	hits := make([]result.Result, 0, len(merged))
	for _, h := range merged {
		hits = append(hits, h)
	}
	sortHits(hits)
	return truncate(hits, topK)
}

// Tokenize splits a query into lowercase terms longer than 2 characters.
func Tokenize(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !isWordRune(r)
	})

	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) >= minTermLength {
			terms = append(terms, f)
		}
	}
	return terms
}

func isWordRune(r rune) bool {
	return r == '_' || r == '-' ||
		(r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r > 127
}

// CosineSimilarity computes dot(a,b) / (||a||*||b||) with float64
// accumulation. Defined as 0 when either vector has zero norm, never NaN.
func CosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func matchesFilters(e *entity.Entity, req *request.Request) bool {
	if req.Domain() != "" && e.Domain != req.Domain() {
		return false
	}
	if req.EntityType() != "" && e.Type != req.EntityType() {
		return false
	}
	return true
}

// sortHits orders by score descending, entity id ascending for determinism.
func sortHits(hits []result.Result) {
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score() != hits[j].Score() {
			return hits[i].Score() > hits[j].Score()
		}
		return hits[i].Entity().ID < hits[j].Entity().ID
	})
}

func truncate(hits []result.Result, topK int) []result.Result {
	if len(hits) > topK {
		return hits[:topK]
	}
	return hits
}
