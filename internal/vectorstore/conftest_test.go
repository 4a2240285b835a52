package vectorstore

import (
	"context"
	"hash/fnv"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/unidex/internal/domain"
	"github.com/kailas-cloud/unidex/internal/domain/entity"
)

// fakeIndex is a minimal EntityIndex over a fixed entity slice.
type fakeIndex struct {
	entities []entity.Entity
	byID     map[string]*entity.Entity
}

func newFakeIndex(entities []entity.Entity) *fakeIndex {
	idx := &fakeIndex{entities: entities, byID: make(map[string]*entity.Entity)}
	for i := range idx.entities {
		idx.byID[idx.entities[i].ID] = &idx.entities[i]
	}
	return idx
}

func (f *fakeIndex) Entities() []entity.Entity      { return f.entities }
func (f *fakeIndex) Entity(id string) *entity.Entity { return f.byID[id] }

// fakeEmbedder deterministically hashes tokens into vector buckets so texts
// sharing words land close in cosine space. failing makes every call error.
type fakeEmbedder struct {
	dims    int
	failing bool
	calls   int
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	f.calls++
	if f.failing {
		return domain.EmbeddingResult{}, domain.ErrEmbeddingProviderError
	}

	dims := f.dims
	if dims == 0 {
		dims = 256
	}
	vec := make([]float32, dims)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = strings.Trim(tok, ".,:;")
		if tok == "" {
			continue
		}
		h := fnv.New32a()
		h.Write([]byte(tok))
		vec[h.Sum32()%uint32(dims)]++
	}
	return domain.EmbeddingResult{Embedding: vec, TotalTokens: len(text) / 4}, nil
}

func seedEntities() []entity.Entity {
	return []entity.Entity{
		{
			ID: "atlas-ch-001", Name: "Hydrogen Aircraft Technology",
			Description: "Zero-emission aviation via hydrogen propulsion systems",
			Type:        entity.Challenge, Domain: entity.Atlas,
			Metadata: entity.Metadata{Keywords: []string{"hydrogen", "aviation"}},
		},
		{
			ID: "atlas-ch-002", Name: "Sustainable Aviation Fuel",
			Description: "Drop-in fuels for existing fleets",
			Type:        entity.Challenge, Domain: entity.Atlas,
		},
		{
			ID: "nav-t-001", Name: "PEM Fuel Cell",
			Description: "Proton exchange membrane stack for mobility",
			Type:        entity.Technology, Domain: entity.Navigate,
		},
		{
			ID: "cpc-s-001", Name: "Aero Corp",
			Description: "Airframe manufacturer exploring hydrogen retrofits",
			Type:        entity.Stakeholder, Domain: entity.CPCInternal,
		},
	}
}

func nopLogger() *zap.Logger { return zap.NewNop() }

// newTestStore builds a loaded store over the seed entities with a fast rate
// limit so batch tests do not sleep.
func newTestStore(t *testing.T, embedder domain.Embedder) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "embeddings.json")
	s := New(path, "test-model", newFakeIndex(seedEntities()), embedder, zap.NewNop(),
		WithEmbedRate(10000))
	if err := s.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	return s
}

// embedSeed runs EmbedAll over the seed entities and fails the test on error.
func embedSeed(t *testing.T, s *Store) Summary {
	t.Helper()

	sum, err := s.EmbedAll(context.Background(), seedEntities(), EmbedOptions{})
	if err != nil {
		t.Fatalf("embed all: %v", err)
	}
	return sum
}
