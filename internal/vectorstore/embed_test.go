package vectorstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/unidex/internal/domain"
)

func TestEmbedAll_EmbedsPending(t *testing.T) {
	s := newTestStore(t, &fakeEmbedder{})

	sum := embedSeed(t, s)
	if sum.Embedded != len(seedEntities()) {
		t.Errorf("embedded = %d, want %d", sum.Embedded, len(seedEntities()))
	}
	for _, e := range seedEntities() {
		if !s.Has(e.ID) {
			t.Errorf("Has(%s) = false after embed", e.ID)
		}
	}
}

func TestEmbedAll_SecondRunNothingToDo(t *testing.T) {
	s := newTestStore(t, &fakeEmbedder{})
	embedSeed(t, s)

	sum, err := s.EmbedAll(context.Background(), seedEntities(), EmbedOptions{})
	if err != nil {
		t.Fatalf("second embed all: %v", err)
	}
	if !sum.NothingToDo() {
		t.Errorf("second run embedded %d entities, want nothing to do", sum.Total)
	}
	if sum.Skipped != len(seedEntities()) {
		t.Errorf("skipped = %d, want all %d", sum.Skipped, len(seedEntities()))
	}
}

func TestEmbedAll_ForceReembeds(t *testing.T) {
	emb := &fakeEmbedder{}
	s := newTestStore(t, emb)
	embedSeed(t, s)

	before := emb.calls
	sum, err := s.EmbedAll(context.Background(), seedEntities(), EmbedOptions{Force: true})
	if err != nil {
		t.Fatalf("forced embed all: %v", err)
	}
	if sum.Embedded != len(seedEntities()) {
		t.Errorf("forced run embedded %d, want all", sum.Embedded)
	}
	if emb.calls <= before {
		t.Error("force must call the provider again")
	}
}

func TestEmbedAll_ContentChangeTriggersReembed(t *testing.T) {
	s := newTestStore(t, &fakeEmbedder{})
	embedSeed(t, s)

	changed := seedEntities()
	changed[0].Description = "Completely rewritten description"

	sum, err := s.EmbedAll(context.Background(), changed, EmbedOptions{})
	if err != nil {
		t.Fatalf("embed all: %v", err)
	}
	if sum.Embedded != 1 {
		t.Errorf("embedded = %d, want 1 (only the changed entity)", sum.Embedded)
	}
}

func TestEmbedAll_DryRun(t *testing.T) {
	emb := &fakeEmbedder{}
	s := newTestStore(t, emb)

	sum, err := s.EmbedAll(context.Background(), seedEntities(), EmbedOptions{DryRun: true})
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if sum.Total != len(seedEntities()) {
		t.Errorf("dry run total = %d, want %d pending", sum.Total, len(seedEntities()))
	}
	if emb.calls != 0 {
		t.Error("dry run must not call the provider")
	}
	if s.Has("atlas-ch-001") {
		t.Error("dry run must not store embeddings")
	}
}

func TestEmbedAll_FailureSkipsAndContinues(t *testing.T) {
	emb := &flakyEmbedder{failOn: 2}
	s := newTestStore(t, emb)

	sum, err := s.EmbedAll(context.Background(), seedEntities(), EmbedOptions{})
	if err != nil {
		t.Fatalf("embed all must not abort on per-entity failure: %v", err)
	}
	if len(sum.Failures) != 1 {
		t.Fatalf("failures = %d, want 1", len(sum.Failures))
	}
	if sum.Embedded != len(seedEntities())-1 {
		t.Errorf("embedded = %d, want %d", sum.Embedded, len(seedEntities())-1)
	}
	if !errors.Is(sum.Failures[0].Err, domain.ErrEmbeddingProviderError) {
		t.Errorf("failure err = %v", sum.Failures[0].Err)
	}
}

func TestEmbedAll_Progress(t *testing.T) {
	s := newTestStore(t, &fakeEmbedder{})

	var progress [][2]int
	_, err := s.EmbedAll(context.Background(), seedEntities(), EmbedOptions{
		OnProgress: func(current, total int) {
			progress = append(progress, [2]int{current, total})
		},
	})
	if err != nil {
		t.Fatalf("embed all: %v", err)
	}

	if len(progress) != len(seedEntities()) {
		t.Fatalf("progress calls = %d, want one per entity", len(progress))
	}
	last := progress[len(progress)-1]
	if last[0] != last[1] {
		t.Errorf("final progress = %d/%d, want complete", last[0], last[1])
	}
}

func TestEmbedAll_ProgressCountsCompletedOnly(t *testing.T) {
	s := newTestStore(t, &flakyEmbedder{failOn: 2})

	var completed []int
	sum, err := s.EmbedAll(context.Background(), seedEntities(), EmbedOptions{
		OnProgress: func(c, total int) {
			completed = append(completed, c)
		},
	})
	if err != nil {
		t.Fatalf("embed all: %v", err)
	}

	// A mid-batch failure must not leave a gap in the completed counter.
	for i, c := range completed {
		if c != i+1 {
			t.Fatalf("progress = %v, want consecutive completed counts", completed)
		}
	}
	if len(completed) != sum.Embedded {
		t.Errorf("progress calls = %d, want one per embedded entity (%d)", len(completed), sum.Embedded)
	}
}

func TestEmbedAll_PersistsAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "embeddings.json")
	idx := newFakeIndex(seedEntities())

	s := New(path, "test-model", idx, &fakeEmbedder{}, zap.NewNop(), WithEmbedRate(10000))
	if err := s.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	embedSeed(t, s)

	// Fresh store over the same file sees the persisted embeddings.
	restarted := New(path, "test-model", idx, &fakeEmbedder{}, zap.NewNop(), WithEmbedRate(10000))
	if err := restarted.Load(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	sum, err := restarted.EmbedAll(context.Background(), seedEntities(), EmbedOptions{})
	if err != nil {
		t.Fatalf("embed all after restart: %v", err)
	}
	if !sum.NothingToDo() {
		t.Errorf("restart re-embedded %d entities, want none", sum.Total)
	}
}

func TestEmbedAll_ModelChangeInvalidates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "embeddings.json")
	idx := newFakeIndex(seedEntities())

	s := New(path, "model-v1", idx, &fakeEmbedder{}, zap.NewNop(), WithEmbedRate(10000))
	if err := s.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	embedSeed(t, s)

	upgraded := New(path, "model-v2", idx, &fakeEmbedder{}, zap.NewNop(), WithEmbedRate(10000))
	if err := upgraded.Load(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if upgraded.Has("atlas-ch-001") {
		t.Error("embeddings for another model must not count as current")
	}
}

func TestEmbedAll_CancelledContext(t *testing.T) {
	s := newTestStore(t, &fakeEmbedder{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.EmbedAll(ctx, seedEntities(), EmbedOptions{})
	if err == nil {
		t.Error("cancelled batch must return an error")
	}
}

func TestLoad_Idempotent(t *testing.T) {
	s := newTestStore(t, &fakeEmbedder{})
	embedSeed(t, s)

	// Load after embedding must not wipe in-memory state.
	if err := s.Load(); err != nil {
		t.Fatalf("repeat load: %v", err)
	}
	if !s.Has("atlas-ch-001") {
		t.Error("repeat Load dropped embeddings")
	}
}

// flakyEmbedder fails the Nth call and succeeds otherwise.
type flakyEmbedder struct {
	fakeEmbedder
	failOn int
	n      int
}

func (f *flakyEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	f.n++
	if f.n == f.failOn {
		return domain.EmbeddingResult{}, domain.ErrEmbeddingProviderError
	}
	return f.fakeEmbedder.Embed(ctx, text)
}

func TestGetStats(t *testing.T) {
	s := newTestStore(t, &fakeEmbedder{})
	embedSeed(t, s)

	stats := s.GetStats()
	if stats.Count != len(seedEntities()) {
		t.Errorf("count = %d, want %d", stats.Count, len(seedEntities()))
	}
	if stats.SizeMB <= 0 {
		t.Errorf("size = %v MB, want > 0", stats.SizeMB)
	}
}
