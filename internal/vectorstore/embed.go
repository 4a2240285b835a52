package vectorstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/unidex/internal/domain"
	"github.com/kailas-cloud/unidex/internal/domain/entity"
	"github.com/kailas-cloud/unidex/internal/embedtext"
)

// EmbedOptions configures an EmbedAll run.
type EmbedOptions struct {
	// Force re-embeds entities even when their content hash is unchanged.
	Force bool
	// DryRun reports what would be embedded without calling the provider.
	DryRun bool
	// OnProgress, when set, is invoked after each successfully embedded
	// entity with (completed, total). Failed entities do not advance the
	// counter.
	OnProgress func(completed, total int)
}

// Failure records one per-entity embedding failure. The batch skips the
// entity and continues.
type Failure struct {
	EntityID string
	Err      error
}

// Summary is the outcome of an EmbedAll run.
type Summary struct {
	Total    int
	Embedded int
	Skipped  int
	Failures []Failure
}

// NothingToDo reports whether the run found no pending entities.
func (s Summary) NothingToDo() bool {
	return s.Total == 0
}

// EmbedAll embeds every entity lacking a current embedding (or all of them
// under Force), rate-limited and with per-entity failure isolation. Each
// entity's write is atomic: the record lands in the map with its content
// hash, or not at all. The store is persisted periodically during the batch
// and once after it; cancellation via ctx stops between entities without
// corrupting state.
func (s *Store) EmbedAll(ctx context.Context, entities []entity.Entity, opts EmbedOptions) (Summary, error) {
	if err := s.ensureLoaded(); err != nil {
		return Summary{}, err
	}

	type pendingItem struct {
		id   string
		text string
		hash string
	}

	var pending []pendingItem
	var skipped int
	for i := range entities {
		text := embedtext.Build(&entities[i])
		hash := contentHash(text)

		if !opts.Force && s.isCurrent(entities[i].ID, hash) {
			skipped++
			continue
		}
		pending = append(pending, pendingItem{id: entities[i].ID, text: text, hash: hash})
	}

	summary := Summary{Total: len(pending), Skipped: skipped}

	if opts.DryRun || len(pending) == 0 {
		return summary, nil
	}

	dirty := 0
	for _, item := range pending {
		if err := s.limiter.Wait(ctx); err != nil {
			// Cancelled mid-batch: persist what we have and stop cleanly.
			if saveErr := s.save(); saveErr != nil {
				s.logger.Error("Failed to persist partial batch", zap.Error(saveErr))
			}
			return summary, fmt.Errorf("embed batch cancelled: %w", err)
		}

		vec, err := s.embedOne(ctx, item.text)
		if err != nil {
			summary.Failures = append(summary.Failures, Failure{EntityID: item.id, Err: err})
			s.logger.Warn("Embedding failed, skipping entity",
				zap.String("entity_id", item.id),
				zap.Error(err),
			)
			continue
		}

		s.mu.Lock()
		s.records[item.id] = Record{
			Vector:      vec,
			ContentHash: item.hash,
			Model:       s.model,
			CreatedAt:   time.Now().UTC(),
		}
		s.mu.Unlock()

		summary.Embedded++
		dirty++

		if opts.OnProgress != nil {
			opts.OnProgress(summary.Embedded, len(pending))
		}

		if dirty >= s.flushEvery {
			if err := s.save(); err != nil {
				// In-memory embeddings survive; retry at batch end.
				s.logger.Error("Periodic persist failed", zap.Error(err))
			} else {
				dirty = 0
			}
		}
	}

	if err := s.save(); err != nil {
		return summary, fmt.Errorf("persist embeddings: %w", err)
	}

	s.cache.Clear()
	return summary, nil
}

// embedOne calls the provider with the per-call timeout.
func (s *Store) embedOne(ctx context.Context, text string) ([]float32, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.embedTimeout)
	defer cancel()

	res, err := s.embedder.Embed(callCtx, text)
	if err != nil {
		return nil, err
	}
	return res.Embedding, nil
}

// isCurrent reports whether the stored record matches the hash and model.
func (s *Store) isCurrent(id, hash string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	return ok && rec.Model == s.model && rec.ContentHash == hash
}

func (s *Store) ensureLoaded() error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if !loaded {
		return domain.ErrStoreNotLoaded
	}
	return nil
}

func contentHash(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}
