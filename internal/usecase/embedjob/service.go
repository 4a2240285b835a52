package embedjob

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/unidex/internal/domain"
	"github.com/kailas-cloud/unidex/internal/domain/entity"
	"github.com/kailas-cloud/unidex/internal/vectorstore"
)

// Options configures a batch embedding run.
type Options struct {
	// Domain restricts the run to one dataset domain ("" = all).
	Domain string
	// Force re-embeds entities whose content is unchanged.
	Force bool
	// DryRun reports pending work without calling the provider.
	DryRun bool
	// OnProgress is invoked after each successfully embedded entity with
	// (completed, total).
	OnProgress func(completed, total int)
}

// Service orchestrates batch embedding of the unified index.
type Service struct {
	index  Index
	store  Batcher
	logger *zap.Logger
}

// New creates an embed job service.
func New(index Index, store Batcher, logger *zap.Logger) *Service {
	return &Service{index: index, store: store, logger: logger}
}

// Run embeds all matching entities and returns the batch summary.
func (s *Service) Run(ctx context.Context, opts Options) (vectorstore.Summary, error) {
	entities := s.index.Entities()

	if opts.Domain != "" {
		dom := entity.Domain(opts.Domain)
		if !dom.IsValid() {
			return vectorstore.Summary{}, fmt.Errorf("%w: unknown domain %q",
				domain.ErrInvalidQuery, opts.Domain)
		}
		entities = filterByDomain(entities, dom)
	}

	s.logger.Info("Starting embed batch",
		zap.Int("candidates", len(entities)),
		zap.String("domain", opts.Domain),
		zap.Bool("force", opts.Force),
		zap.Bool("dry_run", opts.DryRun),
	)

	summary, err := s.store.EmbedAll(ctx, entities, vectorstore.EmbedOptions{
		Force:      opts.Force,
		DryRun:     opts.DryRun,
		OnProgress: opts.OnProgress,
	})
	if err != nil {
		return summary, fmt.Errorf("embed batch: %w", err)
	}

	s.logger.Info("Embed batch finished",
		zap.Int("total", summary.Total),
		zap.Int("embedded", summary.Embedded),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failures", len(summary.Failures)),
	)
	return summary, nil
}

func filterByDomain(entities []entity.Entity, dom entity.Domain) []entity.Entity {
	filtered := make([]entity.Entity, 0, len(entities))
	for i := range entities {
		if entities[i].Domain == dom {
			filtered = append(filtered, entities[i])
		}
	}
	return filtered
}
