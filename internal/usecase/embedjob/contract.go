package embedjob

import (
	"context"

	"github.com/kailas-cloud/unidex/internal/domain/entity"
	"github.com/kailas-cloud/unidex/internal/vectorstore"
)

// Index supplies the unified entities to embed.
type Index interface {
	Entities() []entity.Entity
}

// Batcher runs the rate-limited embedding batch.
type Batcher interface {
	EmbedAll(ctx context.Context, entities []entity.Entity, opts vectorstore.EmbedOptions) (vectorstore.Summary, error)
}
