package health

import (
	"context"

	"github.com/kailas-cloud/unidex/internal/vectorstore"
)

// StoreChecker reports vector store readiness.
type StoreChecker interface {
	Loaded() bool
	GetStats() vectorstore.Stats
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}

// CachePinger checks the optional embedding cache backend.
type CachePinger interface {
	Ping(ctx context.Context) error
}
