package search

import (
	"context"

	"github.com/kailas-cloud/unidex/internal/domain/search/request"
	"github.com/kailas-cloud/unidex/internal/domain/search/result"
	"github.com/kailas-cloud/unidex/internal/vectorstore"
)

// Store defines the vector store contract for search operations.
type Store interface {
	Search(ctx context.Context, req *request.Request) ([]result.Result, vectorstore.Outcome, error)
	KeywordSearch(req *request.Request) ([]result.Result, vectorstore.Outcome, error)
	HybridSearch(ctx context.Context, req *request.Request) ([]result.Result, vectorstore.Outcome, error)
}
