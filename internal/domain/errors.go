package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrEntityNotFound signals a missing entity.
	ErrEntityNotFound = errors.New("entity not found")
	// ErrDuplicateEntity signals two entities sharing one id across domains.
	ErrDuplicateEntity = errors.New("duplicate entity id")
	// ErrInvalidQuery signals a missing or too-short search query.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrInvalidMode signals an unsupported search mode.
	ErrInvalidMode = errors.New("invalid search mode")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrStoreNotLoaded signals the vector store was used before Load.
	ErrStoreNotLoaded = errors.New("vector store not loaded")
)
