// Package vectorstore owns the embedding lifecycle for unified entities and
// serves keyword, semantic, and hybrid search over an in-memory vector map
// persisted to a single JSON file.
package vectorstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/unidex/internal/domain"
	"github.com/kailas-cloud/unidex/internal/domain/entity"
)

// DefaultEmbedRate is the embedding batch rate limit in entities per second.
const DefaultEmbedRate = 5

// DefaultEmbedTimeout bounds a single embedding API call.
const DefaultEmbedTimeout = 30 * time.Second

// defaultFlushEvery persists the store every N embedded entities so a crash
// loses at most one flush window.
const defaultFlushEvery = 25

// Record is one persisted embedding: the vector plus the content hash of the
// embedding text it was computed from. The hash gates re-embedding of
// unchanged entities.
type Record struct {
	Vector      []float32 `json:"vector"`
	ContentHash string    `json:"contentHash"`
	Model       string    `json:"model"`
	CreatedAt   time.Time `json:"createdAt"`
}

// EntityIndex is the read-only view of the unified index the store searches
// over.
type EntityIndex interface {
	Entities() []entity.Entity
	Entity(id string) *entity.Entity
}

// Store is the JSON-file persisted vector store. All search methods are safe
// for concurrent use; the vector map is guarded against in-progress
// persistence writes by an RWMutex.
type Store struct {
	path     string
	model    string
	index    EntityIndex
	embedder domain.Embedder
	logger   *zap.Logger

	limiter      *rate.Limiter
	embedTimeout time.Duration
	flushEvery   int

	mu      sync.RWMutex
	records map[string]Record
	loaded  bool

	cache *queryCache
}

// Option configures a Store.
type Option func(*Store)

// WithEmbedRate overrides the embedding batch rate limit (entities/second).
func WithEmbedRate(perSecond float64) Option {
	return func(s *Store) {
		s.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithEmbedTimeout overrides the per-call embedding API timeout.
func WithEmbedTimeout(d time.Duration) Option {
	return func(s *Store) { s.embedTimeout = d }
}

// WithCacheTTL overrides the query-result cache TTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Store) { s.cache = newQueryCache(ttl) }
}

// New creates a vector store over the given index. Call Load before
// searching or embedding.
func New(path, model string, index EntityIndex, embedder domain.Embedder, logger *zap.Logger, opts ...Option) *Store {
	s := &Store{
		path:         path,
		model:        model,
		index:        index,
		embedder:     embedder,
		logger:       logger,
		limiter:      rate.NewLimiter(rate.Limit(DefaultEmbedRate), 1),
		embedTimeout: DefaultEmbedTimeout,
		flushEvery:   defaultFlushEvery,
		records:      make(map[string]Record),
		cache:        newQueryCache(defaultCacheTTL),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads persisted embeddings from disk into memory. Idempotent: repeat
// calls after a successful load are no-ops. A missing file is an empty store,
// not an error.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return nil
	}

	data, err := os.ReadFile(filepath.Clean(s.path))
	if err != nil {
		if os.IsNotExist(err) {
			s.loaded = true
			return nil
		}
		return fmt.Errorf("read vector store %s: %w", s.path, err)
	}

	records := make(map[string]Record)
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("parse vector store %s: %w", s.path, err)
	}

	s.records = records
	s.loaded = true
	s.logger.Info("Vector store loaded",
		zap.String("path", s.path),
		zap.Int("embeddings", len(records)),
	)
	return nil
}

// Loaded reports whether Load has completed successfully.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Has reports whether a current embedding exists for the entity under the
// store's model. O(1).
func (s *Store) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	return ok && rec.Model == s.model
}

// save writes the record map to disk atomically: full marshal to a temp file
// in the same directory, then rename. Callers must not hold s.mu beyond the
// snapshot — save takes its own read lock.
func (s *Store) save() error {
	s.mu.RLock()
	data, err := json.Marshal(s.records)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshal vector store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".embeddings-*.json")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp store file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}

// Stats reports the number of embedded entities and the store footprint in
// MB (on-disk size when the file exists, in-memory estimate otherwise).
type Stats struct {
	Count  int     `json:"count"`
	SizeMB float64 `json:"size"`
}

// GetStats returns store statistics.
func (s *Store) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var bytes int64
	if info, err := os.Stat(s.path); err == nil {
		bytes = info.Size()
	} else {
		for _, rec := range s.records {
			bytes += int64(len(rec.Vector)*4 + len(rec.ContentHash) + len(rec.Model))
		}
	}

	return Stats{
		Count:  len(s.records),
		SizeMB: float64(bytes) / (1024 * 1024),
	}
}
