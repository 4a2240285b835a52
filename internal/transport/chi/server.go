package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/unidex/internal/domain"
	"github.com/kailas-cloud/unidex/internal/logger"
	healthuc "github.com/kailas-cloud/unidex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/unidex/internal/usecase/search"
	"github.com/kailas-cloud/unidex/internal/vectorstore"
)

// ErrorCode is a machine-readable error identifier returned to API clients.
type ErrorCode string

// Error codes returned by the API.
const (
	CodeBadRequest             ErrorCode = "bad_request"
	CodeValidationFailed       ErrorCode = "validation_failed"
	CodeInvalidMode            ErrorCode = "invalid_mode"
	CodeNotFound               ErrorCode = "not_found"
	CodeRateLimited            ErrorCode = "rate_limited"
	CodeEmbeddingProviderError ErrorCode = "embedding_provider_error"
	CodeStoreNotReady          ErrorCode = "store_not_ready"
	CodeInternalError          ErrorCode = "internal_error"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// SearchService executes validated entity searches.
type SearchService interface {
	Search(ctx context.Context, p searchuc.Params) (searchuc.Response, error)
}

// StoreAdmin exposes vector store observability and cache control.
type StoreAdmin interface {
	GetStats() vectorstore.Stats
	GetCacheStats() vectorstore.CacheStats
	ClearCache()
}

// HealthService aggregates component health checks.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// Server is the HTTP API for unified entity search.
type Server struct {
	search        SearchService
	store         StoreAdmin
	health        HealthService
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search SearchService, store StoreAdmin, health HealthService, logger *zap.Logger) *Server {
	s := &Server{
		search: search,
		store:  store,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidMode, http.StatusBadRequest, CodeInvalidMode),
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrEntityNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, CodeRateLimited),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, CodeEmbeddingProviderError),
		sentinelHandler(domain.ErrStoreNotLoaded, http.StatusServiceUnavailable, CodeStoreNotReady),
	}
	return s
}

// Routes mounts all API routes on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/api/ai/search", s.SearchEntities)
	r.Get("/api/ai/search", s.SearchEntitiesGet)
	r.Get("/api/ai/search/stats", s.SearchStats)
	r.Delete("/api/ai/search/cache", s.ClearSearchCache)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// searchBody is the POST /api/ai/search request body. Threshold is a pointer
// so an explicit 0 (disable score filtering) survives decoding.
type searchBody struct {
	Query     string   `json:"query"`
	Mode      string   `json:"mode"`
	Domain    string   `json:"domain"`
	Type      string   `json:"type"`
	TopK      int      `json:"topK"`
	Threshold *float64 `json:"threshold"`
}

// SearchEntities handles POST /api/ai/search.
func (s *Server) SearchEntities(w http.ResponseWriter, r *http.Request) {
	var body searchBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	threshold := -1.0
	if body.Threshold != nil {
		threshold = *body.Threshold
	}

	s.runSearch(w, r, searchuc.Params{
		Query:     body.Query,
		Mode:      body.Mode,
		Domain:    body.Domain,
		Type:      body.Type,
		TopK:      body.TopK,
		Threshold: threshold,
	})
}

// SearchEntitiesGet handles GET /api/ai/search?q=...
func (s *Server) SearchEntitiesGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	topK := 0
	if raw := q.Get("topK"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, CodeValidationFailed, "topK must be an integer")
			return
		}
		topK = n
	}

	threshold := -1.0
	if raw := q.Get("threshold"); raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, CodeValidationFailed, "threshold must be a number")
			return
		}
		threshold = f
	}

	s.runSearch(w, r, searchuc.Params{
		Query:     q.Get("q"),
		Mode:      q.Get("mode"),
		Domain:    q.Get("domain"),
		Type:      q.Get("type"),
		TopK:      topK,
		Threshold: threshold,
	})
}

func (s *Server) runSearch(w http.ResponseWriter, r *http.Request, p searchuc.Params) {
	resp, err := s.search.Search(r.Context(), p)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// statsResponse aggregates store and query-cache statistics.
type statsResponse struct {
	Store vectorstore.Stats      `json:"store"`
	Cache vectorstore.CacheStats `json:"cache"`
}

// SearchStats handles GET /api/ai/search/stats.
func (s *Server) SearchStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statsResponse{
		Store: s.store.GetStats(),
		Cache: s.store.GetCacheStats(),
	})
}

// ClearSearchCache handles DELETE /api/ai/search/cache.
func (s *Server) ClearSearchCache(w http.ResponseWriter, r *http.Request) {
	s.store.ClearCache()
	w.WriteHeader(http.StatusNoContent)
}

// healthResponse is the GET /health body.
type healthResponse struct {
	Status           healthuc.Status                 `json:"status"`
	Checks           map[string]healthuc.CheckResult `json:"checks"`
	EmbeddedEntities int                             `json:"embeddedEntities"`
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status:           report.Status,
		Checks:           report.Checks,
		EmbeddedEntities: report.EmbeddedEntities,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrInvalidMode,
		domain.ErrEntityNotFound,
		domain.ErrNotFound,
		domain.ErrRateLimited,
		domain.ErrEmbeddingProviderError,
		domain.ErrStoreNotLoaded,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	// The middleware-scoped logger carries the request id when present.
	logger.FromContext(r.Context()).Warn("domain error",
		zap.Error(err),
		zap.String("path", r.URL.Path),
	)
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
