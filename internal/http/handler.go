package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/davidbz/ember/internal/config"
	"github.com/davidbz/ember/internal/domain"
	"github.com/davidbz/ember/internal/observability"
)

const maxRequestBytes = 1 << 20

var (
	errCacheFilesDisabled = errors.New("cache file endpoints are disabled (CACHE_DIR is empty)")
	errOutsideCacheDir    = errors.New("path must name a file inside the cache directory")
)

// Handler handles HTTP requests.
type Handler struct {
	orchestrator *domain.Orchestrator
	metrics      *observability.Metrics
	cacheDir     string
}

// NewHandler creates a new HTTP handler (DI constructor).
// Cache save/load requests name files relative to cacheCfg.Dir.
func NewHandler(
	orchestrator *domain.Orchestrator,
	metrics *observability.Metrics,
	cacheCfg *config.CacheConfig,
) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		metrics:      metrics,
		cacheDir:     cacheCfg.Dir,
	}
}

type queryRequest struct {
	Question string `json:"question"`
}

type cacheRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type cacheFileRequest struct {
	Path string `json:"path"`
}

type cacheFileResponse struct {
	Path    string `json:"path"`
	Entries int    `json:"entries"`
}

// streamEvent is the SSE payload for a domain.Event.
type streamEvent struct {
	Type      domain.EventType  `json:"type"`
	Node      domain.Node       `json:"node,omitempty"`
	Messages  []domain.Message  `json:"messages,omitempty"`
	Answer    string            `json:"answer,omitempty"`
	CacheInfo *domain.CacheInfo `json:"cache_info,omitempty"`
	Error     string            `json:"error,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HandleQuery answers a question synchronously.
func (h *Handler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req queryRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	ctx := r.Context()
	logger := observability.FromContext(ctx)
	logger.Info("query received", observability.Int("question_length", len(req.Question)))

	result, err := h.orchestrator.Query(ctx, req.Question)
	if err != nil {
		logger.Error("query failed", observability.Error(err))
		writeError(w, statusFor(err), err)
		return
	}

	logger.Info("query answered", observability.Bool("cache_hit", result.CacheHit))
	writeJSON(ctx, w, http.StatusOK, result)
}

// HandleQueryStream answers a question as Server-Sent Events, one per stream event.
func (h *Handler) HandleQueryStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req queryRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	logger := observability.FromContext(ctx)

	flusher, ok := w.(http.Flusher)
	if !ok {
		logger.Error("streaming not supported")
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	// Set headers for SSE.
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	for event := range h.orchestrator.QueryStream(ctx, req.Question) {
		payload := streamEvent{
			Type:      event.Type,
			Node:      event.Node,
			Messages:  event.Messages,
			Answer:    event.Answer,
			CacheInfo: event.CacheInfo,
			Error:     "",
		}
		switch {
		case event.Degraded():
			// The step ceiling is reported through the answer alone.
			logger.Warn("stream ended with degraded answer")
		case event.Err != nil:
			payload.Error = event.Err.Error()
			logger.Error("stream ended with error", observability.Error(event.Err))
		}

		data, err := json.Marshal(payload)
		if err != nil {
			logger.Error("failed to encode stream event", observability.Error(err))
			cancel()
			continue
		}

		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data); err != nil {
			// Client went away; cancelling stops the producer.
			logger.Info("stream client disconnected", observability.Error(err))
			cancel()
			continue
		}
		flusher.Flush()
	}

	logger.Info("stream completed")
}

// HandleAddToCache seeds the semantic cache with a question/answer pair.
func (h *Handler) HandleAddToCache(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req cacheRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, domain.ErrEmptyQuestion)
		return
	}

	if err := h.orchestrator.AddToCache(r.Context(), req.Question, req.Answer); err != nil {
		observability.FromContext(r.Context()).Error("add to cache failed", observability.Error(err))
		writeError(w, statusFor(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleSaveCache writes every cached pair to the requested path.
func (h *Handler) HandleSaveCache(w http.ResponseWriter, r *http.Request) {
	h.handleCacheFile(w, r, h.orchestrator.Cache().SaveToFile)
}

// HandleLoadCache appends the pairs of the requested file to the cache.
func (h *Handler) HandleLoadCache(w http.ResponseWriter, r *http.Request) {
	h.handleCacheFile(w, r, h.orchestrator.Cache().LoadFromFile)
}

func (h *Handler) handleCacheFile(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, path string) error,
) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req cacheFileRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Path) == "" {
		writeError(w, http.StatusBadRequest, errors.New("path is required"))
		return
	}

	ctx := r.Context()
	path, err := resolveCacheFile(h.cacheDir, req.Path)
	switch {
	case errors.Is(err, errCacheFilesDisabled):
		writeError(w, http.StatusForbidden, err)
		return
	case err != nil:
		observability.FromContext(ctx).Warn("rejected cache file path",
			observability.String("path", req.Path),
			observability.Error(err))
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := op(ctx, path); err != nil {
		observability.FromContext(ctx).Error("cache file operation failed",
			observability.String("path", req.Path),
			observability.Error(err))
		writeError(w, statusFor(err), err)
		return
	}

	entries, err := h.orchestrator.Cache().Len(ctx)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, cacheFileResponse{Path: req.Path, Entries: entries})
}

// resolveCacheFile maps a request path onto a file under dir. Absolute paths,
// ".." segments and symlinks resolving outside dir are rejected.
func resolveCacheFile(dir, name string) (string, error) {
	if dir == "" {
		return "", errCacheFilesDisabled
	}
	if !filepath.IsLocal(name) {
		return "", errOutsideCacheDir
	}

	root, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving cache directory: %w", err)
	}
	path := filepath.Join(root, name)

	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return path, nil //nolint:nilerr // root does not exist yet, save creates it
	}

	// The deepest existing ancestor decides: anything below it is created inside it.
	for p := path; ; p = filepath.Dir(p) {
		resolved, err := filepath.EvalSymlinks(p)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(realRoot, resolved)
		if err != nil || !filepath.IsLocal(rel) {
			return "", errOutsideCacheDir
		}
		return path, nil
	}
}

// HandleHealth handles health check requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]interface{}{"status": "healthy"}
	if n, err := h.orchestrator.Cache().Len(r.Context()); err == nil {
		body["cache_entries"] = n
	}
	writeJSON(r.Context(), w, http.StatusOK, body)
}

// HandleMetrics exposes Prometheus metrics.
func (h *Handler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	if h.metrics == nil {
		http.NotFound(w, r)
		return
	}
	h.metrics.Handler().ServeHTTP(w, r)
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var (
		infra    *domain.InfrastructureError
		parseErr *domain.ParseError
	)

	switch {
	case errors.Is(err, domain.ErrEmptyQuestion), errors.As(err, &parseErr):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotInitialized):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &infra):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func decodeRequest(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: err.Error()})
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Already written status, can't change it, just log.
		observability.FromContext(ctx).Error("failed to encode response", observability.Error(err))
	}
}
