package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ppiankov/vague/internal/cache"
	"github.com/ppiankov/vague/internal/detect"
)

// emptyTextMessage is returned when text is present but blank after trimming
const emptyTextMessage = "Text cannot be empty."

// Options configures a Handler. Zero values disable the optional parts:
// nil Metrics turns metrics off, nil Cache turns caching off.
type Options struct {
	Logger       *zap.Logger
	Metrics      *Metrics
	Cache        cache.Cache
	CacheTTL     time.Duration
	MaxBodyBytes int64
	Version      string
}

// Handler wires the HTTP endpoints to the detector.
type Handler struct {
	logger       *zap.Logger
	metrics      *Metrics
	cache        cache.Cache
	cacheTTL     time.Duration
	maxBodyBytes int64
	version      string
}

// NewHandler constructs a handler from options.
func NewHandler(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 1 << 20
	}
	return &Handler{
		logger:       logger,
		metrics:      opts.Metrics,
		cache:        opts.Cache,
		cacheTTL:     opts.CacheTTL,
		maxBodyBytes: maxBody,
		version:      opts.Version,
	}
}

// Register mounts the endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.HandleHealth)
	r.Get("/version", h.HandleVersion)
	r.Post("/classify", h.HandleClassify)
}

// HandleHealth handles GET /health. It never touches the detector.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// HandleVersion handles GET /version.
func (h *Handler) HandleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{Name: "vague", Version: h.version})
}

// HandleClassify handles POST /classify requests.
func (h *Handler) HandleClassify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := RequestID(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)

	var req ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.metrics.IncrementResult(ResultRejected)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, codeRequestTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", h.maxBodyBytes))
			return
		}
		h.logger.Debug("invalid classify body", zap.String("request_id", requestID), zap.Error(err))
		writeError(w, http.StatusUnprocessableEntity, codeInvalidRequest, "body must be a JSON object with a string field \"text\"")
		return
	}

	if req.Text == nil || *req.Text == "" {
		h.metrics.IncrementResult(ResultRejected)
		writeError(w, http.StatusUnprocessableEntity, codeInvalidRequest, "field \"text\" is required and must not be empty")
		return
	}

	text := strings.TrimSpace(*req.Text)
	if text == "" {
		h.metrics.IncrementResult(ResultRejected)
		writeError(w, http.StatusBadRequest, codeBadRequest, emptyTextMessage)
		return
	}

	explain, _ := strconv.ParseBool(r.URL.Query().Get("explain"))

	start := time.Now()
	analysis := h.analyze(text)
	h.metrics.ObserveDuration(time.Since(start))

	if analysis.HasCognitiveDistortion {
		h.metrics.IncrementResult(ResultDistorted)
	} else {
		h.metrics.IncrementResult(ResultClean)
	}

	h.logger.Debug("text classified",
		zap.String("request_id", requestID),
		zap.Int("length", len(text)),
		zap.Bool("has_cognitive_distortion", analysis.HasCognitiveDistortion),
		zap.Int("signals", len(analysis.Signals)),
	)

	if explain {
		writeJSON(w, http.StatusOK, analysis)
		return
	}
	writeJSON(w, http.StatusOK, analysis.Result)
}

// analyze runs the detector, consulting the cache when one is configured.
func (h *Handler) analyze(text string) detect.Analysis {
	if h.cache == nil {
		return detect.Analyze(text)
	}

	key := cache.CacheKey(text)
	if cached, ok := h.cache.Get(key); ok {
		h.metrics.IncrementCacheHits()
		return cached
	}

	analysis := detect.Analyze(text)
	if err := h.cache.Set(key, analysis, h.cacheTTL); err != nil {
		h.logger.Warn("cache set failed", zap.Error(err))
	}
	h.metrics.SetCacheEntries(h.cache.Len())
	return analysis
}
