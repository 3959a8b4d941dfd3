package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RouterOptions configures the middleware stack
type RouterOptions struct {
	Logger         *zap.Logger
	Metrics        *Metrics
	MetricsPath    string
	RequestTimeout time.Duration
}

// NewRouter builds the chi router: request ID, access log, panic
// recovery, request timeout, then the handler's routes.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(WithRequestID)
	r.Use(AccessLog(logger))
	r.Use(chimw.Recoverer)
	if opts.RequestTimeout > 0 {
		r.Use(chimw.Timeout(opts.RequestTimeout))
	}

	h.Register(r)

	if opts.Metrics != nil {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Method(http.MethodGet, path, opts.Metrics.Handler())
	}

	return r
}
