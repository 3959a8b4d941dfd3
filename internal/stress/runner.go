package stress

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ppiankov/vague/internal/worker"
)

// Sample is the outcome of one request
type Sample struct {
	OK      bool
	Status  int // 0 when no response was received
	Latency time.Duration
	Kind    string // error kind, empty when OK
}

// GetError implements worker.Result
func (s *Sample) GetError() error {
	if s.OK {
		return nil
	}
	return errors.New(s.Kind)
}

// Runner drives concurrent requests against a classify endpoint
type Runner struct {
	opts      Options
	client    *http.Client
	transport *http.Transport
	limiter   *worker.Limiter
	logger    *zap.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewRunner validates opts and prepares an HTTP client sized for the
// requested concurrency
func NewRunner(opts Options, logger *zap.Logger) (*Runner, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConns = opts.Concurrency
	transport.MaxIdleConnsPerHost = opts.Concurrency

	return &Runner{
		opts:      opts,
		client:    &http.Client{Timeout: opts.Timeout, Transport: transport},
		transport: transport,
		limiter:   worker.NewLimiter(opts.RPS, opts.Burst),
		logger:    logger,
		rng:       rand.New(rand.NewSource(opts.Seed)),
	}, nil
}

// loopJob issues requests until the run ends or the budget is spent
type loopJob struct {
	runner    *Runner
	budget    *atomic.Int64
	collector *worker.ResultCollector
	parent    context.Context
}

type loopResult struct{}

func (loopResult) GetError() error { return nil }

func (j *loopJob) Execute(ctx context.Context) worker.Result {
	r := j.runner
	for ctx.Err() == nil {
		if r.opts.Requests > 0 && j.budget.Add(1) > int64(r.opts.Requests) {
			break
		}
		if err := r.limiter.Wait(ctx, r.opts.URL); err != nil {
			break
		}
		// In-flight requests finish after the run window closes
		j.collector.Add(r.do(j.parent, r.pick()))
	}
	return loopResult{}
}

// Run executes the stress test. Cancelling ctx stops it early; the report
// covers whatever completed.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	runID := uuid.NewString()

	runCtx := ctx
	if r.opts.Requests == 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.opts.Duration)
		defer cancel()
	}

	r.logger.Info("stress run starting",
		zap.String("run_id", runID),
		zap.String("url", r.opts.URL),
		zap.Int("concurrency", r.opts.Concurrency),
		zap.Duration("duration", r.opts.Duration),
		zap.Int("requests", r.opts.Requests),
	)

	var budget atomic.Int64
	collector := worker.NewResultCollector()

	start := time.Now()

	pool := worker.NewPool(runCtx, r.opts.Concurrency)
	pool.Start()
	for i := 0; i < r.opts.Concurrency; i++ {
		pool.Submit(&loopJob{runner: r, budget: &budget, collector: collector, parent: ctx})
	}
	pool.Wait()

	elapsed := time.Since(start)
	r.transport.CloseIdleConnections()

	results := collector.Results()
	samples := make([]Sample, 0, len(results))
	for _, res := range results {
		samples = append(samples, *res.(*Sample))
	}

	report := buildReport(r.opts, runID, elapsed, samples)

	r.logger.Info("stress run finished",
		zap.String("run_id", runID),
		zap.Int("total", report.Total),
		zap.Int("errors", report.Errors),
		zap.Duration("elapsed", elapsed),
	)

	return report, nil
}

func (r *Runner) pick() string {
	r.rngMu.Lock()
	defer r.rngMu.Unlock()
	return r.opts.Texts[r.rng.Intn(len(r.opts.Texts))]
}

func (r *Runner) do(ctx context.Context, text string) *Sample {
	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return &Sample{Kind: "exception:" + err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.opts.URL, bytes.NewReader(payload))
	if err != nil {
		return &Sample{Kind: "exception:" + err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		return &Sample{Latency: time.Since(start), Kind: urlErrorKind(err)}
	}
	defer func() { _ = resp.Body.Close() }()

	body, readErr := io.ReadAll(resp.Body)
	latency := time.Since(start)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Sample{Status: resp.StatusCode, Latency: latency, Kind: "http_" + strconv.Itoa(resp.StatusCode)}
	}
	if readErr != nil {
		return &Sample{Status: resp.StatusCode, Latency: latency, Kind: urlErrorKind(readErr)}
	}

	kind := classifyBody(body)
	return &Sample{OK: kind == "", Status: resp.StatusCode, Latency: latency, Kind: kind}
}

// classifyBody returns the error kind for a 2xx body, or "" when it holds
// a boolean has_cognitive_distortion
func classifyBody(body []byte) string {
	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "invalid_json"
	}
	obj, ok := parsed.(map[string]any)
	if !ok {
		return "invalid_schema"
	}
	if _, ok := obj["has_cognitive_distortion"].(bool); !ok {
		return "invalid_schema"
	}
	return ""
}

func urlErrorKind(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}
	return fmt.Sprintf("url_error:%v", err)
}
