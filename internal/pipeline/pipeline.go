// Package pipeline scans documents: load a file or URL, split it into
// sentences, classify every sentence and render a report.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/vague/internal/extract"
	"github.com/ppiankov/vague/internal/model"
	"github.com/ppiankov/vague/internal/util"
	"github.com/ppiankov/vague/internal/worker"
)

// ErrDisallowed is returned when robots.txt forbids fetching a URL
var ErrDisallowed = errors.New("disallowed by robots.txt")

// maxSentenceBytes drops runaway "sentences" such as minified text blobs
const maxSentenceBytes = 2000

// Document is a loaded source ready for sentence extraction
type Document struct {
	Source      string
	Subject     string
	Content     string
	ContentType string
	Meta        *model.FetchMeta
}

// Pipeline orchestrates the complete scan process
type Pipeline struct {
	fetcher   *Fetcher
	robots    *util.RobotsChecker // nil when robots.txt is ignored
	extractor *extract.SentenceExtractor
	batch     *worker.BatchProcessor
	renderer  *Renderer
	maxBytes  int64
	logger    *zap.Logger
}

// NewPipeline creates a new pipeline. analyze may be nil to use the
// default detector.
func NewPipeline(cfg model.ScanConfig, analyze worker.AnalyzeFunc, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}

	var robots *util.RobotsChecker
	if cfg.RespectRobots {
		robots = util.NewRobotsChecker(cfg.UserAgent, cfg.Timeout,
			util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy))
	}

	return &Pipeline{
		fetcher:   NewFetcher(cfg.Timeout, cfg.UserAgent, cfg.MaxBodyBytes, cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
		robots:    robots,
		extractor: extract.NewSentenceExtractor(maxSentenceBytes),
		batch:     worker.NewBatchProcessor(analyze, cfg.Workers),
		renderer:  NewRenderer(os.Stderr),
		maxBytes:  cfg.MaxBodyBytes,
		logger:    logger,
	}
}

// Scan loads source (a file path or an http(s) URL) and classifies it
func (p *Pipeline) Scan(ctx context.Context, source string) (*model.Report, error) {
	doc, err := p.Load(ctx, source)
	if err != nil {
		return nil, err
	}
	return p.ScanDocument(ctx, doc)
}

// Load reads a local file or fetches a URL
func (p *Pipeline) Load(ctx context.Context, source string) (*Document, error) {
	if isURL(source) {
		return p.loadURL(ctx, source)
	}
	return p.loadFile(source)
}

func (p *Pipeline) loadURL(ctx context.Context, rawURL string) (*Document, error) {
	if p.robots != nil {
		allowed, _, err := p.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("check robots.txt: %w", err)
		}
		if !allowed {
			return nil, fmt.Errorf("%s: %w", rawURL, ErrDisallowed)
		}
	}

	start := time.Now()
	result, err := p.fetcher.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	p.logger.Debug("fetched document",
		zap.String("url", result.FinalURL),
		zap.Int("status", result.Meta.StatusCode),
		zap.Int("bytes", len(result.Body)),
		zap.Duration("elapsed", time.Since(start)),
	)

	meta := result.Meta
	return &Document{
		Source:      result.FinalURL,
		Subject:     result.Subject,
		Content:     result.Body,
		ContentType: meta.ContentType,
		Meta:        &meta,
	}, nil
}

func (p *Pipeline) loadFile(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var r io.Reader = file
	if p.maxBytes > 0 {
		r = io.LimitReader(file, p.maxBytes)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	contentType := ""
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		contentType = "text/html"
	case ".txt", ".md":
		contentType = "text/plain"
	}

	base := filepath.Base(path)
	return &Document{
		Source:      path,
		Subject:     strings.TrimSuffix(base, filepath.Ext(base)),
		Content:     string(body),
		ContentType: contentType,
	}, nil
}

// ScanDocument splits a loaded document into sentences and classifies them
func (p *Pipeline) ScanDocument(ctx context.Context, doc *Document) (*model.Report, error) {
	sentences, err := p.extractor.Extract(doc.Content, doc.ContentType)
	if err != nil {
		return nil, fmt.Errorf("extract sentences: %w", err)
	}

	results, err := p.batch.ProcessSentences(ctx, sentences)
	if err != nil {
		return nil, err
	}

	report := &model.Report{
		Source:    doc.Source,
		Subject:   doc.Subject,
		ScannedAt: time.Now().UTC(),
		FetchMeta: doc.Meta,
		Sentences: results,
		Summary:   model.Summarize(results),
	}

	p.logger.Info("scan complete",
		zap.String("source", doc.Source),
		zap.Int("sentences", report.Summary.Total),
		zap.Int("distorted", report.Summary.Distorted),
	)

	return report, nil
}

// RenderReport renders the report to the specified outputs
func (p *Pipeline) RenderReport(report *model.Report, jsonPath string, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	p.renderer.RenderSummary(report)

	return nil
}

func isURL(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
