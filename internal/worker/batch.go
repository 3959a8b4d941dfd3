package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ppiankov/vague/internal/detect"
	"github.com/ppiankov/vague/internal/model"
)

// AnalyzeFunc classifies one piece of text
type AnalyzeFunc func(text string) detect.Analysis

// SentenceJob classifies a single sentence
type SentenceJob struct {
	Index   int
	Text    string
	Analyze AnalyzeFunc
}

// Execute executes the classification job
func (j *SentenceJob) Execute(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return &SentenceResult{Index: j.Index, Text: j.Text, Error: err}
	}
	return &SentenceResult{
		Index:    j.Index,
		Text:     j.Text,
		Analysis: j.Analyze(j.Text),
	}
}

// SentenceResult represents the result of a sentence job
type SentenceResult struct {
	Index    int
	Text     string
	Analysis detect.Analysis
	Error    error
}

// GetError returns the error from the sentence result
func (r *SentenceResult) GetError() error {
	return r.Error
}

// BatchProcessor classifies many sentences concurrently
type BatchProcessor struct {
	analyze     AnalyzeFunc
	concurrency int
}

// NewBatchProcessor creates a new batch processor. A nil analyze uses
// detect.Analyze.
func NewBatchProcessor(analyze AnalyzeFunc, concurrency int) *BatchProcessor {
	if analyze == nil {
		analyze = detect.Analyze
	}
	return &BatchProcessor{
		analyze:     analyze,
		concurrency: concurrency,
	}
}

// ProcessSentences classifies sentences and returns results in input order.
// If ctx is cancelled before every sentence is done, the partial results
// are returned together with the context error.
func (b *BatchProcessor) ProcessSentences(ctx context.Context, sentences []string) ([]model.SentenceResult, error) {
	if len(sentences) == 0 {
		return []model.SentenceResult{}, nil
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, s := range sentences {
		job := &SentenceJob{
			Index:   i,
			Text:    s,
			Analyze: b.analyze,
		}
		if !pool.Submit(job) {
			break
		}
	}

	results := pool.Wait()

	out := make([]model.SentenceResult, 0, len(results))
	for _, r := range results {
		sr := r.(*SentenceResult)
		if sr.Error != nil {
			continue
		}
		out = append(out, model.SentenceResult{
			Index:                  sr.Index,
			Text:                   sr.Text,
			HasCognitiveDistortion: sr.Analysis.HasCognitiveDistortion,
			Signals:                sr.Analysis.Signals,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })

	if len(out) < len(sentences) {
		if err := ctx.Err(); err != nil {
			return out, fmt.Errorf("classify sentences: %w", err)
		}
	}

	return out, nil
}

// ReadLines reads non-empty lines from a file, skipping "#" comments
func ReadLines(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var lines []string

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		lines = append(lines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return lines, nil
}
