package model

import (
	"time"

	"github.com/ppiankov/vague/internal/detect"
)

// Version is the release version reported by the CLI and the service
const Version = "0.3.0"

// Report is the result of scanning one document sentence by sentence
type Report struct {
	Source    string     `json:"source"`              // File path or URL that was scanned
	Subject   string     `json:"subject"`             // Human-readable name derived from the source
	ScannedAt time.Time  `json:"scanned_at"`          // When the scan occurred
	FetchMeta *FetchMeta `json:"fetch_meta,omitempty"` // HTTP metadata, URL sources only

	Sentences []SentenceResult `json:"sentences"`
	Summary   Summary          `json:"summary"`
}

// FetchMeta contains HTTP metadata from fetching the source
type FetchMeta struct {
	StatusCode   int               `json:"status_code"`
	ContentType  string            `json:"content_type,omitempty"`
	LastModified string            `json:"last_modified,omitempty"`
	ETag         string            `json:"etag,omitempty"`
	Headers      map[string]string `json:"headers,omitempty"`
}

// SentenceResult is the classification of one sentence
type SentenceResult struct {
	Index                  int             `json:"index"` // Sentence position in source (0-based)
	Text                   string          `json:"text"`
	HasCognitiveDistortion bool            `json:"has_cognitive_distortion"`
	Signals                []detect.Signal `json:"signals,omitempty"`
}

// Summary aggregates sentence results
type Summary struct {
	Total     int                 `json:"total"`
	Distorted int                 `json:"distorted"`
	Clean     int                 `json:"clean"`
	Ratio     float64             `json:"ratio"` // Distorted / Total, 0 when empty
	ByRule    map[detect.Rule]int `json:"by_rule"`
}

// Summarize computes totals over sentence results
func Summarize(sentences []SentenceResult) Summary {
	s := Summary{
		Total:  len(sentences),
		ByRule: make(map[detect.Rule]int),
	}
	for _, r := range sentences {
		if r.HasCognitiveDistortion {
			s.Distorted++
		} else {
			s.Clean++
		}
		for _, sig := range r.Signals {
			s.ByRule[sig.Rule]++
		}
	}
	if s.Total > 0 {
		s.Ratio = float64(s.Distorted) / float64(s.Total)
	}
	return s
}
