// Package stress is a load generator for the /classify endpoint.
package stress

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/ppiankov/vague/internal/model"
	"github.com/ppiankov/vague/internal/worker"
)

// DefaultTexts is the built-in request corpus
var DefaultTexts = []string{
	"I practice coding daily.",
	"I always mess everything up.",
	"I am a failure.",
	"It is either a total success or a complete failure.",
	"This failed yesterday.",
	"No one ever listens.",
	"I write tests and refactor.",
	"You are useless.",
	"Nothing works.",
	"We shipped the fix.",
}

// Options configures a stress run
type Options struct {
	URL         string
	Concurrency int
	Duration    time.Duration // ignored when Requests > 0
	Requests    int           // total request budget, 0 = run for Duration
	Timeout     time.Duration // per request
	Seed        int64
	RPS         float64 // 0 = unlimited
	Burst       int
	Texts       []string
}

// OptionsFromConfig builds options from config, loading the corpus from
// cfg.TextsFile when set
func OptionsFromConfig(cfg model.StressConfig) (Options, error) {
	texts := DefaultTexts
	if cfg.TextsFile != "" {
		lines, err := worker.ReadLines(cfg.TextsFile)
		if err != nil {
			return Options{}, fmt.Errorf("load texts: %w", err)
		}
		texts = lines
	}

	return Options{
		URL:         cfg.URL,
		Concurrency: cfg.Concurrency,
		Duration:    cfg.Duration,
		Requests:    cfg.Requests,
		Timeout:     cfg.Timeout,
		Seed:        cfg.Seed,
		RPS:         cfg.RPS,
		Burst:       cfg.Burst,
		Texts:       texts,
	}, nil
}

// Validate checks the options before a run
func (o Options) Validate() error {
	if o.Concurrency < 1 {
		return errors.New("concurrency must be >= 1")
	}
	if o.Requests < 0 {
		return errors.New("requests must be >= 0")
	}
	if o.Requests == 0 && o.Duration <= 0 {
		return errors.New("duration must be > 0 when requests is not set")
	}
	if o.Timeout <= 0 {
		return errors.New("timeout must be > 0")
	}
	if len(o.Texts) == 0 {
		return errors.New("texts corpus is empty")
	}

	u, err := url.Parse(o.URL)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url must be http or https, got %q", o.URL)
	}
	return nil
}
