package stress

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/vague/internal/model"
)

// classifyStub answers like the real service, except for magic texts
func classifyStub(t *testing.T, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch req.Text {
		case "boom":
			w.WriteHeader(http.StatusInternalServerError)
		case "bad-json":
			_, _ = w.Write([]byte("not json"))
		case "bad-schema":
			_, _ = w.Write([]byte(`{"has_cognitive_distortion":"yes"}`))
		default:
			_, _ = w.Write([]byte(`{"has_cognitive_distortion":true}`))
		}
	}))
}

func testOptions(url string) Options {
	return Options{
		URL:         url,
		Concurrency: 4,
		Requests:    20,
		Timeout:     2 * time.Second,
		Seed:        1337,
		Texts:       DefaultTexts,
	}
}

func TestRunner_RequestBudget(t *testing.T) {
	var hits atomic.Int64
	server := classifyStub(t, &hits)
	defer server.Close()

	runner, err := NewRunner(testOptions(server.URL), nil)
	require.NoError(t, err)

	report, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 20, report.Total)
	assert.Equal(t, 20, report.OK)
	assert.Equal(t, 0, report.Errors)
	assert.Equal(t, int64(20), hits.Load())
	assert.Equal(t, 0, report.ExitCode())
	assert.NotEmpty(t, report.RunID)
	require.NotNil(t, report.Latency)
	assert.LessOrEqual(t, report.Latency.P50, report.Latency.Max)
	assert.Empty(t, report.Breakdown)
}

func TestRunner_ErrorKinds(t *testing.T) {
	server := classifyStub(t, nil)
	defer server.Close()

	tests := []struct {
		text string
		kind string
	}{
		{"boom", "http_500"},
		{"bad-json", "invalid_json"},
		{"bad-schema", "invalid_schema"},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			opts := testOptions(server.URL)
			opts.Requests = 6
			opts.Concurrency = 2
			opts.Texts = []string{tt.text}

			runner, err := NewRunner(opts, nil)
			require.NoError(t, err)

			report, err := runner.Run(context.Background())
			require.NoError(t, err)

			assert.Equal(t, 6, report.Errors)
			assert.Equal(t, 100.0, report.ErrorRate)
			assert.Equal(t, 2, report.ExitCode())
			require.Len(t, report.Breakdown, 1)
			assert.Equal(t, ErrorCount{Kind: tt.kind, Count: 6}, report.Breakdown[0])
		})
	}
}

func TestRunner_URLError(t *testing.T) {
	server := classifyStub(t, nil)
	url := server.URL
	server.Close()

	opts := testOptions(url)
	opts.Requests = 3
	opts.Concurrency = 1

	runner, err := NewRunner(opts, nil)
	require.NoError(t, err)

	report, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Errors)
	for _, e := range report.Breakdown {
		assert.True(t, strings.HasPrefix(e.Kind, "url_error:"), "unexpected kind %q", e.Kind)
	}
}

func TestRunner_Duration(t *testing.T) {
	server := classifyStub(t, nil)
	defer server.Close()

	opts := testOptions(server.URL)
	opts.Requests = 0
	opts.Duration = 150 * time.Millisecond
	opts.Concurrency = 2

	runner, err := NewRunner(opts, nil)
	require.NoError(t, err)

	start := time.Now()
	report, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Greater(t, report.Total, 0)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.GreaterOrEqual(t, report.Elapsed, 150*time.Millisecond)
}

func TestRunner_RateLimit(t *testing.T) {
	server := classifyStub(t, nil)
	defer server.Close()

	opts := testOptions(server.URL)
	opts.Requests = 5
	opts.RPS = 20
	opts.Burst = 1

	runner, err := NewRunner(opts, nil)
	require.NoError(t, err)

	report, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, report.Total)
	// 1 burst token, then 4 more at 50ms intervals
	assert.GreaterOrEqual(t, report.Elapsed, 150*time.Millisecond)
}

func TestRunner_SeededPick(t *testing.T) {
	opts := testOptions("http://127.0.0.1:8000/classify")

	a, err := NewRunner(opts, nil)
	require.NoError(t, err)
	b, err := NewRunner(opts, nil)
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		assert.Equal(t, a.pick(), b.pick())
	}
}

func TestOptions_Validate(t *testing.T) {
	valid := testOptions("http://127.0.0.1:8000/classify")
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"zero concurrency", func(o *Options) { o.Concurrency = 0 }},
		{"negative requests", func(o *Options) { o.Requests = -1 }},
		{"no duration", func(o *Options) { o.Requests = 0; o.Duration = 0 }},
		{"no timeout", func(o *Options) { o.Timeout = 0 }},
		{"empty corpus", func(o *Options) { o.Texts = nil }},
		{"bad scheme", func(o *Options) { o.URL = "ftp://127.0.0.1/classify" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := valid
			tt.mutate(&opts)
			assert.Error(t, opts.Validate())
		})
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := model.DefaultConfig().Stress

	opts, err := OptionsFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, 50, opts.Concurrency)
	assert.Equal(t, int64(1337), opts.Seed)
	assert.Equal(t, DefaultTexts, opts.Texts)

	path := filepath.Join(t.TempDir(), "texts.txt")
	require.NoError(t, os.WriteFile(path, []byte("# corpus\nNothing works.\n\nWe shipped the fix.\n"), 0644))
	cfg.TextsFile = path

	opts, err = OptionsFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"Nothing works.", "We shipped the fix."}, opts.Texts)

	cfg.TextsFile = filepath.Join(t.TempDir(), "missing.txt")
	_, err = OptionsFromConfig(cfg)
	assert.Error(t, err)
}

func TestClassifyBody(t *testing.T) {
	tests := map[string]string{
		`{"has_cognitive_distortion":false}`:  "",
		`{"has_cognitive_distortion":true}`:   "",
		`{"has_cognitive_distortion":1}`:      "invalid_schema",
		`{"other":true}`:                      "invalid_schema",
		`[true]`:                              "invalid_schema",
		`not json`:                            "invalid_json",
		``:                                    "invalid_json",
	}
	for body, want := range tests {
		assert.Equal(t, want, classifyBody([]byte(body)), "body %q", body)
	}
}
