package stress

import (
	"fmt"
	"io"
	"math"
	"sort"
	"time"
)

// maxBreakdown caps the error kinds listed in a report
const maxBreakdown = 10

// LatencyStats are request latencies in milliseconds
type LatencyStats struct {
	Mean float64 `json:"mean"`
	P50  float64 `json:"p50"`
	P95  float64 `json:"p95"`
	P99  float64 `json:"p99"`
	Max  float64 `json:"max"`
}

// ErrorCount is one line of the error breakdown
type ErrorCount struct {
	Kind  string `json:"kind"`
	Count int    `json:"count"`
}

// Report summarizes a stress run
type Report struct {
	RunID       string        `json:"run_id"`
	URL         string        `json:"url"`
	Concurrency int           `json:"concurrency"`
	Duration    time.Duration `json:"duration"`
	Requests    int           `json:"requests"`
	Elapsed     time.Duration `json:"elapsed"`
	Total       int           `json:"total"`
	OK          int           `json:"ok"`
	Errors      int           `json:"errors"`
	ErrorRate   float64       `json:"error_rate"` // percent
	Throughput  float64       `json:"throughput"` // requests per second
	Latency     *LatencyStats `json:"latency,omitempty"`
	Breakdown   []ErrorCount  `json:"error_breakdown,omitempty"`
}

// ExitCode is 2 when any request failed
func (r *Report) ExitCode() int {
	if r.Errors > 0 {
		return 2
	}
	return 0
}

func buildReport(opts Options, runID string, elapsed time.Duration, samples []Sample) *Report {
	report := &Report{
		RunID:       runID,
		URL:         opts.URL,
		Concurrency: opts.Concurrency,
		Duration:    opts.Duration,
		Requests:    opts.Requests,
		Elapsed:     elapsed,
		Total:       len(samples),
	}

	counts := make(map[string]int)
	latencies := make([]float64, 0, len(samples))
	for _, s := range samples {
		latencies = append(latencies, float64(s.Latency)/float64(time.Millisecond))
		if s.OK {
			report.OK++
			continue
		}
		report.Errors++
		kind := s.Kind
		if kind == "" {
			kind = "unknown"
		}
		counts[kind]++
	}

	if secs := elapsed.Seconds(); secs > 0 {
		report.Throughput = float64(report.Total) / secs
	}
	if report.Total > 0 {
		report.ErrorRate = float64(report.Errors) / float64(report.Total) * 100

		sort.Float64s(latencies)
		sum := 0.0
		for _, l := range latencies {
			sum += l
		}
		report.Latency = &LatencyStats{
			Mean: sum / float64(len(latencies)),
			P50:  Percentile(latencies, 50),
			P95:  Percentile(latencies, 95),
			P99:  Percentile(latencies, 99),
			Max:  latencies[len(latencies)-1],
		}
	}

	for kind, n := range counts {
		report.Breakdown = append(report.Breakdown, ErrorCount{Kind: kind, Count: n})
	}
	sort.Slice(report.Breakdown, func(i, j int) bool {
		a, b := report.Breakdown[i], report.Breakdown[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Kind < b.Kind
	})
	if len(report.Breakdown) > maxBreakdown {
		report.Breakdown = report.Breakdown[:maxBreakdown]
	}

	return report
}

// Percentile returns the p-th percentile of sorted values using linear
// interpolation between closest ranks. Empty input yields NaN.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	k := float64(len(sorted)-1) * (p / 100)
	f := int(k)
	c := min(f+1, len(sorted)-1)
	if f == c {
		return sorted[f]
	}
	return sorted[f]*(float64(c)-k) + sorted[c]*(k-float64(f))
}

// Print writes the human-readable report
func (r *Report) Print(w io.Writer) {
	fmt.Fprintln(w, "═══════════════════════════════════════")
	fmt.Fprintln(w, "  Stress test results")
	fmt.Fprintln(w, "═══════════════════════════════════════")
	fmt.Fprintf(w, "run_id      : %s\n", r.RunID)
	fmt.Fprintf(w, "url         : %s\n", r.URL)
	fmt.Fprintf(w, "concurrency : %d\n", r.Concurrency)
	if r.Requests == 0 {
		fmt.Fprintf(w, "duration    : %.2fs\n", r.Duration.Seconds())
	} else {
		fmt.Fprintf(w, "requests    : %d\n", r.Requests)
	}
	fmt.Fprintf(w, "elapsed     : %.2fs\n", r.Elapsed.Seconds())
	fmt.Fprintf(w, "total       : %d\n", r.Total)
	fmt.Fprintf(w, "ok          : %d\n", r.OK)
	fmt.Fprintf(w, "errors      : %d (%.2f%%)\n", r.Errors, r.ErrorRate)
	fmt.Fprintf(w, "throughput  : %.1f req/s\n", r.Throughput)

	if l := r.Latency; l != nil {
		fmt.Fprintf(w, "latency_ms  : mean=%.2f  p50=%.2f  p95=%.2f  p99=%.2f  max=%.2f\n",
			l.Mean, l.P50, l.P95, l.P99, l.Max)
	}

	if len(r.Breakdown) > 0 {
		fmt.Fprintln(w, "error_breakdown:")
		for _, e := range r.Breakdown {
			fmt.Fprintf(w, "  - %s: %d\n", e.Kind, e.Count)
		}
	}
}
