package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/vague/internal/detect"
)

func TestBatchProcessor_Order(t *testing.T) {
	sentences := []string{
		"I practice coding daily.",
		"I always mess everything up.",
		"We shipped the fix.",
		"You're useless.",
		"Tea or coffee?",
	}

	bp := NewBatchProcessor(nil, 3)
	results, err := bp.ProcessSentences(context.Background(), sentences)
	if err != nil {
		t.Fatalf("ProcessSentences failed: %v", err)
	}

	if len(results) != len(sentences) {
		t.Fatalf("Expected %d results, got %d", len(sentences), len(results))
	}

	want := []bool{false, true, false, true, false}
	for i, r := range results {
		if r.Index != i {
			t.Errorf("Expected index %d, got %d", i, r.Index)
		}
		if r.Text != sentences[i] {
			t.Errorf("Expected text %q, got %q", sentences[i], r.Text)
		}
		if r.HasCognitiveDistortion != want[i] {
			t.Errorf("Expected %q distorted=%v, got %v", r.Text, want[i], r.HasCognitiveDistortion)
		}
		if r.HasCognitiveDistortion && len(r.Signals) == 0 {
			t.Errorf("Expected signals for %q", r.Text)
		}
	}
}

func TestBatchProcessor_CustomAnalyze(t *testing.T) {
	calls := 0
	analyze := func(text string) detect.Analysis {
		calls++
		return detect.Analysis{Result: detect.Result{HasCognitiveDistortion: strings.HasPrefix(text, "x")}}
	}

	bp := NewBatchProcessor(analyze, 1)
	results, err := bp.ProcessSentences(context.Background(), []string{"x1", "y2", "x3"})
	if err != nil {
		t.Fatalf("ProcessSentences failed: %v", err)
	}
	if calls != 3 {
		t.Errorf("Expected 3 analyze calls, got %d", calls)
	}
	if !results[0].HasCognitiveDistortion || results[1].HasCognitiveDistortion || !results[2].HasCognitiveDistortion {
		t.Errorf("Unexpected results: %+v", results)
	}
}

func TestBatchProcessor_Empty(t *testing.T) {
	bp := NewBatchProcessor(nil, 2)
	results, err := bp.ProcessSentences(context.Background(), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Errorf("Expected empty non-nil results, got %v", results)
	}
}

func TestBatchProcessor_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bp := NewBatchProcessor(nil, 2)
	results, err := bp.ProcessSentences(ctx, []string{"I am fine.", "Nothing works."})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected no results after cancel, got %d", len(results))
	}
}

func TestReadLines(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "texts.txt")

	content := `# Load test corpus
I am a failure.

  Tea or coffee?  
# trailing comment
I am a failure.
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	lines, err := ReadLines(path)
	if err != nil {
		t.Fatalf("ReadLines failed: %v", err)
	}

	want := []string{"I am a failure.", "Tea or coffee?", "I am a failure."}
	if len(lines) != len(want) {
		t.Fatalf("Expected %d lines, got %d: %q", len(want), len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("Line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestReadLines_Missing(t *testing.T) {
	if _, err := ReadLines(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("Expected error for missing file")
	}
}
