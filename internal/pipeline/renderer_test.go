package pipeline

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/vague/internal/detect"
	"github.com/ppiankov/vague/internal/model"
)

func sampleReport() *model.Report {
	sentences := []model.SentenceResult{
		{Index: 0, Text: "I am a *failure*.", HasCognitiveDistortion: true, Signals: []detect.Signal{
			{Rule: detect.RuleBeVerb, Term: "am"},
			{Rule: detect.RuleIdentityLabel, Term: "i am a failure"},
		}},
		{Index: 1, Text: "We shipped the fix.", HasCognitiveDistortion: false},
	}
	return &model.Report{
		Source:    "journal.txt",
		Subject:   "journal",
		ScannedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Sentences: sentences,
		Summary:   model.Summarize(sentences),
	}
}

func TestRenderer_WriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer(nil).WriteMarkdown(&buf, sampleReport()); err != nil {
		t.Fatalf("WriteMarkdown failed: %v", err)
	}
	md := buf.String()

	for _, want := range []string{
		"# Vague Report: journal",
		"2026-01-02 03:04:05 UTC",
		"| Distorted | 1 |",
		"| Distortion ratio | 50.0% |",
		"- `be_verb`: 1",
		`1. I am a \*failure\*.`,
		"`identity_label`: \"i am a failure\"",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Expected Markdown to contain %q\n%s", want, md)
		}
	}
	if strings.Contains(md, "We shipped the fix.") {
		t.Error("Expected clean sentences to be omitted from the flagged list")
	}
	if strings.Contains(md, "HTTP status") {
		t.Error("Expected no HTTP status for file source")
	}
}

func TestRenderer_WriteMarkdown_NothingFlagged(t *testing.T) {
	report := &model.Report{Subject: "empty", Summary: model.Summarize(nil)}

	var buf bytes.Buffer
	if err := NewRenderer(nil).WriteMarkdown(&buf, report); err != nil {
		t.Fatalf("WriteMarkdown failed: %v", err)
	}
	if !strings.Contains(buf.String(), "_No sentences flagged._") {
		t.Errorf("Expected empty marker, got:\n%s", buf.String())
	}
}

func TestRenderer_WriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer(nil).WriteJSON(&buf, sampleReport()); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"has_cognitive_distortion": true`) {
		t.Errorf("Expected verdict field in JSON:\n%s", out)
	}
	if !strings.Contains(out, `"by_rule"`) {
		t.Errorf("Expected summary rule counts in JSON:\n%s", out)
	}
}

func TestRenderer_RenderSummary(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(&buf).RenderSummary(sampleReport())

	out := buf.String()
	if !strings.Contains(out, "Vague scan: journal") {
		t.Errorf("Expected subject in summary:\n%s", out)
	}
	if !strings.Contains(out, "Distorted:  1 (50.0%)") {
		t.Errorf("Expected distorted count in summary:\n%s", out)
	}
}
