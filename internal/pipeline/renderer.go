package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/ppiankov/vague/internal/detect"
	"github.com/ppiankov/vague/internal/model"
)

// Renderer writes scan reports as JSON, Markdown or a terminal summary
type Renderer struct {
	out io.Writer // summary destination
}

// NewRenderer creates a renderer that prints summaries to out
func NewRenderer(out io.Writer) *Renderer {
	if out == nil {
		out = os.Stdout
	}
	return &Renderer{out: out}
}

// RenderJSON writes the report as indented JSON to path
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	return writeFile(path, func(w io.Writer) error { return r.WriteJSON(w, report) })
}

// RenderMarkdown writes the report as Markdown to path
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return writeFile(path, func(w io.Writer) error { return r.WriteMarkdown(w, report) })
}

// WriteJSON encodes the report to w
func (r *Renderer) WriteJSON(w io.Writer, report *model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// WriteMarkdown renders the report as Markdown to w
func (r *Renderer) WriteMarkdown(w io.Writer, report *model.Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Vague Report: %s\n\n", report.Subject)
	fmt.Fprintf(&b, "- **Source:** %s\n", report.Source)
	fmt.Fprintf(&b, "- **Scanned:** %s\n", report.ScannedAt.Format("2006-01-02 15:04:05 UTC"))
	if report.FetchMeta != nil {
		fmt.Fprintf(&b, "- **HTTP status:** %d\n", report.FetchMeta.StatusCode)
	}
	b.WriteString("\n## Summary\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Sentences | %d |\n", report.Summary.Total)
	fmt.Fprintf(&b, "| Distorted | %d |\n", report.Summary.Distorted)
	fmt.Fprintf(&b, "| Clean | %d |\n", report.Summary.Clean)
	fmt.Fprintf(&b, "| Distortion ratio | %.1f%% |\n", report.Summary.Ratio*100)

	if rules := sortedRules(report.Summary.ByRule); len(rules) > 0 {
		b.WriteString("\n### Signals by rule\n\n")
		for _, rule := range rules {
			fmt.Fprintf(&b, "- `%s`: %d\n", rule, report.Summary.ByRule[rule])
		}
	}

	b.WriteString("\n## Flagged sentences\n\n")
	flagged := 0
	for _, s := range report.Sentences {
		if !s.HasCognitiveDistortion {
			continue
		}
		flagged++
		fmt.Fprintf(&b, "%d. %s\n", s.Index+1, escapeMarkdown(s.Text))
		for _, sig := range s.Signals {
			fmt.Fprintf(&b, "   - `%s`: %q\n", sig.Rule, sig.Term)
		}
	}
	if flagged == 0 {
		b.WriteString("_No sentences flagged._\n")
	}

	b.WriteString("\n---\n")
	fmt.Fprintf(&b, "_Generated by vague %s. Heuristic keyword signals, not a diagnosis._\n", model.Version)

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderSummary prints a boxed summary to the terminal
func (r *Renderer) RenderSummary(report *model.Report) {
	s := report.Summary
	fmt.Fprintln(r.out, "═══════════════════════════════════════")
	fmt.Fprintf(r.out, "  Vague scan: %s\n", report.Subject)
	fmt.Fprintln(r.out, "═══════════════════════════════════════")
	fmt.Fprintf(r.out, "  Sentences:  %d\n", s.Total)
	fmt.Fprintf(r.out, "  Distorted:  %d (%.1f%%)\n", s.Distorted, s.Ratio*100)
	fmt.Fprintf(r.out, "  Clean:      %d\n", s.Clean)
	for _, rule := range sortedRules(s.ByRule) {
		fmt.Fprintf(r.out, "    %-16s %d\n", rule, s.ByRule[rule])
	}
	fmt.Fprintln(r.out, "═══════════════════════════════════════")
}

func sortedRules(byRule map[detect.Rule]int) []detect.Rule {
	rules := make([]detect.Rule, 0, len(byRule))
	for rule := range byRule {
		rules = append(rules, rule)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i] < rules[j] })
	return rules
}

var markdownEscaper = strings.NewReplacer("*", `\*`, "_", `\_`, "`", "\\`", "|", `\|`)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

func writeFile(path string, write func(io.Writer) error) error {
	if path == "-" {
		return write(os.Stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
