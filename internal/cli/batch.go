package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/vague/internal/model"
	"github.com/ppiankov/vague/internal/worker"
)

var (
	concurrency  int
	batchOut     string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Classify every line of a file in parallel",
	Long: `Batch classifies each non-empty line of a file (lines starting with #
are skipped) and writes one JSON object per line, in input order.

Example:
  vague batch texts.txt
  vague batch texts.txt --concurrency 8 --out results.jsonl`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&batchOut, "out", "-", "output path (- for stdout)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
}

func runBatch(cmd *cobra.Command, args []string) (err error) {
	lines, err := worker.ReadLines(args[0])
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if len(lines) == 0 {
		return errEmptyText
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, batchTimeout)
	defer cancel()

	start := time.Now()
	bp := worker.NewBatchProcessor(nil, concurrency)
	results, err := bp.ProcessSentences(ctx, lines)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if batchOut != "-" {
		f, err := os.Create(batchOut)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close output: %w", closeErr)
			}
		}()
		w = f
	}

	if err := writeBatch(w, results); err != nil {
		return err
	}

	summary := model.Summarize(results)
	fmt.Fprintln(os.Stderr, "═══════════════════════════════════════")
	fmt.Fprintf(os.Stderr, "  Batch: %d lines in %v\n", summary.Total, time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "  Distorted: %d (%.1f%%)\n", summary.Distorted, summary.Ratio*100)
	fmt.Fprintln(os.Stderr, "═══════════════════════════════════════")

	return nil
}

func writeBatch(w io.Writer, results []model.SentenceResult) error {
	enc := json.NewEncoder(w)
	for _, r := range results {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
	}
	return nil
}
