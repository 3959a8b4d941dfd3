package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/vague/internal/model"
	"github.com/ppiankov/vague/internal/stress"
)

var stressJSON bool

// stressCmd represents the stress command
var stressCmd = &cobra.Command{
	Use:   "stress",
	Short: "Load-test a running /classify endpoint",
	Long: `Stress sends concurrent POST /classify requests with texts drawn from a
seeded corpus and reports throughput, error rate and latency percentiles.

It runs for --duration, or until --requests have been sent when set.
Exits with status 2 if any request failed.

Example:
  vague stress
  vague stress --url http://127.0.0.1:8000/classify -c 50 --duration 20s
  vague stress --requests 1000 --rps 200 --texts corpus.txt`,
	Args: cobra.NoArgs,
	RunE: runStress,
}

func init() {
	rootCmd.AddCommand(stressCmd)

	defaults := model.DefaultConfig().Stress

	stressCmd.Flags().String("url", defaults.URL, "full classify URL")
	stressCmd.Flags().IntP("concurrency", "c", defaults.Concurrency, "concurrent workers")
	stressCmd.Flags().Duration("duration", defaults.Duration, "how long to run (ignored if --requests is set)")
	stressCmd.Flags().Int("requests", defaults.Requests, "max total requests (overrides --duration)")
	stressCmd.Flags().Duration("timeout", defaults.Timeout, "per-request timeout")
	stressCmd.Flags().Int64("seed", defaults.Seed, "RNG seed")
	stressCmd.Flags().Float64("rps", defaults.RPS, "request rate limit (0 = unlimited)")
	stressCmd.Flags().Int("burst", defaults.Burst, "rate limit burst")
	stressCmd.Flags().String("texts", "", "corpus file, one text per line")
	stressCmd.Flags().BoolVar(&stressJSON, "json", false, "print the report as JSON")

	for key, flag := range map[string]string{
		"stress.url":         "url",
		"stress.concurrency": "concurrency",
		"stress.duration":    "duration",
		"stress.requests":    "requests",
		"stress.timeout":     "timeout",
		"stress.seed":        "seed",
		"stress.rps":         "rps",
		"stress.burst":       "burst",
		"stress.texts_file":  "texts",
	} {
		_ = viper.BindPFlag(key, stressCmd.Flags().Lookup(flag))
	}
}

func runStress(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	opts, err := stress.OptionsFromConfig(cfg.Stress)
	if err != nil {
		return err
	}

	runner, err := stress.NewRunner(opts, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("stress run: %w", err)
	}

	out := cmd.OutOrStdout()
	if stressJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	} else {
		report.Print(out)
	}

	if code := report.ExitCode(); code != 0 {
		return &ExitError{Code: code, Err: fmt.Errorf("%d of %d requests failed", report.Errors, report.Total)}
	}
	return nil
}
