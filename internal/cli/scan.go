package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/vague/internal/model"
	"github.com/ppiankov/vague/internal/pipeline"
)

var (
	outJSON      string
	outMD        string
	scanDeadline time.Duration
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <file|url>",
	Short: "Scan a document sentence by sentence",
	Long: `Scan loads a plain text or HTML document from a local file or an
http(s) URL, splits it into sentences, classifies each one and writes a
report.

URL fetches honour robots.txt, the configured proxies and a body size cap,
and retry transient 5xx/429 responses.

Example:
  vague scan journal.txt
  vague scan https://example.com/blog/post --json report.json --md report.md
  vague scan notes.html --json - > report.json`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	defaults := model.DefaultConfig().Scan

	// Output flags
	scanCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path (- for stdout, empty to skip)")
	scanCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	scanCmd.Flags().DurationVar(&scanDeadline, "deadline", 2*time.Minute, "overall scan timeout")

	// HTTP flags
	scanCmd.Flags().Duration("timeout", defaults.Timeout, "per-request HTTP timeout")
	scanCmd.Flags().String("ua", defaults.UserAgent, "HTTP User-Agent")
	scanCmd.Flags().Int64("max-bytes", defaults.MaxBodyBytes, "max document bytes to read")
	scanCmd.Flags().Int("workers", defaults.Workers, "concurrent classification workers")
	scanCmd.Flags().Bool("respect-robots", defaults.RespectRobots, "honour robots.txt for URL sources")
	scanCmd.Flags().String("http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	scanCmd.Flags().String("https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
	scanCmd.Flags().String("no-proxy", "", "comma-separated hosts that bypass the proxy")

	for key, flag := range map[string]string{
		"scan.timeout":        "timeout",
		"scan.user_agent":     "ua",
		"scan.max_body_bytes": "max-bytes",
		"scan.workers":        "workers",
		"scan.respect_robots": "respect-robots",
		"scan.http_proxy":     "http-proxy",
		"scan.https_proxy":    "https-proxy",
		"scan.no_proxy":       "no-proxy",
	} {
		_ = viper.BindPFlag(key, scanCmd.Flags().Lookup(flag))
	}
}

func runScan(cmd *cobra.Command, args []string) error {
	source := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, scanDeadline)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Scanning: %s\n", source)
		fmt.Fprintf(os.Stderr, "Workers: %d\n", cfg.Scan.Workers)
		fmt.Fprintf(os.Stderr, "Robots: %v\n", cfg.Scan.RespectRobots)
		fmt.Fprintln(os.Stderr)
	}

	p := pipeline.NewPipeline(cfg.Scan, nil, log)

	report, err := p.Scan(ctx, source)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Classified %d sentences\n", report.Summary.Total)
		fmt.Fprintln(os.Stderr)
	}

	if err := p.RenderReport(report, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}
