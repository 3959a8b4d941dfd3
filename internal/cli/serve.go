package cli

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/vague/internal/cache"
	"github.com/ppiankov/vague/internal/model"
	"github.com/ppiankov/vague/internal/server"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the classification HTTP service",
	Long: `Serve exposes the detector over HTTP:

  POST /classify   {"text": "..."} -> {"has_cognitive_distortion": bool}
  GET  /health     liveness probe
  GET  /version    build version
  GET  /metrics    Prometheus metrics (when enabled)

Add ?explain=true to /classify to include the matched signals.

Example:
  vague serve
  vague serve --addr 0.0.0.0:8000 --cache
  VAGUE_LOG_JSON=true vague serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	defaults := model.DefaultConfig()
	serveCmd.Flags().String("addr", defaults.Server.Addr, "listen address")
	serveCmd.Flags().Bool("cache", defaults.Cache.Enabled, "cache classification results in memory")
	serveCmd.Flags().Bool("metrics", defaults.Metrics.Enabled, "expose Prometheus metrics")

	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("cache.enabled", serveCmd.Flags().Lookup("cache"))
	_ = viper.BindPFlag("metrics.enabled", serveCmd.Flags().Lookup("metrics"))
}

func runServe(cmd *cobra.Command, args []string) error {
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

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Server.Addr, err)
	}

	return serve(ctx, cfg, ln, log)
}

// serve builds the handler stack from cfg and runs it on ln until ctx ends
func serve(ctx context.Context, cfg *model.Config, ln net.Listener, log *zap.Logger) error {
	var metrics *server.Metrics
	if cfg.Metrics.Enabled {
		metrics = server.NewMetrics()
	}

	var resultCache cache.Cache
	if cfg.Cache.Enabled {
		resultCache = cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.CleanupInterval)
	}

	handler := server.NewHandler(server.Options{
		Logger:       log,
		Metrics:      metrics,
		Cache:        resultCache,
		CacheTTL:     cfg.Cache.TTL,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		Version:      model.Version,
	})

	router := server.NewRouter(handler, server.RouterOptions{
		Logger:         log,
		Metrics:        metrics,
		MetricsPath:    cfg.Metrics.Path,
		RequestTimeout: cfg.Server.RequestTimeout,
	})

	log.Info("starting vague",
		zap.String("version", model.Version),
		zap.Bool("cache", cfg.Cache.Enabled),
		zap.Bool("metrics", cfg.Metrics.Enabled),
	)

	srv := server.New(cfg.Server.Addr, router, cfg.Server.ReadHeaderTimeout)
	return server.Run(ctx, srv, ln, log, cfg.Server.ShutdownTimeout)
}
