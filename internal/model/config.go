package model

import "time"

// Config is the complete Vague configuration. Values are layered as
// flags > VAGUE_* environment > config file > DefaultConfig.
type Config struct {
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Scan    ScanConfig    `yaml:"scan" mapstructure:"scan"`
	Stress  StressConfig  `yaml:"stress" mapstructure:"stress"`
}

// ServerConfig controls the HTTP service
type ServerConfig struct {
	Addr              string        `yaml:"addr" mapstructure:"addr"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" mapstructure:"read_header_timeout"`
	RequestTimeout    time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// CacheConfig controls the classification result cache
type CacheConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL             time.Duration `yaml:"ttl" mapstructure:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" mapstructure:"cleanup_interval"`
}

// MetricsConfig controls the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// LogConfig controls structured logging
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"` // debug, info, warn, error
	JSON  bool   `yaml:"json" mapstructure:"json"`
}

// ScanConfig controls document scanning
type ScanConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	Workers       int           `yaml:"workers" mapstructure:"workers"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// StressConfig controls the load generator
type StressConfig struct {
	URL         string        `yaml:"url" mapstructure:"url"`
	Concurrency int           `yaml:"concurrency" mapstructure:"concurrency"`
	Duration    time.Duration `yaml:"duration" mapstructure:"duration"`
	Requests    int           `yaml:"requests" mapstructure:"requests"` // 0 = run for Duration
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Seed        int64         `yaml:"seed" mapstructure:"seed"`
	RPS         float64       `yaml:"rps" mapstructure:"rps"` // 0 = unlimited
	Burst       int           `yaml:"burst" mapstructure:"burst"`
	TextsFile   string        `yaml:"texts_file" mapstructure:"texts_file"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:              "127.0.0.1:8000",
			ReadHeaderTimeout: 5 * time.Second,
			RequestTimeout:    10 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			MaxBodyBytes:      1 << 20,
		},
		Cache: CacheConfig{
			Enabled:         false,
			TTL:             10 * time.Minute,
			CleanupInterval: 5 * time.Minute,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
		Scan: ScanConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "Vague/" + Version + " (+https://github.com/ppiankov/vague)",
			MaxBodyBytes:  2_000_000,
			Workers:       4,
			RespectRobots: true,
		},
		Stress: StressConfig{
			URL:         "http://127.0.0.1:8000/classify",
			Concurrency: 50,
			Duration:    15 * time.Second,
			Timeout:     2 * time.Second,
			Seed:        1337,
			Burst:       10,
		},
	}
}
