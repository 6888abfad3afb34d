package config

import (
	"cmp"
	"errors"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var (
	ErrInvalidTimeout     = errors.New("timeout must be greater than zero")
	ErrInvalidConcurrency = errors.New("concurrency must not be negative")
	ErrInvalidLogFormat   = errors.New("log format must be text or json")
	ErrInvalidLogLevel    = errors.New("unknown log level")
)

// Config holds the settings of one check run.
type Config struct {
	InputDir    string
	OutputFile  string
	Timeout     time.Duration
	Concurrency int // 0 = no limit
	UserAgent   string
	AllowHTTPS  bool

	LogLevel  string
	LogFormat string

	DatabaseURL string
	RedisURL    string
	MetricsFile string
	MetricsAddr string
}

type rawCfg struct {
	InputDir    string `short:"i" long:"input-dir" env:"STREAMCHECK_INPUT_DIR" default:"." description:"Directory containing .m3u8/.m3u playlists"`
	OutputFile  string `short:"o" long:"output-file" env:"STREAMCHECK_OUTPUT_FILE" default:"valid-iptv.m3u8" description:"Playlist file receiving the reachable entries"`
	Timeout     int    `short:"t" long:"timeout" env:"STREAMCHECK_TIMEOUT" default:"10" description:"Per-request timeout in seconds"`
	Concurrency int    `short:"c" long:"concurrency" env:"STREAMCHECK_CONCURRENCY" default:"64" description:"Maximum probes in flight (0 = one per entry)"`
	UserAgent   string `long:"user-agent" env:"STREAMCHECK_USER_AGENT" default:"StreamCheck/1.0" description:"User agent sent with probes"`
	AllowHTTPS  bool   `long:"allow-https" env:"STREAMCHECK_ALLOW_HTTPS" description:"Accept https:// URL lines (rejected by default)"`

	LogLevel  string `long:"log-level" env:"LOG_LEVEL" default:"info" description:"Log level (debug, info, warn, error)"`
	LogFormat string `long:"log-format" env:"LOG_FORMAT" default:"text" description:"Log format (text or json)"`

	DatabaseURL string `long:"database-url" env:"DATABASE_URL" description:"Postgres DSN for the run report (optional)"`
	RedisURL    string `long:"redis-url" env:"REDIS_URL" description:"Redis URL for the run lock and valid-entry list (optional)"`
	MetricsFile string `long:"metrics-file" env:"STREAMCHECK_METRICS_FILE" description:"Write Prometheus metrics to this textfile when the run ends"`
	MetricsAddr string `long:"metrics-addr" env:"STREAMCHECK_METRICS_ADDR" description:"Serve /metrics and /api/health on this address during the run"`

	ConfigFile string `long:"config" env:"STREAMCHECK_CONFIG" description:"YAML config file; its values fill options not given on the command line"`
	Version    bool   `long:"version" description:"Print the version and exit"`
}

// GetVersion returns the build version.
func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

// Load parses args (without the program name). Before parsing, .env.local and .env are
// applied to the environment. It returns (nil, nil) when --help or --version was handled.
func Load(args []string) (*Config, error) {
	loadEnvFiles()

	var raw rawCfg
	parser := flags.NewParser(&raw, flags.Default)
	parser.Name = "streamcheck"

	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if raw.Version {
		fmt.Println("streamcheck", GetVersion())
		return nil, nil
	}

	if raw.ConfigFile != "" {
		fc, err := readFile(raw.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("config file %s: %w", raw.ConfigFile, err)
		}
		fc.apply(&raw, parser)
	}

	cfg := &Config{
		InputDir:    raw.InputDir,
		OutputFile:  raw.OutputFile,
		Timeout:     time.Duration(raw.Timeout) * time.Second,
		Concurrency: raw.Concurrency,
		UserAgent:   raw.UserAgent,
		AllowHTTPS:  raw.AllowHTTPS,
		LogLevel:    raw.LogLevel,
		LogFormat:   raw.LogFormat,
		DatabaseURL: raw.DatabaseURL,
		RedisURL:    raw.RedisURL,
		MetricsFile: raw.MetricsFile,
		MetricsAddr: raw.MetricsAddr,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Concurrency < 0 {
		return ErrInvalidConcurrency
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return ErrInvalidLogFormat
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w %q", ErrInvalidLogLevel, c.LogLevel)
	}
	return nil
}
