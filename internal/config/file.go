package config

import (
	"os"
	"strconv"

	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"
)

type fileConfig struct {
	InputDir    string `yaml:"input_dir"`
	OutputFile  string `yaml:"output_file"`
	Timeout     *int   `yaml:"timeout"`
	Concurrency *int   `yaml:"concurrency"`
	UserAgent   string `yaml:"user_agent"`
	AllowHTTPS  *bool  `yaml:"allow_https"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	DatabaseURL string `yaml:"database_url"`
	RedisURL    string `yaml:"redis_url"`
	MetricsFile string `yaml:"metrics_file"`
	MetricsAddr string `yaml:"metrics_addr"`
}

func readFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f fileConfig
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// apply copies every value present in the file into raw, except for options given on the
// command line.
func (f *fileConfig) apply(raw *rawCfg, parser *flags.Parser) {
	set := func(long, value string, dst func(string)) {
		if value == "" {
			return
		}
		if opt := parser.FindOptionByLongName(long); opt != nil && opt.IsSet() && !opt.IsSetDefault() {
			return
		}
		dst(value)
	}

	set("input-dir", f.InputDir, func(v string) { raw.InputDir = v })
	set("output-file", f.OutputFile, func(v string) { raw.OutputFile = v })
	set("user-agent", f.UserAgent, func(v string) { raw.UserAgent = v })
	set("log-level", f.LogLevel, func(v string) { raw.LogLevel = v })
	set("log-format", f.LogFormat, func(v string) { raw.LogFormat = v })
	set("database-url", f.DatabaseURL, func(v string) { raw.DatabaseURL = v })
	set("redis-url", f.RedisURL, func(v string) { raw.RedisURL = v })
	set("metrics-file", f.MetricsFile, func(v string) { raw.MetricsFile = v })
	set("metrics-addr", f.MetricsAddr, func(v string) { raw.MetricsAddr = v })
	if f.Timeout != nil {
		set("timeout", strconv.Itoa(*f.Timeout), func(string) { raw.Timeout = *f.Timeout })
	}
	if f.Concurrency != nil {
		set("concurrency", strconv.Itoa(*f.Concurrency), func(string) { raw.Concurrency = *f.Concurrency })
	}
	if f.AllowHTTPS != nil {
		set("allow-https", strconv.FormatBool(*f.AllowHTTPS), func(string) { raw.AllowHTTPS = *f.AllowHTTPS })
	}
}
