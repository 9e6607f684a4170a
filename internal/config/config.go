// Package config loads the sitefilter YAML configuration.
package config

import (
	stdErrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sitefilter/internal/errors"
	"git.home.luguber.info/inful/sitefilter/internal/typography"
)

// Config represents the application configuration
type Config struct {
	Source     string         `yaml:"source"`
	Output     string         `yaml:"output,omitempty"` // empty means rewrite in place
	Extensions []string       `yaml:"extensions"`
	Filters    []string       `yaml:"filters"`
	Workers    int            `yaml:"workers,omitempty"`
	Markdown   MarkdownConfig `yaml:"markdown"`
	Watch      WatchConfig    `yaml:"watch"`
	Metrics    MetricsConfig  `yaml:"metrics,omitempty"`
}

// MarkdownConfig controls rendering of markdown sources found in the source tree.
type MarkdownConfig struct {
	Render bool   `yaml:"render"`
	Layout string `yaml:"layout,omitempty"` // path to a layout template; built-in layout when empty
	Unsafe bool   `yaml:"unsafe"`           // pass raw HTML through
}

// WatchConfig controls the watch command.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// envFiles are loaded in order; values never override the process environment.
var envFiles = []string{".env", ".env.local"}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if stdErrors.Is(err, fs.ErrNotExist) {
			return nil, errors.ConfigNotFound(configPath)
		}
		return nil, errors.ConfigInvalid(configPath, err)
	}

	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !stdErrors.Is(err, io.EOF) {
		return nil, errors.ConfigInvalid(configPath, fmt.Errorf("failed to unmarshal config: %w", err))
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ValidationFailed("config", "configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath)
	}

	example := Default()
	example.Output = "./public-filtered"
	example.Markdown.Render = true
	example.Metrics.Addr = ":9464"

	data, err := yaml.Marshal(example)
	if err != nil {
		return errors.InternalError("failed to marshal config", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return errors.FileError("write config", configPath, err)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Source == "" {
		cfg.Source = "./public"
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{".html", ".htm", ".xml"}
	}
	if len(cfg.Filters) == 0 {
		cfg.Filters = []string{typography.FilterName}
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
}

func loadEnvFiles() {
	for _, p := range envFiles {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			fmt.Fprintf(os.Stderr, "Note: %s could not be loaded: %v\n", p, err)
		}
	}
}
