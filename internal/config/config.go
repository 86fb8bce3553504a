// Package config loads the application configuration from defaults, an
// optional YAML file and CREP_-prefixed environment variables, in that
// order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix marks environment overrides; CREP_OUTPUT__FORMAT=png sets
// output.format. Double underscore separates nesting levels so single
// underscores survive inside key names.
const envPrefix = "CREP_"

// Config holds the application configuration.
type Config struct {
	Analysis AnalysisConfig `koanf:"analysis"`
	Ollama   OllamaConfig   `koanf:"ollama"`
	Output   OutputConfig   `koanf:"output"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// AnalysisConfig holds the shared analyzer tuning knobs.
type AnalysisConfig struct {
	// MaxDimension caps the frame's long edge before analysis.
	MaxDimension int `koanf:"max_dimension"`
	// SampleStride is the whole-frame pixel sampling step.
	SampleStride int `koanf:"sample_stride"`
	// EdgeThreshold is the Sobel magnitude above which a sample counts
	// as an edge.
	EdgeThreshold float64 `koanf:"edge_threshold"`
}

// OllamaConfig holds the optional vision-model caption settings.
type OllamaConfig struct {
	Enabled bool   `koanf:"enabled"`
	URL     string `koanf:"url"`
	Model   string `koanf:"model"`
	Prompt  string `koanf:"prompt"`
}

// OutputConfig holds report and overlay output settings.
type OutputConfig struct {
	Format  string `koanf:"format"`
	Dir     string `koanf:"dir"`
	Quality int    `koanf:"quality"`
	Overlay bool   `koanf:"overlay"`
}

// LoggingConfig holds the log settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Pretty bool   `koanf:"pretty"`
}

// Default returns a configuration with default values.
func Default() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			MaxDimension:  1280,
			SampleStride:  4,
			EdgeThreshold: 30,
		},
		Ollama: OllamaConfig{
			Enabled: false,
			URL:     "http://localhost:11434",
			Model:   "llava",
			Prompt:  "Describe this video frame in one sentence, then list up to five tags as JSON: {\"description\": ..., \"tags\": [...]}",
		},
		Output: OutputConfig{
			Format:  "json",
			Dir:     "./output",
			Quality: 90,
			Overlay: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Pretty: true,
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (if
// path is non-empty; a missing file is an error) and environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		key := strings.TrimPrefix(s, envPrefix)
		return strings.ReplaceAll(strings.ToLower(key), "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration invariants.
func (c *Config) Validate() error {
	if c.Analysis.MaxDimension < 16 {
		return fmt.Errorf("analysis.max_dimension must be at least 16")
	}
	if c.Analysis.SampleStride < 1 {
		return fmt.Errorf("analysis.sample_stride must be positive")
	}
	if c.Analysis.EdgeThreshold <= 0 {
		return fmt.Errorf("analysis.edge_threshold must be positive")
	}
	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}
	switch c.Output.Format {
	case "json", "jpg", "jpeg", "png", "webp":
	default:
		return fmt.Errorf("output.format %q is not supported", c.Output.Format)
	}
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not a known level", c.Logging.Level)
	}
	if c.Ollama.Enabled && c.Ollama.URL == "" {
		return fmt.Errorf("ollama.url is required when ollama.enabled is set")
	}
	return nil
}

// DefaultPath returns the default configuration file path, or empty when no
// file exists there.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(home, ".config", "frame-analyzer", "config.yaml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
