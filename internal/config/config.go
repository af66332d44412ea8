// Package config provides configuration types and defaults for textflow.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/textflow/internal/document"
	"github.com/zjrosen/textflow/internal/log"
)

// Config holds all configuration options for textflow.
type Config struct {
	Editor  EditorConfig  `mapstructure:"editor"`
	Tracing TracingConfig `mapstructure:"tracing"`
	Debug   bool          `mapstructure:"debug"`
	LogPath string        `mapstructure:"log_path"`
}

// EditorConfig holds edit session options.
type EditorConfig struct {
	// Newline is the terminator a line split gives the upper line.
	// Options: "lf", "crlf"
	// Default: "lf"
	Newline string `mapstructure:"newline"`

	// HistoryLimit is the maximum number of undo steps kept. 0 keeps all.
	// Default: 0
	HistoryLimit int `mapstructure:"history_limit"`

	// LineCacheTTL is how long decoded line strings stay cached. A negative
	// value disables the cache.
	// Default: 10m
	LineCacheTTL time.Duration `mapstructure:"line_cache_ttl"`
}

// NewlineTerminator returns the configured newline, LF when unset.
func (e EditorConfig) NewlineTerminator() document.Terminator {
	term, err := document.ParseTerminator(e.Newline)
	if err != nil || term == document.None {
		return document.LF
	}
	return term
}

// TracingConfig holds distributed tracing configuration for script replay.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/textflow/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`

	// ServiceName is reported as the otel service.name resource attribute.
	// Default: "textflow"
	ServiceName string `mapstructure:"service_name"`
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/textflow/traces/traces.jsonl or empty string if home dir unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "textflow", "traces", "traces.jsonl")
}

// DefaultConfigPath returns ~/.config/textflow/config.yaml, or empty string if
// home dir unavailable.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "textflow", "config.yaml")
}

// Validate checks the whole configuration.
func (c Config) Validate() error {
	if err := ValidateEditor(c.Editor); err != nil {
		return err
	}
	return ValidateTracing(c.Tracing)
}

// ValidateEditor checks editor configuration for errors.
func ValidateEditor(editor EditorConfig) error {
	switch editor.Newline {
	case "", "lf", "LF", "crlf", "CRLF":
	default:
		return fmt.Errorf("editor.newline must be \"lf\" or \"crlf\", got %q", editor.Newline)
	}
	if editor.HistoryLimit < 0 {
		return fmt.Errorf("editor.history_limit must not be negative, got %d", editor.HistoryLimit)
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// Only validate path requirements when tracing is enabled
	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Editor: EditorConfig{
			Newline:      "lf",
			HistoryLimit: 0,
			LineCacheTTL: 10 * time.Minute,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     DefaultTracesFilePath(),
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
			ServiceName:  "textflow",
		},
	}
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# textflow configuration

editor:
  # Line ending written when a line is split: lf or crlf
  newline: lf
  # Maximum undo steps kept (0 = unlimited)
  history_limit: 0
  # How long decoded line text stays cached (negative disables the cache)
  line_cache_ttl: 10m

# Write debug logs to log_path (or set TEXTFLOW_DEBUG=1)
debug: false
# log_path: debug.log

# Tracing around edit script replay
tracing:
  enabled: false
  # none, file, stdout or otlp
  exporter: file
  # file_path: ~/.config/textflow/traces/traces.jsonl
  otlp_endpoint: localhost:4317
  sample_rate: 1.0
  service_name: textflow
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
