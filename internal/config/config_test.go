package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/textflow/internal/document"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.Equal(t, "lf", cfg.Editor.Newline)
	require.Equal(t, 0, cfg.Editor.HistoryLimit)
	require.Equal(t, 10*time.Minute, cfg.Editor.LineCacheTTL)
	require.False(t, cfg.Tracing.Enabled)
	require.Equal(t, "file", cfg.Tracing.Exporter)
	require.Equal(t, 1.0, cfg.Tracing.SampleRate)
	require.Equal(t, "textflow", cfg.Tracing.ServiceName)
	require.NoError(t, cfg.Validate())
}

func TestEditorConfig_NewlineTerminator(t *testing.T) {
	tests := []struct {
		newline string
		want    document.Terminator
	}{
		{"", document.LF},
		{"lf", document.LF},
		{"crlf", document.CRLF},
		{"CRLF", document.CRLF},
		{"none", document.LF},
		{"bogus", document.LF},
	}
	for _, tt := range tests {
		t.Run(tt.newline, func(t *testing.T) {
			require.Equal(t, tt.want, EditorConfig{Newline: tt.newline}.NewlineTerminator())
		})
	}
}

func TestValidateEditor(t *testing.T) {
	require.NoError(t, ValidateEditor(EditorConfig{}))
	require.NoError(t, ValidateEditor(EditorConfig{Newline: "crlf", HistoryLimit: 100}))

	err := ValidateEditor(EditorConfig{Newline: "cr"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "editor.newline")

	err = ValidateEditor(EditorConfig{HistoryLimit: -1})
	require.Error(t, err)
	require.Contains(t, err.Error(), "editor.history_limit")
}

func TestValidateTracing(t *testing.T) {
	tests := []struct {
		name    string
		tracing TracingConfig
		wantErr string
	}{
		{name: "empty", tracing: TracingConfig{}},
		{name: "sample rate too high", tracing: TracingConfig{SampleRate: 1.5}, wantErr: "sample_rate"},
		{name: "sample rate negative", tracing: TracingConfig{SampleRate: -0.1}, wantErr: "sample_rate"},
		{name: "bad exporter", tracing: TracingConfig{Exporter: "jaeger"}, wantErr: "tracing.exporter"},
		{name: "file without path", tracing: TracingConfig{Enabled: true, Exporter: "file"}, wantErr: "file_path"},
		{name: "otlp without endpoint", tracing: TracingConfig{Enabled: true, Exporter: "otlp"}, wantErr: "otlp_endpoint"},
		{name: "disabled file without path", tracing: TracingConfig{Exporter: "file"}},
		{name: "stdout", tracing: TracingConfig{Enabled: true, Exporter: "stdout", SampleRate: 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTracing(tt.tracing)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDefaultConfigTemplate_ParsesToDefaults(t *testing.T) {
	var raw map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(DefaultConfigTemplate()), &raw))

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(DefaultConfigTemplate()), 0o600))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))

	defaults := Defaults()
	require.Equal(t, defaults.Editor, cfg.Editor)
	require.Equal(t, defaults.Tracing.Exporter, cfg.Tracing.Exporter)
	require.Equal(t, defaults.Tracing.SampleRate, cfg.Tracing.SampleRate)
	require.False(t, cfg.Debug)
}

func TestWriteDefaultConfig_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "textflow", "config.yaml")

	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfigTemplate(), string(data))
}
