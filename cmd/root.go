package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/textflow/internal/config"
	"github.com/zjrosen/textflow/internal/document"
	"github.com/zjrosen/textflow/internal/log"
	"github.com/zjrosen/textflow/internal/pubsub"
	"github.com/zjrosen/textflow/internal/session"
)

const localConfigPath = ".textflow/config.yaml"

var (
	version    = "dev"
	cfgFile    string
	debugFlag  bool
	cfg        config.Config
	logCleanup func()
)

var rootCmd = &cobra.Command{
	Use:   "textflow",
	Short: "Replay edit scripts against a line-oriented text engine",
	Long: `textflow seeds an in-memory document from a text file, replays YAML edit
scripts against it with full undo/redo, and reports on the result.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/textflow/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false,
		"write debug logs (also enabled by TEXTFLOW_DEBUG)")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindEnv("debug", "TEXTFLOW_DEBUG")
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("editor.newline", defaults.Editor.Newline)
	viper.SetDefault("editor.history_limit", defaults.Editor.HistoryLimit)
	viper.SetDefault("editor.line_cache_ttl", defaults.Editor.LineCacheTTL)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)
	viper.SetDefault("log_path", "debug.log")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .textflow/config.yaml (current directory)
		// 2. ~/.config/textflow/config.yaml (user config)
		if _, err := os.Stat(localConfigPath); err == nil {
			viper.SetConfigFile(localConfigPath)
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "textflow"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	// A missing config file is fine; defaults apply.
	_ = viper.ReadInConfig()
	_ = viper.Unmarshal(&cfg)
}

// setup validates the configuration and starts debug logging.
func setup(cmd *cobra.Command, _ []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.Debug {
		cleanup, err := log.Init(cfg.LogPath)
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		logCleanup = cleanup
		log.Info(log.CatCLI, "starting", "command", cmd.CommandPath(), "version", version, "config", viper.ConfigFileUsed())
	}
	return nil
}

// newSession opens an edit session on doc using the configured editor
// options. A non-empty newline overrides the configured one.
func newSession(doc *document.Document, newline string, events *pubsub.Broker[session.Change]) (*session.Session, error) {
	term := cfg.Editor.NewlineTerminator()
	if newline != "" {
		t, err := document.ParseTerminator(newline)
		if err != nil {
			return nil, err
		}
		if t != document.None {
			term = t
		}
	}
	opts := []session.Option{
		session.WithNewline(term),
		session.WithHistoryLimit(cfg.Editor.HistoryLimit),
		session.WithLineCache(cfg.Editor.LineCacheTTL),
	}
	if events != nil {
		opts = append(opts, session.WithEvents(events))
	}
	return session.New(doc, opts...), nil
}

// readDocument seeds a document from the file at path.
func readDocument(path string) (*document.Document, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return document.FromText(string(data)), nil
}

// Execute runs the root command
func Execute() error {
	defer func() {
		if logCleanup != nil {
			logCleanup()
			logCleanup = nil
		}
	}()
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
