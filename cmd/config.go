package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/textflow/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the textflow configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a commented default config",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := localConfigPath
		if len(args) == 1 {
			path = args[0]
		}
		if err := config.WriteDefaultConfig(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

var (
	setNewline      string
	setHistoryLimit int
	setCacheTTL     time.Duration
)

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update editor settings in the active config file",
	Long: `Update editor settings in the config file in use (or .textflow/config.yaml
when there is none). Other sections and comments are preserved.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		editor := cfg.Editor
		if cmd.Flags().Changed("newline") {
			editor.Newline = setNewline
		}
		if cmd.Flags().Changed("history-limit") {
			editor.HistoryLimit = setHistoryLimit
		}
		if cmd.Flags().Changed("line-cache-ttl") {
			editor.LineCacheTTL = setCacheTTL
		}
		if err := config.ValidateEditor(editor); err != nil {
			return err
		}

		path := viper.ConfigFileUsed()
		if path == "" {
			path = localConfigPath
		}
		if err := config.SaveEditor(path, editor); err != nil {
			return err
		}
		cfg.Editor = editor
		fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", path)
		return nil
	},
}

func init() {
	configSetCmd.Flags().StringVar(&setNewline, "newline", "", "line ending for splits: lf or crlf")
	configSetCmd.Flags().IntVar(&setHistoryLimit, "history-limit", 0, "maximum undo steps (0 = unlimited)")
	configSetCmd.Flags().DurationVar(&setCacheTTL, "line-cache-ttl", 0, "line text cache lifetime (negative disables)")

	configCmd.AddCommand(configInitCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}
