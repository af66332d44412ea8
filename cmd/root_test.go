package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/textflow/internal/config"
	"github.com/zjrosen/textflow/internal/script"
)

// run executes the root command with args against a private config file and
// returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	viper.Reset()
	cfg = config.Config{}
	cfgFile = ""
	debugFlag = false
	replayScript, replayDiff, replayUndoAll, replayEvents, replayWatch = "", false, false, false, false
	replayColor, replayWidth, replayContext = "auto", 0, 3
	setNewline, setHistoryLimit, setCacheTTL = "", 0, 0
	for _, fs := range []*pflag.FlagSet{rootCmd.PersistentFlags(), replayCmd.Flags(), configSetCmd.Flags()} {
		fs.VisitAll(func(f *pflag.Flag) { f.Changed = false })
	}

	if !containsFlag(args, "--config") {
		args = append(args, "--config", filepath.Join(t.TempDir(), "config.yaml"))
	}

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func containsFlag(args []string, name string) bool {
	for _, a := range args {
		if a == name {
			return true
		}
	}
	return false
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const appendScript = `name: append
steps:
  - op: move
    at: {line: 0, col: 5}
  - op: type
    text: " there"
  - op: expect
    text: "hello there\nworld\n"
`

func TestReplay_PrintsEditedText(t *testing.T) {
	input := writeFile(t, "in.txt", "hello\nworld\n")
	sc := writeFile(t, "s.yaml", appendScript)

	out, _, err := run(t, "replay", input, "--script", sc)
	require.NoError(t, err)
	require.Equal(t, "hello there\nworld\n", out)

	data, err := os.ReadFile(input)
	require.NoError(t, err)
	require.Equal(t, "hello\nworld\n", string(data), "input file is never modified")
}

func TestReplay_Diff(t *testing.T) {
	input := writeFile(t, "in.txt", "hello\nworld\n")
	sc := writeFile(t, "s.yaml", appendScript)

	out, _, err := run(t, "replay", input, "--script", sc, "--diff", "--color", "never")
	require.NoError(t, err)
	require.Contains(t, out, "- hello\n")
	require.Contains(t, out, "+ hello there\n")
	require.Contains(t, out, "1 insertion(s), 1 deletion(s)")
}

func TestReplay_UndoAllAndEvents(t *testing.T) {
	input := writeFile(t, "in.txt", "hello\nworld\n")
	sc := writeFile(t, "s.yaml", appendScript)

	out, errOut, err := run(t, "replay", input, "--script", sc, "--undo-all", "--events")
	require.NoError(t, err)
	require.Equal(t, "hello there\nworld\n", out)
	require.Contains(t, errOut, "edited range-insert")
	require.Contains(t, errOut, "undo round trip ok after 3 script steps")
}

func TestReplay_UndoAllAfterClear(t *testing.T) {
	input := writeFile(t, "in.txt", "abc")
	sc := writeFile(t, "s.yaml", "steps:\n  - op: clear\n  - op: type\n    text: x\n")

	out, errOut, err := run(t, "replay", input, "--script", sc, "--undo-all")
	require.NoError(t, err)
	require.Equal(t, "x", out)
	require.Contains(t, errOut, "undo round trip ok")
}

func TestReplay_FailedExpectation(t *testing.T) {
	input := writeFile(t, "in.txt", "abc")
	sc := writeFile(t, "s.yaml", "steps:\n  - op: expect\n    text: xyz\n")

	_, _, err := run(t, "replay", input, "--script", sc)
	require.ErrorIs(t, err, script.ErrExpectation)
}

func TestReplay_ScriptNewlineOverridesConfig(t *testing.T) {
	input := writeFile(t, "in.txt", "ab")
	sc := writeFile(t, "s.yaml", "newline: crlf\nsteps:\n  - op: move\n    at: {line: 0, col: 1}\n  - op: split\n")

	out, _, err := run(t, "replay", input, "--script", sc)
	require.NoError(t, err)
	require.Equal(t, "a\r\nb", out)
}

func TestReplay_BadColor(t *testing.T) {
	input := writeFile(t, "in.txt", "a")
	sc := writeFile(t, "s.yaml", "steps:\n  - op: home\n")

	_, _, err := run(t, "replay", input, "--script", sc, "--diff", "--color", "sometimes")
	require.ErrorContains(t, err, "--color")
}

func TestStats(t *testing.T) {
	input := writeFile(t, "in.txt", "ab\r\n世界")

	out, _, err := run(t, "stats", input)
	require.NoError(t, err)
	require.Contains(t, out, "GRAPHEMES")
	require.Contains(t, out, "crlf")
	require.Contains(t, out, "2 lines, 4 runes, 4 graphemes")
}

func TestConfigInitAndSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "textflow", "config.yaml")

	out, _, err := run(t, "config", "init", path)
	require.NoError(t, err)
	require.Contains(t, out, "wrote "+path)

	_, _, err = run(t, "config", "set", "--history-limit", "50", "--newline", "crlf", "--config", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "history_limit: 50")
	require.Contains(t, string(data), "newline: crlf")
	require.Contains(t, string(data), "tracing:", "other sections are kept")
}

func TestConfigSet_RejectsInvalidValues(t *testing.T) {
	path := writeFile(t, "config.yaml", "editor:\n  newline: lf\n")

	_, _, err := run(t, "config", "set", "--newline", "cr", "--config", path)
	require.ErrorContains(t, err, "editor.newline")
}

func TestInvalidConfigFile(t *testing.T) {
	path := writeFile(t, "config.yaml", "editor:\n  history_limit: -1\n")
	input := writeFile(t, "in.txt", "a")

	_, _, err := run(t, "stats", input, "--config", path)
	require.ErrorContains(t, err, "invalid configuration")
}
