package log

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLog_WritesCategoryAndFields(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, LevelDebug)

	Debug(CatSession, "joined lines", "line", 3, "col", 7)

	out := buf.String()
	require.Contains(t, out, "[DEBUG] [session] joined lines line=3 col=7")
	require.True(t, bytes.HasSuffix(buf.Bytes(), []byte("\n")))
}

func TestLog_MinLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, LevelWarn)

	Debug(CatEditor, "dropped")
	Info(CatEditor, "dropped too")
	Warn(CatEditor, "kept")

	require.NotContains(t, buf.String(), "dropped")
	require.Contains(t, buf.String(), "[WARN] [editor] kept")
}

func TestLog_Disabled(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, LevelDebug)
	SetEnabled(false)
	defer SetEnabled(true)

	Error(CatCLI, "silent")

	require.Empty(t, buf.String())
}

func TestLog_OddFieldsAndErrors(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, LevelDebug)

	Info(CatHistory, "odd", "orphan")
	ErrorErr(CatHistory, "failed", errors.New("boom"))
	ErrorErr(CatHistory, "nil error", nil)

	out := buf.String()
	require.Contains(t, out, "orphan=<missing>")
	require.Contains(t, out, "error=boom")
	require.Contains(t, out, "error=<nil>")
}

func TestLog_Listener(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, LevelDebug)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := NewListener(ctx)
	require.NotNil(t, l)

	Info(CatConfig, "loaded", "path", "x.yaml")

	event, ok := l.Next()
	require.True(t, ok)
	require.Contains(t, event.Payload, "[INFO] [config] loaded path=x.yaml")
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	require.Equal(t, LevelWarn, ParseLevel("warning"))
	require.Equal(t, LevelError, ParseLevel("error"))
	require.Equal(t, LevelInfo, ParseLevel("whatever"))
}
