package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stdout)
		Init("info")
	})
	return &buf
}

func TestInitAndParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":    LevelDebug,
		"WARN":     LevelWarn,
		"warning":  LevelWarn,
		"Error":    LevelError,
		" fatal ":  LevelFatal,
		"nonsense": LevelInfo,
		"":         LevelInfo,
	}
	for in, want := range cases {
		Init(in)
		require.Equal(t, want, CurrentLevel(), "input %q", in)
	}
	Init("info")
	require.Equal(t, "info", CurrentLevel().String())
}

func TestLevelFiltering(t *testing.T) {
	buf := capture(t)

	Init("warn")
	Debugf("debug-msg")
	Infof("info-msg")
	Warnf("warn-msg %d", 1)
	Errorf("error-msg")

	out := buf.String()
	require.NotContains(t, out, "debug-msg")
	require.NotContains(t, out, "info-msg")
	require.Contains(t, out, "[WARN] warn-msg 1")
	require.Contains(t, out, "[ERROR] error-msg")
}

func TestLogw(t *testing.T) {
	buf := capture(t)
	Init("info")

	Logw(LevelInfo, "request", "method", "GET", "status", 200, "errors", "", "note", "two words", "dangling")
	require.Contains(t, buf.String(), `[INFO] request method=GET status=200 errors="" note="two words" dangling=MISSING`)

	buf.Reset()
	Logw(LevelDebug, "hidden", "k", "v")
	require.Empty(t, buf.String())
}

func TestFatalfExits(t *testing.T) {
	buf := capture(t)
	code := 0
	exit = func(c int) { code = c }
	defer func() { exit = os.Exit }()

	Init("fatal")
	Fatalf("cannot start: %s", "boom")
	require.Equal(t, 1, code)
	require.Contains(t, buf.String(), "[FATAL] cannot start: boom")
}
