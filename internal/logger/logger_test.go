package logger

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestPathPrecedence(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("QLINE_CONFIG_HOME", "")
	t.Setenv("QLINE_LOG_FILE", "")

	got, err := Path()
	if err != nil {
		t.Fatalf("Path error: %v", err)
	}
	if want := filepath.Join(dir, "xdg", "qline", "qline.log"); got != want {
		t.Fatalf("xdg path = %q, want %q", got, want)
	}

	t.Setenv("QLINE_CONFIG_HOME", filepath.Join(dir, "home"))
	got, _ = Path()
	if want := filepath.Join(dir, "home", "qline.log"); got != want {
		t.Fatalf("config home path = %q, want %q", got, want)
	}

	t.Setenv("QLINE_LOG_FILE", filepath.Join(dir, "explicit.log"))
	got, _ = Path()
	if want := filepath.Join(dir, "explicit.log"); got != want {
		t.Fatalf("explicit path = %q, want %q", got, want)
	}
}

func TestDebugLevelGate(t *testing.T) {
	var buf bytes.Buffer
	Use(New(zapcore.AddSync(&buf), false))
	t.Cleanup(func() { Use(nil) })

	Debug("hidden", "k", 1)
	Info("shown", "k", 2)
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line written at info level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, `"k"`) {
		t.Fatalf("info line missing: %q", out)
	}
}

func TestHelpersWithoutLogger(t *testing.T) {
	Use(nil)
	Debug("x")
	Info("x")
	Warn("x")
	Error("x")
}
