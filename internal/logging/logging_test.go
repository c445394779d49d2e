package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tolltariff.log")
	logger, err := New(Config{Level: "info", Format: "json", Output: path})
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("hidden")
	logger.Info("imported", zap.Int("added", 3))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if strings.Contains(out, "hidden") {
		t.Error("debug line written at info level")
	}
	if !strings.Contains(out, `"added":3`) {
		t.Errorf("missing field in %q", out)
	}
}

func TestInitializeAndSetLevel(t *testing.T) {
	defer func() {
		Logger = zap.NewNop()
		Sugar = Logger.Sugar()
	}()

	if err := Initialize(Config{Level: "warn", Output: "stderr"}); err != nil {
		t.Fatal(err)
	}
	if Logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn")
	}
	SetLevel("debug")
	if !Named("test").Core().Enabled(zapcore.DebugLevel) {
		t.Error("SetLevel should apply to the global logger")
	}
	SetLevel("info")
}
