package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(Options{Level: "loud"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.log")
	log, err := New(Options{Level: "info", Env: "prod", File: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	log.Info("models loaded")
	log.Debug("hidden")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"msg":"models loaded"`) {
		t.Fatalf("expected JSON entry, got %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatal("debug entry written at info level")
	}
}
