package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWithRotateWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, flush := NewWithRotate("info", true, path, 1, 1, 1, false)
	l.Info("ligne de test")
	flush()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(b), "ligne de test") {
		t.Fatalf("log file content = %q", b)
	}
}

func TestNewWithRotateFiltersBelowLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, flush := NewWithRotate("warn", true, path, 1, 1, 1, false)
	l.Info("ignorée")
	l.Warn("conservée")
	flush()

	b, _ := os.ReadFile(path)
	if strings.Contains(string(b), "ignorée") {
		t.Fatal("info line written despite warn level")
	}
	if !strings.Contains(string(b), "conservée") {
		t.Fatalf("warn line missing, content = %q", b)
	}
}
