package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewFileLogger(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.log")

	log, err := New(&Config{
		Level:     LevelDebug,
		Format:    FormatJSON,
		Output:    "file",
		FilePath:  path,
		MaxSize:   1,
		Component: "test",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer log.Close()

	log.Info("hello", "locale", "ja")
	if err := log.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"locale":"ja"`) {
		t.Errorf("log entry missing attribute: %s", data)
	}
	if !strings.Contains(string(data), `"component":"test"`) {
		t.Errorf("log entry missing component: %s", data)
	}
}

func TestLevelFiltering(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.log")

	log, err := New(&Config{
		Level:    LevelWarn,
		Output:   "file",
		FilePath: path,
		MaxSize:  1,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer log.Close()

	log.Debug("should be dropped")
	log.Warn("should appear")
	log.Sync()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "should be dropped") {
		t.Error("debug entry written despite warn level")
	}
	if !strings.Contains(string(data), "should appear") {
		t.Error("warn entry missing")
	}
}

func TestRotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rot.log")

	r, err := NewFileRotator(&Config{FilePath: path, MaxSize: 0, MaxBackups: 2})
	if err != nil {
		t.Fatalf("NewFileRotator: %v", err)
	}
	defer r.Close()

	// MaxSize 0 forces a rotation on every write.
	if _, err := r.Write([]byte("first\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := r.Write([]byte("second\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "rot-*.log"))
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	if len(matches) == 0 {
		t.Error("no rotated files found")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("json"); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat(json) = %v, %v", f, err)
	}
	if f, err := ParseFormat(""); err != nil || f != FormatText {
		t.Errorf("ParseFormat(empty) = %v, %v", f, err)
	}
	if _, err := ParseFormat("yaml"); err == nil {
		t.Error("ParseFormat(yaml) expected error")
	}
}
