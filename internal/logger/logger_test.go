package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func fileOptions(level, path string) Options {
	opts := DefaultOptions(level, path)
	opts.Console = false
	opts.Compress = false
	opts.MaxBackups = 2
	opts.MaxAgeDays = 1
	return opts
}

func TestLogRotation(t *testing.T) {
	tempDir := t.TempDir()
	logFile := filepath.Join(tempDir, "terrain.log")

	opts := fileOptions("debug", logFile)
	opts.MaxSizeMB = 1 // smallest lumberjack allows

	if err := InitWithOptions(opts); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	defer Sync()

	// ~3MB of entries to force at least one rotation.
	padding := strings.Repeat("x", 200)
	for i := 0; i < 15000; i++ {
		Sugar.Infof("chunk %d dispatched: %s", i, padding)
	}
	Sync()

	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		t.Error("main log file does not exist")
	}

	files, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatalf("failed to read temp dir: %v", err)
	}

	rotated := 0
	for _, f := range files {
		name := f.Name()
		if name == "terrain.log" || !strings.HasPrefix(name, "terrain") {
			continue
		}
		rotated++
		// lumberjack names backups terrain-YYYY-MM-DDTHH-MM-SS.SSS.log
		if !strings.Contains(name, "-20") {
			t.Errorf("rotated file %s doesn't have expected timestamp format", name)
		}
	}
	if rotated == 0 {
		t.Error("no rotated files found")
	}
}

func TestLogLevels(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{"error", []string{"ERROR"}, []string{"WARN", "INFO", "DEBUG"}},
		{"warn", []string{"ERROR", "WARN"}, []string{"INFO", "DEBUG"}},
		{"info", []string{"ERROR", "WARN", "INFO"}, []string{"DEBUG"}},
		{"debug", []string{"ERROR", "WARN", "INFO", "DEBUG"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logFile := filepath.Join(tempDir, tt.level+".log")
			if err := InitWithOptions(fileOptions(tt.level, logFile)); err != nil {
				t.Fatalf("failed to init logger: %v", err)
			}

			Debug("debug message")
			Info("info message")
			Warn("warn message")
			Error("error message")
			Sync()

			content, err := os.ReadFile(logFile)
			if err != nil {
				t.Fatalf("failed to read log file: %v", err)
			}
			logContent := string(content)

			for _, exp := range tt.expected {
				if !strings.Contains(logContent, exp) {
					t.Errorf("expected %s in log output", exp)
				}
			}
			for _, exc := range tt.excluded {
				if strings.Contains(logContent, exc) {
					t.Errorf("unexpected %s in log output for level %s", exc, tt.level)
				}
			}
		})
	}
}

func TestJSONFormatAndNamed(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "json.log")
	opts := fileOptions("info", logFile)
	opts.Format = "json"
	if err := InitWithOptions(opts); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}

	Named("stream").Info("chunk ready", zap.Int("x", 3))
	Sync()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(content))), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, content)
	}
	if entry["logger"] != "stream" {
		t.Errorf("logger = %v, want stream", entry["logger"])
	}
	if entry["msg"] != "chunk ready" {
		t.Errorf("msg = %v, want chunk ready", entry["msg"])
	}
	if entry["x"] != float64(3) {
		t.Errorf("x = %v, want 3", entry["x"])
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions("warn", "/tmp/test.log")

	if opts.Level != "warn" {
		t.Errorf("expected level warn, got %s", opts.Level)
	}
	if opts.File != "/tmp/test.log" {
		t.Errorf("expected path /tmp/test.log, got %s", opts.File)
	}
	if !opts.Console {
		t.Error("expected console output by default")
	}
	if opts.MaxSizeMB != 50 {
		t.Errorf("expected MaxSizeMB 50, got %d", opts.MaxSizeMB)
	}
	if opts.MaxBackups != 3 {
		t.Errorf("expected MaxBackups 3, got %d", opts.MaxBackups)
	}
	if opts.MaxAgeDays != 7 {
		t.Errorf("expected MaxAgeDays 7, got %d", opts.MaxAgeDays)
	}
	if !opts.Compress {
		t.Error("expected Compress to be true")
	}
}

func TestInitConsoleOnly(t *testing.T) {
	if err := Init("warn", ""); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	if Log.Core().Enabled(zap.InfoLevel) {
		t.Error("info enabled at warn level")
	}
	if !Log.Core().Enabled(zap.WarnLevel) {
		t.Error("warn disabled at warn level")
	}
}
