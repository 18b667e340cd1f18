package logger

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func readEntries(t *testing.T, path string) []map[string]any {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open log file: %v", err)
	}
	defer f.Close()

	var entries []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("invalid log line %q: %v", scanner.Text(), err)
		}
		entries = append(entries, entry)
	}

	return entries
}

func TestDefaultLoggerIsSilent(t *testing.T) {
	SetLogger(nil)

	// Must not panic without Init.
	Debug("nothing")
	Info("nothing")
	Sugar.Warnf("nothing %d", 1)
	Sync()
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		level    string
		expected []string
	}{
		{"debug", []string{"debug", "info", "warn", "error"}},
		{"info", []string{"info", "warn", "error"}},
		{"warn", []string{"warn", "error"}},
		{"error", []string{"error"}},
		{"bogus", []string{"info", "warn", "error"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logFile := filepath.Join(t.TempDir(), "jelly.log")

			cfg := DefaultFileConfig(logFile)
			cfg.Compress = false
			if err := InitWithFileConfig(tt.level, cfg, false); err != nil {
				t.Fatalf("failed to init logger: %v", err)
			}
			defer SetLogger(nil)

			Debug("debug")
			Info("info")
			Warn("warn")
			Error("error")
			Sync()

			entries := readEntries(t, logFile)
			if len(entries) != len(tt.expected) {
				t.Fatalf("got %d entries, want %d", len(entries), len(tt.expected))
			}
			for i, entry := range entries {
				if entry["msg"] != tt.expected[i] {
					t.Errorf("entry %d msg = %v, want %v", i, entry["msg"], tt.expected[i])
				}
				if entry["level"] != tt.expected[i] {
					t.Errorf("entry %d level = %v, want %v", i, entry["level"], tt.expected[i])
				}
			}
		})
	}
}

func TestFileFields(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "fields.log")
	if err := InitWithFileConfig("info", FileConfig{Path: logFile, MaxSizeMB: 1}, false); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	defer SetLogger(nil)

	Named("scene").Info("node added", zap.Int("nodes", 3))
	Sync()

	entries := readEntries(t, logFile)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0]["component"] != "scene" {
		t.Errorf("component = %v, want scene", entries[0]["component"])
	}
	if entries[0]["nodes"] != float64(3) {
		t.Errorf("nodes = %v, want 3", entries[0]["nodes"])
	}
}

func TestSetLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	Debug("grabbed", zap.Int("face", 7))
	Sugar.Infof("step %d", 2)

	if logs.Len() != 2 {
		t.Fatalf("got %d entries, want 2", logs.Len())
	}
	if got := logs.FilterMessage("grabbed").All()[0].ContextMap()["face"]; got != int64(7) {
		t.Errorf("face = %v, want 7", got)
	}
	if logs.FilterMessage("step 2").Len() != 1 {
		t.Error("sugared entry missing")
	}
}
