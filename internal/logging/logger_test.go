package logging_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"grun/internal/config"
	"grun/internal/logging"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	return string(content)
}

func TestConsoleLoggerFormatsComponentAndAttrs(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, _, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger = logging.NewComponentLogger(logger, "dispatch")
	logger.Info("running", logging.String(logging.FieldOperation, "submit"), logging.Error(errors.New("boom here")))

	content := readLog(t, logPath)
	for _, want := range []string{"INFO dispatch: running", "operation=submit", `error="boom here"`} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in %q", want, content)
		}
	}
	if strings.Contains(content, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleLoggerRespectsLevel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "level.log")
	logger, _, err := logging.New(logging.Options{Level: "warn", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("hidden")
	logger.Warn("shown")

	content := readLog(t, logPath)
	if strings.Contains(content, "hidden") {
		t.Fatalf("info message leaked at warn level: %q", content)
	}
	if !strings.Contains(content, "WARN shown") {
		t.Fatalf("expected warn message, got %q", content)
	}
}

func TestJSONLoggerEmitsStructuredRecords(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, _, err := logging.New(logging.Options{Format: "json", Level: "debug", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Debug("resolved", logging.String(logging.FieldVariable, "JOB"))

	var record map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(readLog(t, logPath))), &record); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if record["level"] != "debug" || record["variable"] != "JOB" {
		t.Fatalf("unexpected record %v", record)
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts key in %v", record)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Level = "error"
	cfg.Logging.File = filepath.Join(t.TempDir(), "nested", "grun.log")

	logger, files, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Error("failed")
	if err := files.Close(); err != nil {
		t.Fatalf("close log files: %v", err)
	}

	if !strings.Contains(readLog(t, cfg.Logging.File), "ERROR failed") {
		t.Fatal("expected error line in log file")
	}
}

func TestCloseReleasesLogFiles(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "closed.log")
	_, files, err := logging.New(logging.Options{OutputPaths: []string{logPath, "stderr"}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := files.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := files.Close(); !errors.Is(err, os.ErrClosed) {
		t.Fatalf("expected the log file to be closed already, got %v", err)
	}
}

func TestCloseWithoutLogFiles(t *testing.T) {
	_, files, err := logging.New(logging.Options{})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := files.Close(); err != nil {
		t.Fatalf("close stderr-only logger: %v", err)
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(t.Context(), 100) {
		t.Fatal("nop logger must not be enabled")
	}
}
