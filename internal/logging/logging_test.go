package logging

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	for _, format := range []string{"", "console", "json", "JSON"} {
		logger, err := New("debug", format)
		if err != nil {
			t.Errorf("New(debug, %q) failed: %v", format, err)
			continue
		}
		logger.Sync()
	}

	if _, err := New("info", "xml"); err == nil {
		t.Error("Expected error for invalid format")
	}
	if _, err := New("loud", "json"); err == nil {
		t.Error("Expected error for invalid level")
	}
}

func TestWriteStartupError(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteStartupError(dir, errors.New("OpenAI API key is not set"))
	if err != nil {
		t.Fatalf("WriteStartupError failed: %v", err)
	}
	if path != filepath.Join(dir, StartupLogName) {
		t.Errorf("Unexpected log path %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}
	if !strings.Contains(string(data), "OpenAI API key is not set") {
		t.Errorf("Log does not contain the cause: %s", data)
	}

	if _, err := WriteStartupError(filepath.Join(dir, "missing"), errors.New("x")); err == nil {
		t.Error("Expected error writing into a missing directory")
	}
}
