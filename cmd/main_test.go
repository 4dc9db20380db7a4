package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xingkongliang/text-to-speech-app/domain"
	"github.com/xingkongliang/text-to-speech-app/internal/config"
	"github.com/xingkongliang/text-to-speech-app/internal/logging"
)

func TestRootCommand_Subcommands(t *testing.T) {
	root := newRootCommand()

	for _, name := range []string{"say", "serve", "voices", "token", "listen"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("Expected subcommand %q, got %v (err=%v)", name, cmd, err)
		}
	}
}

func TestNewApp_MissingAPIKeyWritesStartupLog(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("TTS_OUTPUT_DIR", "")
	dir := t.TempDir()

	a, err := newAppIn(dir, false)
	if !errors.Is(err, config.ErrMissingAPIKey) {
		t.Fatalf("Expected ErrMissingAPIKey, got %v", err)
	}
	if a != nil {
		t.Error("Expected no app on startup failure")
	}

	data, err := os.ReadFile(filepath.Join(dir, logging.StartupLogName))
	if err != nil {
		t.Fatalf("Expected startup log: %v", err)
	}
	if !strings.Contains(string(data), "startup failed: OpenAI API key is not set") {
		t.Errorf("Unexpected startup log %q", data)
	}
}

func TestVoicesCommand(t *testing.T) {
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"voices"})

	if err := root.Execute(); err != nil {
		t.Fatalf("voices failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 9 {
		t.Fatalf("Expected 9 voices, got %d: %q", len(lines), out.String())
	}
	if lines[0] != "alloy (default)" {
		t.Errorf("Expected alloy to be marked default, got %q", lines[0])
	}
}

func TestTokenCommand_RequiresSecret(t *testing.T) {
	t.Setenv("SHELL_JWT_SECRET", "")

	root := newRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs([]string{"token"})

	if err := root.Execute(); err == nil {
		t.Error("Expected error without SHELL_JWT_SECRET")
	}
}

func TestTokenCommand_MintsToken(t *testing.T) {
	t.Setenv("SHELL_JWT_SECRET", "secret")

	root := newRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs([]string{"token", "--subject", "desktop"})

	if err := root.Execute(); err != nil {
		t.Fatalf("token failed: %v", err)
	}
	if strings.Count(strings.TrimSpace(out.String()), ".") != 2 {
		t.Errorf("Expected a JWT on stdout, got %q", out.String())
	}
}

func TestFormatEvent(t *testing.T) {
	ts := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)

	got := formatEvent(domain.SynthesisEvent{
		Type:      domain.EventSynthesisCompleted,
		JobID:     "job-1",
		Path:      "/tmp/speech.mp3",
		Bytes:     10,
		Timestamp: ts,
	})
	if got != "15:04:05 synthesis_completed job=job-1 path=/tmp/speech.mp3 bytes=10" {
		t.Errorf("Unexpected completed line %q", got)
	}

	got = formatEvent(domain.SynthesisEvent{
		Type:      domain.EventSynthesisFailed,
		JobID:     "job-2",
		Error:     "quota",
		Timestamp: ts,
	})
	if got != `15:04:05 synthesis_failed job=job-2 error="quota"` {
		t.Errorf("Unexpected failed line %q", got)
	}
}
