package tts

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/xingkongliang/text-to-speech-app/domain/entities"
)

func TestNewOpenAITTS(t *testing.T) {
	logger := zaptest.NewLogger(t)

	// Test without API key
	_, err := NewOpenAITTS(OpenAIConfig{}, logger)
	if err == nil {
		t.Error("Expected error when API key is not set")
	}

	// Test with API key
	tts, err := NewOpenAITTS(OpenAIConfig{APIKey: "test-api-key"}, logger)
	if err != nil {
		t.Fatalf("Failed to create OpenAITTS: %v", err)
	}

	if tts.Model() != defaultModel {
		t.Errorf("Expected default model '%s', got '%s'", defaultModel, tts.Model())
	}
}

func TestOpenAITTS_Synthesize(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)

		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/audio/speech" {
			t.Errorf("Expected path /audio/speech, got %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-api-key" {
			t.Errorf("Expected bearer credential, got '%s'", got)
		}
		if got := r.Header.Get("Accept"); got != "audio/mpeg" {
			t.Errorf("Expected Accept audio/mpeg, got '%s'", got)
		}

		body, _ := io.ReadAll(r.Body)
		var req struct {
			Model          string `json:"model"`
			Input          string `json:"input"`
			Voice          string `json:"voice"`
			ResponseFormat string `json:"response_format"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("Failed to unmarshal request: %v", err)
		}
		if req.Model != "tts-1" || req.Voice != "nova" || req.Input != "Hello world" || req.ResponseFormat != "mp3" {
			t.Errorf("Unexpected request payload: %+v", req)
		}

		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("mock-audio-data"))
	}))
	defer server.Close()

	tts, err := NewOpenAITTS(OpenAIConfig{APIKey: "test-api-key", APIBaseURL: server.URL}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Failed to create OpenAITTS: %v", err)
	}

	audio, err := tts.Synthesize(context.Background(), "Hello world", entities.VoiceNova)
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	defer audio.Close()

	data, err := io.ReadAll(audio)
	if err != nil {
		t.Fatalf("Failed to read audio: %v", err)
	}
	if string(data) != "mock-audio-data" {
		t.Errorf("Expected 'mock-audio-data', got '%s'", string(data))
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Errorf("Expected exactly one request, got %d", hits)
	}
}

func TestOpenAITTS_SynthesizeAPIError(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"You exceeded your current quota","type":"insufficient_quota"}}`))
	}))
	defer server.Close()

	tts, err := NewOpenAITTS(OpenAIConfig{APIKey: "test-api-key", APIBaseURL: server.URL}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Failed to create OpenAITTS: %v", err)
	}

	_, err = tts.Synthesize(context.Background(), "Hello", entities.VoiceAlloy)
	if err == nil {
		t.Fatal("Expected error for quota response")
	}
	if !strings.Contains(err.Error(), "429") || !strings.Contains(err.Error(), "quota") {
		t.Errorf("Expected status and message in error, got '%v'", err)
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Errorf("Expected no retry, got %d requests", hits)
	}
}

func TestOpenAITTS_SynthesizeEmptyText(t *testing.T) {
	tts, err := NewOpenAITTS(OpenAIConfig{APIKey: "test-api-key"}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Failed to create OpenAITTS: %v", err)
	}

	_, err = tts.Synthesize(context.Background(), "   ", entities.VoiceAlloy)
	if err == nil {
		t.Error("Expected error for whitespace-only text")
	}
}
