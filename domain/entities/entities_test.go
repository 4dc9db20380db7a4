package entities

import (
	"errors"
	"testing"
)

func TestParseVoice(t *testing.T) {
	for _, v := range Voices() {
		got, err := ParseVoice(string(v))
		if err != nil {
			t.Errorf("ParseVoice(%q) returned error: %v", v, err)
		}
		if got != v {
			t.Errorf("ParseVoice(%q) = %q", v, got)
		}
	}

	got, err := ParseVoice("  ")
	if err != nil || got != DefaultVoice {
		t.Errorf("Expected blank voice to default to %q, got %q (%v)", DefaultVoice, got, err)
	}

	got, err = ParseVoice(" NOVA ")
	if err != nil || got != VoiceNova {
		t.Errorf("Expected case-insensitive match for nova, got %q (%v)", got, err)
	}

	if _, err := ParseVoice("robot"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for unknown voice, got %v", err)
	}
}

func TestVoices_ReturnsCopy(t *testing.T) {
	voices := Voices()
	if len(voices) != 9 {
		t.Fatalf("Expected 9 voices, got %d", len(voices))
	}
	voices[0] = "mutated"
	if Voices()[0] != VoiceAlloy {
		t.Error("Voices must not expose the internal allow-list")
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", DefaultFileName},
		{"   ", DefaultFileName},
		{"x", "x"},
		{"report.mp3", "report"},
		{"report.MP3", "report"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\me\greeting.mp3`, "greeting"},
		{"my file", "my_file"},
		{"语音", "语音"},
		{"...", DefaultFileName},
		{"???", DefaultFileName},
		{".hidden", "hidden"},
		{"v1.2-final_take", "v1.2-final_take"},
	}

	for _, tt := range tests {
		if got := SanitizeFileName(tt.in); got != tt.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSynthesisRequest_Normalize(t *testing.T) {
	req := SynthesisRequest{Text: "  Hello world \n", Voice: "nova", FileName: ""}
	got, err := req.Normalize()
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if got.Text != "Hello world" {
		t.Errorf("Expected trimmed text, got %q", got.Text)
	}
	if got.Voice != VoiceNova {
		t.Errorf("Expected voice nova, got %q", got.Voice)
	}
	if got.FileName != DefaultFileName {
		t.Errorf("Expected default file name, got %q", got.FileName)
	}
}

func TestSynthesisRequest_NormalizeRejectsEmptyText(t *testing.T) {
	for _, text := range []string{"", "   ", "\t\n"} {
		_, err := SynthesisRequest{Text: text, Voice: VoiceAlloy}.Normalize()
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Expected ErrInvalidInput for %q, got %v", text, err)
		}
	}
}

func TestSynthesisRequest_NormalizeRejectsUnknownVoice(t *testing.T) {
	_, err := SynthesisRequest{Text: "hi", Voice: "robot"}.Normalize()
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}
