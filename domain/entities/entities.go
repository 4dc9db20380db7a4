package entities

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

// Voice identifies a synthesized speaker preset
type Voice string

const (
	VoiceAlloy   Voice = "alloy"
	VoiceAsh     Voice = "ash"
	VoiceCoral   Voice = "coral"
	VoiceEcho    Voice = "echo"
	VoiceFable   Voice = "fable"
	VoiceOnyx    Voice = "onyx"
	VoiceNova    Voice = "nova"
	VoiceSage    Voice = "sage"
	VoiceShimmer Voice = "shimmer"
)

// DefaultVoice is preselected when the caller does not choose one
const DefaultVoice = VoiceAlloy

// DefaultFileName is used when the requested file name is blank
const DefaultFileName = "speech"

// AudioExtension is appended to every artifact file name
const AudioExtension = ".mp3"

var allowedVoices = []Voice{
	VoiceAlloy, VoiceAsh, VoiceCoral, VoiceEcho, VoiceFable,
	VoiceOnyx, VoiceNova, VoiceSage, VoiceShimmer,
}

// Voices returns the allow-list in display order
func Voices() []Voice {
	out := make([]Voice, len(allowedVoices))
	copy(out, allowedVoices)
	return out
}

// ParseVoice validates a voice name against the allow-list.
// A blank name selects DefaultVoice.
func ParseVoice(name string) (Voice, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return DefaultVoice, nil
	}
	for _, v := range allowedVoices {
		if string(v) == name {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: unsupported voice %q", ErrInvalidInput, name)
}

// SynthesisRequest is the input to one synthesis call
type SynthesisRequest struct {
	Text     string `json:"text"`
	Voice    Voice  `json:"voice"`
	FileName string `json:"file_name"`
}

// Normalize returns a validated copy of the request with the text trimmed,
// the voice checked and the file name sanitized.
func (r SynthesisRequest) Normalize() (SynthesisRequest, error) {
	text := strings.TrimSpace(r.Text)
	if text == "" {
		return SynthesisRequest{}, ErrEmptyText
	}

	voice, err := ParseVoice(string(r.Voice))
	if err != nil {
		return SynthesisRequest{}, err
	}

	return SynthesisRequest{
		Text:     text,
		Voice:    voice,
		FileName: SanitizeFileName(r.FileName),
	}, nil
}

// SanitizeFileName reduces name to a filesystem-safe base name without extension.
// Letters, digits, '-', '_' and '.' are kept; anything else becomes '_'.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "\\", "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if strings.EqualFold(filepath.Ext(name), AudioExtension) {
		name = name[:len(name)-len(AudioExtension)]
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	cleaned := strings.TrimLeft(b.String(), ".")
	if strings.Trim(cleaned, "_.") == "" {
		return DefaultFileName
	}
	return cleaned
}

// SynthesisResult describes a successfully written artifact
type SynthesisResult struct {
	Path     string        `json:"path"`
	FileName string        `json:"file_name"`
	Voice    Voice         `json:"voice"`
	Bytes    int64         `json:"bytes"`
	Elapsed  time.Duration `json:"elapsed_ns"`
}

// AudioArtifact is the metadata of a file on local storage
type AudioArtifact struct {
	Path     string        `json:"path"`
	Size     int64         `json:"size"`
	ModTime  time.Time     `json:"mod_time"`
	Duration time.Duration `json:"duration_ns,omitempty"`
}
