package repositories

import (
	"context"
	"io"

	"github.com/xingkongliang/text-to-speech-app/domain/entities"
)

// TextToSpeech abstracts the remote synthesis call
type TextToSpeech interface {
	// Synthesize returns the audio payload as a stream. The caller must close it.
	Synthesize(ctx context.Context, text string, voice entities.Voice) (io.ReadCloser, error)
}
