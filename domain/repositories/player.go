package repositories

import (
	"context"
	"io"
	"time"
)

// AudioPlayer plays an MP3 stream on a local output device
type AudioPlayer interface {
	Play(ctx context.Context, r io.Reader) error
}

// AudioProber decodes enough of an MP3 stream to report its duration
type AudioProber interface {
	Probe(r io.ReadSeeker) (time.Duration, error)
}
