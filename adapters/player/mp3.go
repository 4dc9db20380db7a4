package player

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/hajimehoshi/go-mp3"
	"go.uber.org/zap"

	"github.com/xingkongliang/text-to-speech-app/domain/repositories"
)

const (
	// go-mp3 always decodes to 16-bit little-endian stereo
	channelCount   = 2
	bytesPerSample = 2
	pollInterval   = 50 * time.Millisecond
)

// MP3Prober reports the duration of MP3 streams
type MP3Prober struct{}

// Ensure MP3Prober implements the AudioProber interface
var _ repositories.AudioProber = MP3Prober{}

// Probe implements repositories.AudioProber
func (MP3Prober) Probe(r io.ReadSeeker) (time.Duration, error) {
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return 0, fmt.Errorf("failed to decode mp3: %w", err)
	}
	return pcmDuration(decoder.Length(), decoder.SampleRate()), nil
}

func pcmDuration(length int64, sampleRate int) time.Duration {
	if length <= 0 || sampleRate <= 0 {
		return 0
	}
	frames := length / (channelCount * bytesPerSample)
	return time.Duration(frames) * time.Second / time.Duration(sampleRate)
}

// OtoPlayer plays MP3 audio on the default output device.
// oto permits one context per process; it is created on the first Play
// with the sample rate of that stream.
type OtoPlayer struct {
	mu         sync.Mutex
	ctx        *oto.Context
	sampleRate int
	logger     *zap.Logger
}

// Ensure OtoPlayer implements the AudioPlayer interface
var _ repositories.AudioPlayer = (*OtoPlayer)(nil)

// NewOtoPlayer creates a new player
func NewOtoPlayer(logger *zap.Logger) *OtoPlayer {
	return &OtoPlayer{logger: logger}
}

// Play decodes r and blocks until playback ends or ctx is done
func (p *OtoPlayer) Play(ctx context.Context, r io.Reader) error {
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return fmt.Errorf("failed to decode mp3: %w", err)
	}

	otoCtx, err := p.context(decoder.SampleRate())
	if err != nil {
		return err
	}

	player := otoCtx.NewPlayer(decoder)
	defer player.Close()

	p.logger.Info("Playing audio", zap.Int("sampleRate", decoder.SampleRate()))
	player.Play()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
			return ctx.Err()
		case <-ticker.C:
		}
	}

	if err := player.Err(); err != nil {
		return fmt.Errorf("playback failed: %w", err)
	}
	return nil
}

func (p *OtoPlayer) context(sampleRate int) (*oto.Context, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ctx != nil {
		if p.sampleRate != sampleRate {
			return nil, fmt.Errorf("audio device opened at %d Hz, stream is %d Hz", p.sampleRate, sampleRate)
		}
		return p.ctx, nil
	}

	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channelCount,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create audio context: %w", err)
	}
	<-ready

	p.ctx = otoCtx
	p.sampleRate = sampleRate
	p.logger.Debug("Audio context ready", zap.Int("sampleRate", sampleRate))
	return otoCtx, nil
}
