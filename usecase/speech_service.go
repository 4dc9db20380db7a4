package usecase

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/xingkongliang/text-to-speech-app/domain"
	"github.com/xingkongliang/text-to-speech-app/domain/entities"
	"github.com/xingkongliang/text-to-speech-app/domain/repositories"
)

// SpeechService turns synthesis requests into audio artifacts
type SpeechService struct {
	textToSpeech repositories.TextToSpeech
	storage      repositories.ArtifactStorage
	session      *Session
	publisher    repositories.EventPublisher
	logger       *zap.Logger
}

// NewSpeechService creates a new speech service. publisher may be nil.
func NewSpeechService(
	tts repositories.TextToSpeech,
	storage repositories.ArtifactStorage,
	session *Session,
	publisher repositories.EventPublisher,
	logger *zap.Logger,
) *SpeechService {
	return &SpeechService{
		textToSpeech: tts,
		storage:      storage,
		session:      session,
		publisher:    publisher,
		logger:       logger,
	}
}

// Session returns the session the service records artifacts in
func (s *SpeechService) Session() *Session {
	return s.session
}

// Synthesize runs one request and blocks until the artifact is written.
// It fails with ErrBusy while another request of the same session is outstanding.
func (s *SpeechService) Synthesize(ctx context.Context, req entities.SynthesisRequest) (*entities.SynthesisResult, error) {
	normalized, err := req.Normalize()
	if err != nil {
		return nil, err
	}

	job := newJob(ctx, normalized)
	if err := s.session.acquire(job); err != nil {
		return nil, err
	}

	result, err := s.run(job)
	s.session.release(job)
	job.finish(result, err)
	return result, err
}

// Submit validates req and runs it in the background. onDone, if not nil, is
// called with the outcome after the session slot has been released.
func (s *SpeechService) Submit(req entities.SynthesisRequest, onDone func(*entities.SynthesisResult, error)) (*Job, error) {
	normalized, err := req.Normalize()
	if err != nil {
		return nil, err
	}

	job := newJob(context.Background(), normalized)
	if err := s.session.acquire(job); err != nil {
		return nil, err
	}

	go func() {
		result, err := s.run(job)
		s.session.release(job)
		job.finish(result, err)
		if onDone != nil {
			onDone(result, err)
		}
	}()

	return job, nil
}

func (s *SpeechService) run(job *Job) (*entities.SynthesisResult, error) {
	ctx := job.ctx
	req := job.Request
	start := time.Now()

	s.logger.Info("Starting synthesis",
		zap.String("jobID", job.ID),
		zap.String("voice", string(req.Voice)),
		zap.String("fileName", req.FileName),
		zap.Int("textLength", len([]rune(req.Text))))

	s.publish(domain.SynthesisEvent{
		Type:     domain.EventSynthesisStarted,
		JobID:    job.ID,
		Voice:    string(req.Voice),
		FileName: req.FileName,
	})

	path, written, err := s.synthesizeToStorage(ctx, req)
	if err != nil {
		s.logger.Error("Synthesis failed",
			zap.String("jobID", job.ID),
			zap.Error(err))
		s.publish(domain.SynthesisEvent{
			Type:     domain.EventSynthesisFailed,
			JobID:    job.ID,
			Voice:    string(req.Voice),
			FileName: req.FileName,
			Error:    err.Error(),
		})
		return nil, err
	}

	s.session.setLastArtifact(path)

	result := &entities.SynthesisResult{
		Path:     path,
		FileName: req.FileName,
		Voice:    req.Voice,
		Bytes:    written,
		Elapsed:  time.Since(start),
	}

	s.logger.Info("Synthesis completed",
		zap.String("jobID", job.ID),
		zap.String("path", path),
		zap.Int64("bytes", written),
		zap.Duration("elapsed", result.Elapsed))

	s.publish(domain.SynthesisEvent{
		Type:     domain.EventSynthesisCompleted,
		JobID:    job.ID,
		Voice:    string(req.Voice),
		FileName: req.FileName,
		Path:     path,
		Bytes:    written,
	})

	return result, nil
}

func (s *SpeechService) synthesizeToStorage(ctx context.Context, req entities.SynthesisRequest) (string, int64, error) {
	// Step 1: Remote synthesis
	audio, err := s.textToSpeech.Synthesize(ctx, req.Text, req.Voice)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %w", entities.ErrSynthesisFailed, err)
	}
	defer audio.Close()

	buffered := bufio.NewReader(audio)
	if _, err := buffered.Peek(1); err != nil {
		if errors.Is(err, io.EOF) {
			return "", 0, fmt.Errorf("%w: empty audio payload", entities.ErrSynthesisFailed)
		}
		return "", 0, fmt.Errorf("%w: %w", entities.ErrSynthesisFailed, err)
	}

	// Step 2: Persist the stream, overwriting any previous artifact of that name
	source := &sourceReader{r: buffered}
	path, written, err := s.storage.Write(ctx, req.FileName, source)
	if err != nil {
		if source.err != nil || ctx.Err() != nil {
			return "", written, fmt.Errorf("%w: %w", entities.ErrSynthesisFailed, err)
		}
		return "", written, fmt.Errorf("%w: %w", entities.ErrIOFailed, err)
	}

	return path, written, nil
}

func (s *SpeechService) publish(event domain.SynthesisEvent) {
	if s.publisher == nil {
		return
	}
	event.Timestamp = time.Now()
	s.publisher.Publish(event)
}

// sourceReader remembers read failures so they are not mistaken for local write errors
type sourceReader struct {
	r   io.Reader
	err error
}

func (s *sourceReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && err != io.EOF {
		s.err = err
	}
	return n, err
}
