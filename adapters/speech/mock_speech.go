package speech

import (
	"bytes"
	"context"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/xingkongliang/text-to-speech-app/domain/entities"
	"github.com/xingkongliang/text-to-speech-app/domain/repositories"
)

// MockCall records one Synthesize invocation
type MockCall struct {
	Text  string
	Voice entities.Voice
}

// MockTextToSpeech is an in-memory TextToSpeech used by tests and local demos
type MockTextToSpeech struct {
	mu      sync.Mutex
	payload []byte
	err     error
	gate    chan struct{}
	calls   []MockCall
	logger  *zap.Logger
}

// Ensure MockTextToSpeech implements the TextToSpeech interface
var _ repositories.TextToSpeech = (*MockTextToSpeech)(nil)

// NewMockTextToSpeech creates a mock that answers every call with payload
func NewMockTextToSpeech(payload []byte, logger *zap.Logger) *MockTextToSpeech {
	return &MockTextToSpeech{
		payload: payload,
		logger:  logger,
	}
}

// SetPayload changes the bytes returned by later calls
func (t *MockTextToSpeech) SetPayload(payload []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.payload = payload
}

// SetError makes later calls fail with err
func (t *MockTextToSpeech) SetError(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.err = err
}

// Hold makes later calls block until Release is called or the context ends
func (t *MockTextToSpeech) Hold() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gate = make(chan struct{})
}

// Release unblocks calls parked by Hold
func (t *MockTextToSpeech) Release() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.gate != nil {
		close(t.gate)
		t.gate = nil
	}
}

// Calls returns the invocations seen so far
func (t *MockTextToSpeech) Calls() []MockCall {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]MockCall, len(t.calls))
	copy(out, t.calls)
	return out
}

// Synthesize implements repositories.TextToSpeech
func (t *MockTextToSpeech) Synthesize(ctx context.Context, text string, voice entities.Voice) (io.ReadCloser, error) {
	t.mu.Lock()
	t.calls = append(t.calls, MockCall{Text: text, Voice: voice})
	payload, err, gate := t.payload, t.err, t.gate
	t.mu.Unlock()

	t.logger.Info("Processing text-to-speech",
		zap.String("text", text),
		zap.String("voice", string(voice)))

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(payload)), nil
}
