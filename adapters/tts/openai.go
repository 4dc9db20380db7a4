package tts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"

	"github.com/xingkongliang/text-to-speech-app/domain/entities"
	"github.com/xingkongliang/text-to-speech-app/domain/repositories"
)

const (
	defaultAPIBaseURL     = "https://api.openai.com/v1"
	defaultModel          = openai.SpeechModelTTS1
	defaultRequestTimeout = 60 * time.Second
)

// OpenAIConfig holds configuration for the OpenAI speech adapter
// Required fields:
// - APIKey: bearer credential for the OpenAI API
// Optional fields with defaults:
// - APIBaseURL: "https://api.openai.com/v1"
// - Model: "tts-1"
// - Timeout: 60s for the whole request including the audio body
type OpenAIConfig struct {
	APIKey     string
	APIBaseURL string
	Model      string
	Timeout    time.Duration
}

// OpenAITTS implements TextToSpeech against the OpenAI /audio/speech endpoint
type OpenAITTS struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// Ensure OpenAITTS implements the TextToSpeech interface
var _ repositories.TextToSpeech = (*OpenAITTS)(nil)

// ValidateOpenAIConfig validates the OpenAIConfig
func ValidateOpenAIConfig(config OpenAIConfig) error {
	if strings.TrimSpace(config.APIKey) == "" {
		return fmt.Errorf("openai API key is required")
	}
	if config.Timeout < 0 {
		return fmt.Errorf("timeout must be positive, got %s", config.Timeout)
	}
	return nil
}

// NewOpenAITTS creates a new OpenAI speech adapter. Requests are never retried.
func NewOpenAITTS(config OpenAIConfig, logger *zap.Logger) (*OpenAITTS, error) {
	if err := ValidateOpenAIConfig(config); err != nil {
		return nil, err
	}

	apiBaseURL := strings.TrimRight(config.APIBaseURL, "/")
	if apiBaseURL == "" {
		apiBaseURL = defaultAPIBaseURL
		logger.Info("Using default API base URL", zap.String("apiBaseURL", apiBaseURL))
	}

	model := config.Model
	if model == "" {
		model = defaultModel
		logger.Info("Using default model", zap.String("model", model))
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultRequestTimeout
	}

	client := openai.NewClient(
		option.WithAPIKey(config.APIKey),
		option.WithBaseURL(apiBaseURL+"/"),
		option.WithHTTPClient(&http.Client{Timeout: timeout}),
		option.WithMaxRetries(0),
	)

	return &OpenAITTS{
		client: &client,
		model:  model,
		logger: logger,
	}, nil
}

// Model returns the model identifier sent with every request
func (o *OpenAITTS) Model() string {
	return o.model
}

// Synthesize converts text to MP3 audio using the OpenAI API
func (o *OpenAITTS) Synthesize(ctx context.Context, text string, voice entities.Voice) (io.ReadCloser, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	o.logger.Info("Converting text to speech",
		zap.Int("textLength", len([]rune(text))),
		zap.String("voice", string(voice)),
		zap.String("model", o.model))

	resp, err := o.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Input:          text,
		Model:          openai.SpeechModel(o.model),
		Voice:          openai.AudioSpeechNewParamsVoice(voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
	}, option.WithHeader("Accept", "audio/mpeg"))
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			o.logger.Error("OpenAI API returned error",
				zap.Int("statusCode", apiErr.StatusCode),
				zap.String("message", apiErr.Message))
			return nil, fmt.Errorf("OpenAI API request failed (status=%d): %s",
				apiErr.StatusCode, strings.TrimSpace(apiErr.Message))
		}
		o.logger.Error("Failed to execute speech request", zap.Error(err))
		return nil, fmt.Errorf("OpenAI API request failed: %w", err)
	}
	if resp == nil || resp.Body == nil {
		return nil, fmt.Errorf("OpenAI API returned no audio")
	}

	o.logger.Debug("Received response from OpenAI API",
		zap.String("contentType", resp.Header.Get("Content-Type")),
		zap.Int64("contentLength", resp.ContentLength))

	return resp.Body, nil
}
