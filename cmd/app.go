package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/xingkongliang/text-to-speech-app/adapters/player"
	"github.com/xingkongliang/text-to-speech-app/adapters/storage"
	"github.com/xingkongliang/text-to-speech-app/adapters/tts"
	"github.com/xingkongliang/text-to-speech-app/internal/config"
	"github.com/xingkongliang/text-to-speech-app/internal/i18n"
	"github.com/xingkongliang/text-to-speech-app/internal/logging"
	"github.com/xingkongliang/text-to-speech-app/internal/websocket"
	"github.com/xingkongliang/text-to-speech-app/usecase"
)

// app is the fully wired core shared by the shells
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	labels    i18n.Labels
	speech    *usecase.SpeechService
	artifacts *usecase.ArtifactAccess
	hub       *websocket.Hub // nil unless events were requested
}

// loadConfig reads and validates the environment
func loadConfig(baseDir string) (*config.Config, error) {
	cfg, err := config.Load(baseDir)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newApp(withEvents bool) (*app, error) {
	return newAppIn(config.BaseDir(), withEvents)
}

// newAppIn wires the speech core. Any failure is recorded in the startup log
// in baseDir, and the user is told where to find it.
func newAppIn(baseDir string, withEvents bool) (*app, error) {
	a, err := buildApp(baseDir, withEvents)
	if err != nil {
		labels := i18n.English
		if a != nil {
			labels = a.labels
		}
		if path, logErr := logging.WriteStartupError(baseDir, err); logErr == nil {
			fmt.Fprintf(os.Stderr, labels.StartupLogWritten+"\n", path)
		}
		return nil, err
	}
	return a, nil
}

func buildApp(baseDir string, withEvents bool) (*app, error) {
	cfg, err := loadConfig(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	a := &app{cfg: cfg, labels: i18n.For(cfg.Locale)}

	if err := cfg.RequireAPIKey(); err != nil {
		return a, err
	}

	// Initialize logger
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return a, err
	}
	a.logger = logger

	// Initialize adapters
	textToSpeech, err := tts.NewOpenAITTS(tts.OpenAIConfig{
		APIKey:     cfg.OpenAIAPIKey,
		APIBaseURL: cfg.OpenAIBaseURL,
		Model:      cfg.Model,
		Timeout:    cfg.RequestTimeout,
	}, logger)
	if err != nil {
		return a, fmt.Errorf("failed to create OpenAI client: %w", err)
	}
	fileStorage := storage.NewFileStorage(cfg.OutputDir, logger)

	// Initialize usecase services
	session := usecase.NewSession()
	if withEvents {
		a.hub = websocket.NewHub(logger, cfg.CORSOrigins...)
		a.speech = usecase.NewSpeechService(textToSpeech, fileStorage, session, a.hub, logger)
	} else {
		a.speech = usecase.NewSpeechService(textToSpeech, fileStorage, session, nil, logger)
	}
	a.artifacts = usecase.NewArtifactAccess(fileStorage, session, player.MP3Prober{}, player.NewOtoPlayer(logger), logger)

	logger.Info("Text-to-speech core initialized",
		zap.String("model", textToSpeech.Model()),
		zap.String("outputDir", fileStorage.Dir()),
		zap.String("locale", cfg.Locale))

	return a, nil
}

func (a *app) close() {
	if a.logger != nil {
		a.logger.Sync()
	}
}
