package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	// DefaultOutputDirName is created next to the executable when TTS_OUTPUT_DIR is unset
	DefaultOutputDirName = "audio_files"

	// DefaultSaveDirName holds copies saved through the HTTP shell when TTS_SAVE_DIR is unset
	DefaultSaveDirName = "saved_audio"
)

var (
	// ErrMissingAPIKey is returned when OPENAI_API_KEY is not set
	ErrMissingAPIKey = errors.New("OpenAI API key is not set")

	// ErrUnguardedListener is returned when the HTTP shell would be reachable
	// from other hosts without the token guard
	ErrUnguardedListener = errors.New("SHELL_JWT_SECRET is required to listen beyond loopback")
)

// Config is the process configuration read from the environment
type Config struct {
	OpenAIAPIKey   string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL  string        `env:"OPENAI_BASE_URL"`
	Model          string        `env:"TTS_MODEL" envDefault:"tts-1"`
	OutputDir      string        `env:"TTS_OUTPUT_DIR"`
	SaveDir        string        `env:"TTS_SAVE_DIR"`
	RequestTimeout time.Duration `env:"TTS_REQUEST_TIMEOUT" envDefault:"60s"`
	Locale         string        `env:"TTS_LOCALE" envDefault:"en"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`

	ServerAddr     string   `env:"SERVER_ADDR" envDefault:"127.0.0.1:8080"`
	CORSOrigins    []string `env:"SERVER_CORS_ORIGINS" envSeparator:","`
	ShellJWTSecret string   `env:"SHELL_JWT_SECRET"`
}

// Load reads an optional .env file and parses the environment into a Config.
// Relative output and save directories resolve against baseDir.
func Load(baseDir string) (*Config, error) {
	// A missing .env file is not an error
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.OpenAIAPIKey = strings.TrimSpace(cfg.OpenAIAPIKey)
	cfg.Locale = strings.ToLower(strings.TrimSpace(cfg.Locale))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))

	if cfg.Locale == "" {
		cfg.Locale = "en"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "console"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDirName
	}
	if cfg.SaveDir == "" {
		cfg.SaveDir = DefaultSaveDirName
	}
	cfg.OutputDir = resolveDir(baseDir, cfg.OutputDir)
	cfg.SaveDir = resolveDir(baseDir, cfg.SaveDir)

	origins := cfg.CORSOrigins[:0]
	for _, origin := range cfg.CORSOrigins {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	cfg.CORSOrigins = origins

	return cfg, nil
}

// Validate checks the values that do not depend on the command being run
func (c *Config) Validate() error {
	switch c.Locale {
	case "en", "zh":
	default:
		return fmt.Errorf("invalid TTS_LOCALE: %s", c.Locale)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("invalid LOG_FORMAT: %s", c.LogFormat)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("TTS_REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	if strings.TrimSpace(c.Model) == "" {
		return errors.New("TTS_MODEL must not be empty")
	}
	if c.ShellJWTSecret == "" && slices.Contains(c.CORSOrigins, "*") {
		return errors.New("SERVER_CORS_ORIGINS=* requires SHELL_JWT_SECRET")
	}
	return nil
}

// CheckListenAddr fails when addr is reachable from other hosts and the token guard is off
func (c *Config) CheckListenAddr(addr string) error {
	if c.ShellJWTSecret != "" || IsLoopbackAddr(addr) {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnguardedListener, addr)
}

// IsLoopbackAddr reports whether a host:port listen address only accepts local
// connections. An empty host listens on every interface.
func IsLoopbackAddr(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func resolveDir(baseDir, dir string) string {
	if filepath.IsAbs(dir) || baseDir == "" {
		return dir
	}
	return filepath.Join(baseDir, dir)
}

// RequireAPIKey fails when the synthesis credential is absent
func (c *Config) RequireAPIKey() error {
	if c.OpenAIAPIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// BaseDir returns the directory of the running executable, falling back to
// the working directory under `go run` style temp builds.
func BaseDir() string {
	exe, err := os.Executable()
	if err != nil {
		wd, _ := os.Getwd()
		return wd
	}
	dir := filepath.Dir(exe)
	if strings.HasPrefix(dir, os.TempDir()) {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return dir
}
