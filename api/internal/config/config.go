package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	TransportSDK  = "sdk"
	TransportREST = "rest"
)

var ErrMissingAPIKey = errors.New("missing required env GEMINI_API_KEY")

type Config struct {
	Port      string `env:"PORT"`
	DebugMode bool   `env:"DEBUG_MODE"`
	LogLevel  string `env:"LOG_LEVEL"`

	GeminiAPIKey    string `env:"GEMINI_API_KEY"`
	GeminiModel     string `env:"GEMINI_MODEL"`          // базовая модель для всех модальностей
	TextModel       string `env:"GEMINI_TEXT_MODEL"`     // пусто -> GeminiModel
	VisionModel     string `env:"GEMINI_VISION_MODEL"`   // пусто -> GeminiModel
	DocumentModel   string `env:"GEMINI_DOCUMENT_MODEL"` // пусто -> GeminiModel
	AudioModel      string `env:"GEMINI_AUDIO_MODEL"`    // пусто -> GeminiModel
	GeminiTransport string `env:"GEMINI_TRANSPORT"`      // sdk|rest
	GeminiBaseURL   string `env:"GEMINI_BASE_URL"`       // только для rest; пусто: gemini.DefaultBaseURL

	ImagePrompt    string `env:"IMAGE_DEFAULT_PROMPT"`
	DocumentPrompt string `env:"DOCUMENT_DEFAULT_PROMPT"`
	AudioPrompt    string `env:"AUDIO_DEFAULT_PROMPT"`

	MaxUploadMB     int64         `env:"MAX_UPLOAD_MB"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`

	// DatabaseURL включает историю генераций, если пусто, история не пишется.
	DatabaseURL string `env:"DATABASE_URL"`
}

func Defaults() *Config {
	return &Config{
		Port:            "3000",
		LogLevel:        "info",
		GeminiModel:     "gemini-2.5-flash",
		GeminiTransport: TransportSDK,
		ImagePrompt:     "Jelaskan gambar berikut:",
		DocumentPrompt:  "Ringkas dokumen berikut:",
		AudioPrompt:     "Transkrip audio berikut:",
		MaxUploadMB:     20,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load читает .env (если есть), затем окружение поверх значений по умолчанию.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	c.GeminiAPIKey = strings.TrimSpace(c.GeminiAPIKey)
	if c.GeminiAPIKey == "" {
		return ErrMissingAPIKey
	}

	c.GeminiModel = strings.TrimSpace(c.GeminiModel)
	for _, m := range []*string{&c.TextModel, &c.VisionModel, &c.DocumentModel, &c.AudioModel} {
		*m = strings.TrimSpace(*m)
		if *m == "" {
			*m = c.GeminiModel
		}
	}

	c.GeminiTransport = strings.ToLower(strings.TrimSpace(c.GeminiTransport))
	switch c.GeminiTransport {
	case "":
		c.GeminiTransport = TransportSDK
	case TransportSDK, TransportREST:
	default:
		return fmt.Errorf("unknown GEMINI_TRANSPORT %q; use sdk or rest", c.GeminiTransport)
	}

	if strings.TrimSpace(c.Port) == "" {
		c.Port = "3000"
	}
	if c.MaxUploadMB <= 0 {
		c.MaxUploadMB = 20
	}
	return nil
}

// MaxUploadBytes: лимит на одну загрузку.
func (c *Config) MaxUploadBytes() int64 { return c.MaxUploadMB << 20 }

func (c *Config) Addr() string { return ":" + c.Port }
