// Package config loads process configuration from the environment once at
// start-up.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	Address string `env:"ADDRESS" envDefault:":8000"`

	BaseURL     string   `env:"BASE_URL" envDefault:"http://localhost:8000"`
	FrontendURL string   `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"http://localhost:5173,http://localhost:3000" envSeparator:","`

	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	GeminiAPIKey  string        `env:"GEMINI_API_KEY,required,notEmpty"`
	GeminiModel   string        `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	GeminiBaseURL string        `env:"GEMINI_BASE_URL"`
	GeminiTimeout time.Duration `env:"GEMINI_TIMEOUT" envDefault:"120s"`

	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"local"`
	StorageDir    string `env:"STORAGE_DIR" envDefault:"./storage"`
	R2            R2

	DefaultLanguage        string   `env:"DEFAULT_LANGUAGE" envDefault:"en"`
	DefaultTargetLanguages []string `env:"DEFAULT_TARGET_LANGUAGES" envDefault:"en,fr,es" envSeparator:","`

	MinPairingConfidence float64 `env:"MIN_PAIRING_CONFIDENCE" envDefault:"0.55"`
	MaxReasonPairings    int     `env:"MAX_REASON_PAIRINGS" envDefault:"25"`

	MinUploadBytes int64 `env:"MIN_UPLOAD_BYTES" envDefault:"100"`
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" envDefault:"20971520"`

	RasterDPI      int    `env:"RASTER_DPI" envDefault:"200"`
	RasterMaxPages int    `env:"RASTER_MAX_PAGES" envDefault:"8"`
	PDFToPPMPath   string `env:"PDFTOPPM_PATH" envDefault:"pdftoppm"`

	ChatHistoryWindow  int `env:"CHAT_HISTORY_WINDOW" envDefault:"10"`
	ConversationCap    int `env:"CONVERSATION_CAP" envDefault:"20"`
	ChatRatePerMinute  int `env:"CHAT_RATE_PER_MINUTE" envDefault:"30"`
	TranslationWorkers int `env:"TRANSLATION_CONCURRENCY" envDefault:"3"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`
}

type R2 struct {
	Endpoint      string `env:"R2_ENDPOINT"`
	AccessKey     string `env:"R2_ACCESS_KEY"`
	SecretKey     string `env:"R2_SECRET_KEY"`
	Bucket        string `env:"R2_BUCKET_NAME"`
	PublicBaseURL string `env:"R2_PUBLIC_BASE_URL"`
}

// Load reads .env outside production, then the environment.
func Load() (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}
	return Parse()
}

// Parse reads the environment only.
func Parse() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.StorageDriver = strings.ToLower(strings.TrimSpace(c.StorageDriver))

	switch c.StorageDriver {
	case "local":
	case "r2":
		if c.R2.Endpoint == "" || c.R2.Bucket == "" || c.R2.PublicBaseURL == "" {
			return fmt.Errorf("config: STORAGE_DRIVER=r2 needs R2_ENDPOINT, R2_BUCKET_NAME and R2_PUBLIC_BASE_URL")
		}
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.MinPairingConfidence < 0 || c.MinPairingConfidence > 1 {
		return fmt.Errorf("config: MIN_PAIRING_CONFIDENCE must be within [0,1]")
	}
	if c.MaxUploadBytes > 0 && c.MinUploadBytes > c.MaxUploadBytes {
		return fmt.Errorf("config: MIN_UPLOAD_BYTES exceeds MAX_UPLOAD_BYTES")
	}

	return nil
}

// Debug is true outside production; error responses then carry detail.
func (c *Config) Debug() bool {
	return c.AppEnv != "production"
}

func (c *Config) Production() bool {
	return c.AppEnv == "production"
}
