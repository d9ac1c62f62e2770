package config

import (
	"log/slog"

	"github.com/caarlos0/env/v10"
)

// Config holds runtime configuration. API keys are deliberately absent: they are
// resolved from the environment and the settings file on every request.
type Config struct {
	// Server
	Port                  int    `env:"PORT" envDefault:"5000"`
	LogLevel              string `env:"LOG_LEVEL" envDefault:"info"`
	RequestTimeoutSeconds int    `env:"REQUEST_TIMEOUT_SECONDS" envDefault:"150"`

	// Upload limits
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"26214400"` // 25MB in bytes

	// Provider
	BaseURL      string `env:"NVIDIA_BASE_URL" envDefault:"https://integrate.api.nvidia.com/v1"`
	Model        string `env:"NVIDIA_MODEL" envDefault:"meta/llama-3.1-8b-instruct"`
	STTModel     string `env:"NVIDIA_STT_MODEL" envDefault:"openai/whisper-large-v3"`
	SettingsFile string `env:"NVIDIA_SETTINGS_FILE" envDefault:"nvidia_settings.json"`

	// Cache
	CacheProvider string `env:"CACHE_PROVIDER" envDefault:"noop"` // "noop" or "redis"
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	CacheTTL      int    `env:"CACHE_TTL" envDefault:"3600"` // seconds

	// Local fallback recognizer
	FallbackSTTURL      string `env:"FALLBACK_STT_URL" envDefault:"https://speech.googleapis.com/v1/speech:recognize"`
	FallbackSTTAPIKey   string `env:"FALLBACK_STT_API_KEY"`
	FallbackSTTLanguage string `env:"FALLBACK_STT_LANGUAGE" envDefault:"en-US"`
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}
