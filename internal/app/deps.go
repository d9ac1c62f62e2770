package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/joho/godotenv"

	"interview-coach/internal/cache"
	"interview-coach/internal/config"
	"interview-coach/internal/credentials"
	"interview-coach/internal/heuristic"
	"interview-coach/internal/interview"
	"interview-coach/internal/llm"
	"interview-coach/internal/logger"
	"interview-coach/internal/retry"
	"interview-coach/internal/settings"
	"interview-coach/internal/transcribe"
)

const (
	redisConnectAttempts = 3
	redisConnectBudget   = 20 * time.Second
)

// Transcriber turns uploaded audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio transcribe.Audio) (transcribe.Result, error)
}

// Coach is the set of interview operations served over HTTP.
type Coach interface {
	GenerateQuestions(ctx context.Context, role, description string, n int) ([]string, error)
	ScoreAnswer(ctx context.Context, question, answer string) (interview.AnswerScore, error)
	RealtimeScore(ctx context.Context, req interview.RealtimeRequest) (heuristic.Score, error)
}

// Deps bundles the runtime dependencies of the server.
type Deps struct {
	Config      config.Config
	Log         *slog.Logger
	Keys        credentials.Manager
	Coach       Coach
	Transcriber Transcriber
	Cache       cache.Cache
}

// Build loads env, config, and shared components.
func Build() (Deps, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Deps{}, fmt.Errorf("failed to load environment variables: %w", err)
	}
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	keys := credentials.NewLayered(settings.NewFileStore(cfg.SettingsFile), log)
	status := keys.Status()
	log.Info("chat credential", "configured", status.Configured, "source", status.Source, "masked_key", status.MaskedKey)

	completer, err := buildCompleter(cfg, keys, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize LLM: %w", err)
	}
	c := buildCache(cfg, log)

	sim := interview.NewSimulator(completer, keys, log,
		interview.WithCache(c, cfg.Model, time.Duration(cfg.CacheTTL)*time.Second))

	return Deps{
		Config:      cfg,
		Log:         log,
		Keys:        keys,
		Coach:       sim,
		Transcriber: buildTranscriber(cfg, keys, log),
		Cache:       c,
	}, nil
}

func buildCompleter(cfg config.Config, keys credentials.Resolver, log *slog.Logger) (llm.Completer, error) {
	client, err := llm.NewOpenAIClient(cfg.BaseURL, cfg.Model, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenAI-compatible client: %w", err)
	}
	log.Info("using chat completion client", "base_url", cfg.BaseURL, "model", cfg.Model)
	return client, nil
}

func buildTranscriber(cfg config.Config, keys credentials.Resolver, log *slog.Logger) Transcriber {
	remote := transcribe.NewWhisperClient(cfg.BaseURL, cfg.STTModel, keys, 0)

	var fallback transcribe.Fallback
	if cfg.FallbackSTTURL != "" {
		recognizer := transcribe.NewSpeechRecognizer(cfg.FallbackSTTURL, cfg.FallbackSTTAPIKey, cfg.FallbackSTTLanguage)
		fallback = transcribe.NewLocalFallback(recognizer, "", log)
		log.Info("local fallback recognizer enabled", "url", cfg.FallbackSTTURL, "language", cfg.FallbackSTTLanguage)
	}
	log.Info("using transcription client", "model", cfg.STTModel)
	return transcribe.NewService(remote, fallback, log)
}

// buildCache falls back to NoOpCache when Redis is unavailable.
func buildCache(cfg config.Config, log *slog.Logger) cache.Cache {
	switch cfg.CacheProvider {
	case "redis":
		if cfg.RedisAddr == "" {
			log.Warn("REDIS_ADDR is empty; question caching disabled")
			return cache.NewNoOpCache()
		}
		var rc *cache.RedisCache
		ctx, cancel := context.WithTimeout(context.Background(), redisConnectBudget)
		defer cancel()
		err := retry.Do(ctx, redisConnectAttempts, 200*time.Millisecond, func() error {
			var err error
			rc, err = cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
			return err
		})
		if err != nil {
			log.Warn("redis unavailable; question caching disabled", "err", err)
			return cache.NewNoOpCache()
		}
		log.Info("using Redis question cache", "addr", cfg.RedisAddr, "ttl_seconds", cfg.CacheTTL)
		return rc
	case "noop", "":
		log.Info("question caching disabled")
		return cache.NewNoOpCache()
	default:
		log.Warn("unknown CACHE_PROVIDER; question caching disabled", "provider", cfg.CacheProvider)
		return cache.NewNoOpCache()
	}
}
