// Package interview composes the completion client, the structured-output
// extractor and the heuristic engine into the coaching operations.
package interview

import (
	"log/slog"
	"time"

	"interview-coach/internal/cache"
	"interview-coach/internal/credentials"
	"interview-coach/internal/llm"
)

// DefaultQuestionCount is used when the caller asks for zero or fewer questions.
const DefaultQuestionCount = 5

// Simulator runs question generation, answer scoring and realtime scoring.
type Simulator struct {
	llm      llm.Completer
	keys     credentials.Resolver
	cache    cache.Cache
	cacheTTL time.Duration
	model    string
	log      *slog.Logger
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithCache caches generated question lists for ttl. model distinguishes keys
// when the backing model changes.
func WithCache(c cache.Cache, model string, ttl time.Duration) Option {
	return func(s *Simulator) {
		s.cache = c
		s.model = model
		s.cacheTTL = ttl
	}
}

func NewSimulator(completer llm.Completer, keys credentials.Resolver, log *slog.Logger, opts ...Option) *Simulator {
	s := &Simulator{
		llm:   completer,
		keys:  keys,
		cache: cache.NewNoOpCache(),
		log:   log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) hasChatKey() bool {
	_, ok := s.keys.Resolve(credentials.PurposeChat)
	return ok
}
