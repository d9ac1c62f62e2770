// Package credentials resolves the active provider API key for a purpose from
// layered sources: process environment first, then the persisted settings file.
package credentials

import (
	"log/slog"
	"os"
	"strings"

	"interview-coach/internal/settings"
)

// Purpose scopes a credential to the endpoint it authorizes.
type Purpose string

const (
	PurposeChat   Purpose = "chat"
	PurposeSpeech Purpose = "speech"
)

// Source names where a credential was found.
type Source string

const (
	SourceSpeechEnvironment Source = "speech_environment"
	SourceEnvironment       Source = "environment"
	SourceSaved             Source = "saved"
	SourceNone              Source = "none"
)

const (
	EnvAPIKey    = "NVIDIA_API_KEY"
	EnvSTTAPIKey = "NVIDIA_STT_API_KEY"
)

// Precedence per purpose; the first source yielding a non-empty key wins.
var (
	ChatOrder   = []Source{SourceEnvironment, SourceSaved}
	SpeechOrder = []Source{SourceSpeechEnvironment, SourceEnvironment, SourceSaved}
)

// Order returns the resolution order for p.
func Order(p Purpose) []Source {
	if p == PurposeSpeech {
		return SpeechOrder
	}
	return ChatOrder
}

// Credential is a resolved secret. Use Masked when logging or displaying it.
type Credential struct {
	Key     string
	Source  Source
	Purpose Purpose
}

func (c Credential) Masked() string {
	return Mask(c.Key)
}

// Mask hides all but the first and last four characters of keys longer than eight.
func Mask(key string) string {
	if key == "" {
		return ""
	}
	runes := []rune(key)
	if len(runes) <= 8 {
		return strings.Repeat("*", len(runes))
	}
	return string(runes[:4]) + strings.Repeat("*", len(runes)-8) + string(runes[len(runes)-4:])
}

// Resolver resolves a credential for a purpose. ok is false when no source has one.
type Resolver interface {
	Resolve(p Purpose) (cred Credential, ok bool)
}

// Manager is a Resolver that also reports and persists the saved key.
type Manager interface {
	Resolver
	Status() Status
	Save(key string) (masked string, err error)
}

// Status describes the active chat credential for display.
type Status struct {
	Configured bool   `json:"configured"`
	Source     Source `json:"source"`
	MaskedKey  string `json:"masked_key"`
}

// Layered reads the environment and the settings store on every call.
type Layered struct {
	store  settings.Store
	lookup func(string) string
	log    *slog.Logger
}

// NewLayered builds a resolver over the process environment and store.
func NewLayered(store settings.Store, log *slog.Logger) *Layered {
	return &Layered{store: store, lookup: os.Getenv, log: log}
}

// WithLookup replaces the environment lookup; used by tests.
func (l *Layered) WithLookup(fn func(string) string) *Layered {
	l.lookup = fn
	return l
}

func (l *Layered) Resolve(p Purpose) (Credential, bool) {
	for _, src := range Order(p) {
		if key := l.read(src); key != "" {
			return Credential{Key: key, Source: src, Purpose: p}, true
		}
	}
	return Credential{Source: SourceNone, Purpose: p}, false
}

func (l *Layered) read(src Source) string {
	switch src {
	case SourceSpeechEnvironment:
		return strings.TrimSpace(l.lookup(EnvSTTAPIKey))
	case SourceEnvironment:
		return strings.TrimSpace(l.lookup(EnvAPIKey))
	case SourceSaved:
		if l.store == nil {
			return ""
		}
		key, err := l.store.Load()
		if err != nil {
			l.log.Warn("saved api key unreadable; treating as absent", "err", err)
			return ""
		}
		return key
	default:
		return ""
	}
}

// Status reports the chat credential that would be used right now.
func (l *Layered) Status() Status {
	cred, ok := l.Resolve(PurposeChat)
	return Status{Configured: ok, Source: cred.Source, MaskedKey: cred.Masked()}
}

// Save persists key (trimmed) and returns its masked form.
func (l *Layered) Save(key string) (string, error) {
	key = strings.TrimSpace(key)
	if err := l.store.Save(key); err != nil {
		return "", err
	}
	l.log.Info("api key saved", "masked_key", Mask(key))
	return Mask(key), nil
}
