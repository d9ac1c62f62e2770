package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// Cache stores generated question lists
type Cache interface {
	// GetQuestions retrieves cached questions by key
	// Returns nil if not found
	GetQuestions(ctx context.Context, key string) ([]string, error)

	// SetQuestions stores questions with TTL
	SetQuestions(ctx context.Context, key string, questions []string, ttl time.Duration) error

	// Close closes the cache connection
	Close() error
}

// GenerateCacheKey derives a stable key from the generation inputs. Role and
// description are compared case- and whitespace-insensitively.
func GenerateCacheKey(model, role, description string, count int) string {
	norm := func(s string) string { return strings.Join(strings.Fields(strings.ToLower(s)), " ") }
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(norm(role)))
	h.Write([]byte{0})
	h.Write([]byte(norm(description)))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(count)))
	return hex.EncodeToString(h.Sum(nil))
}
