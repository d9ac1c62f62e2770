package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store persists the saved chat API key. Every Load hits the backing store; there is no cache.
type Store interface {
	Load() (string, error)
	Save(apiKey string) error
}

type fileSettings struct {
	APIKey string `json:"nvidia_api_key"`
}

// FileStore keeps settings in a single JSON file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the location of the settings file.
func (s *FileStore) Path() string {
	return s.path
}

// Load returns the trimmed saved key, or "" when the file is missing.
// A malformed file is reported as an error but still yields "".
func (s *FileStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read settings: %w", err)
	}
	var payload fileSettings
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", fmt.Errorf("decode settings: %w", err)
	}
	return strings.TrimSpace(payload.APIKey), nil
}

// Save replaces the settings file atomically with the trimmed key.
func (s *FileStore) Save(apiKey string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	body, err := json.Marshal(fileSettings{APIKey: strings.TrimSpace(apiKey)})
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "settings-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp settings: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp settings: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("chmod temp settings: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace settings: %w", err)
	}
	return nil
}
