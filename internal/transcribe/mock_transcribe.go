package transcribe

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockRemote is a mock implementation of Remote using testify/mock.
type MockRemote struct {
	mock.Mock
}

func (m *MockRemote) Transcribe(ctx context.Context, audio Audio) (string, error) {
	args := m.Called(ctx, audio)
	return args.String(0), args.Error(1)
}

// MockFallback is a mock implementation of Fallback using testify/mock.
type MockFallback struct {
	mock.Mock
}

func (m *MockFallback) Transcribe(ctx context.Context, data []byte, mimeType string) (string, error) {
	args := m.Called(ctx, data, mimeType)
	return args.String(0), args.Error(1)
}

// MockRecognizer is a mock implementation of Recognizer using testify/mock.
type MockRecognizer struct {
	mock.Mock
}

func (m *MockRecognizer) Recognize(ctx context.Context, wavData []byte, sampleRate int) (string, error) {
	args := m.Called(ctx, wavData, sampleRate)
	return args.String(0), args.Error(1)
}
