package settings

import "github.com/stretchr/testify/mock"

// MockStore is a mock implementation of Store using testify/mock.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Load() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockStore) Save(apiKey string) error {
	args := m.Called(apiKey)
	return args.Error(0)
}
