package credentials

import "github.com/stretchr/testify/mock"

// MockResolver is a mock implementation of Resolver using testify/mock.
type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(p Purpose) (Credential, bool) {
	args := m.Called(p)
	return args.Get(0).(Credential), args.Bool(1)
}

// MockManager is a mock implementation of Manager using testify/mock.
type MockManager struct {
	MockResolver
}

func (m *MockManager) Status() Status {
	args := m.Called()
	return args.Get(0).(Status)
}

func (m *MockManager) Save(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}
