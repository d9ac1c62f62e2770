package app

import (
	"context"

	"github.com/stretchr/testify/mock"

	"interview-coach/internal/heuristic"
	"interview-coach/internal/interview"
	"interview-coach/internal/transcribe"
)

// MockCoach is a mock implementation of Coach using testify/mock.
type MockCoach struct {
	mock.Mock
}

func (m *MockCoach) GenerateQuestions(ctx context.Context, role, description string, n int) ([]string, error) {
	args := m.Called(ctx, role, description, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCoach) ScoreAnswer(ctx context.Context, question, answer string) (interview.AnswerScore, error) {
	args := m.Called(ctx, question, answer)
	return args.Get(0).(interview.AnswerScore), args.Error(1)
}

func (m *MockCoach) RealtimeScore(ctx context.Context, req interview.RealtimeRequest) (heuristic.Score, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(heuristic.Score), args.Error(1)
}

// MockTranscriber is a mock implementation of Transcriber using testify/mock.
type MockTranscriber struct {
	mock.Mock
}

func (m *MockTranscriber) Transcribe(ctx context.Context, audio transcribe.Audio) (transcribe.Result, error) {
	args := m.Called(ctx, audio)
	return args.Get(0).(transcribe.Result), args.Error(1)
}
