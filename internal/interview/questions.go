package interview

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"interview-coach/internal/cache"
	"interview-coach/internal/llm"
	"interview-coach/internal/provider"
)

const questionsPrompt = `
You are an encouraging interviewer. Generate %d professional interview questions
for this role.

Job Role: %s
Job Description: %s

Include:
- Technical/functional questions relevant to the role.
- The first question for a software engineer should be a simple coding problem like create a function to print elements of an array.
- If the role is for labour or roles like that ask questions about whether he is ok with the wages, ok to travel and related questions only.
- Behavioral questions about teamwork, leadership, problem-solving, ethics.
- Return as a numbered list only.
`

// GenerateQuestions asks the model for n numbered questions. Lists are served from
// the cache when present, but a chat credential is required either way.
func (s *Simulator) GenerateQuestions(ctx context.Context, role, description string, n int) ([]string, error) {
	if n <= 0 {
		n = DefaultQuestionCount
	}
	if !s.hasChatKey() {
		return nil, &provider.MissingCredentialError{Instructions: llm.MissingChatKey}
	}

	key := cache.GenerateCacheKey(s.model, role, description, n)
	if cached, err := s.cache.GetQuestions(ctx, key); err != nil {
		s.log.Warn("question cache lookup failed", "err", err)
	} else if len(cached) > 0 {
		s.log.Debug("question cache hit", "count", len(cached))
		return cached, nil
	}

	text, err := s.llm.Complete(ctx, fmt.Sprintf(questionsPrompt, n, role, description))
	if err != nil {
		return nil, err
	}
	questions := ParseQuestions(text, n)

	if len(questions) > 0 {
		if err := s.cache.SetQuestions(ctx, key, questions, s.cacheTTL); err != nil {
			s.log.Warn("question cache store failed", "err", err)
		}
	}
	return questions, nil
}

// ParseQuestions keeps the non-blank lines that start with a digit, trimmed, up to n.
func ParseQuestions(text string, n int) []string {
	questions := []string{}
	for _, line := range strings.Split(text, "\n") {
		if len(questions) == n {
			break
		}
		first, _ := utf8.DecodeRuneInString(line)
		if !unicode.IsDigit(first) {
			continue
		}
		questions = append(questions, strings.TrimSpace(line))
	}
	return questions
}
