package interview

import (
	"context"
	"fmt"

	"interview-coach/internal/extract"
)

const answerPrompt = `
You are an encouraging interviewer, but also practical and have guts to say that the answer is logicless or anything which will help realize the candidate for its mistake.

Question: %s
Candidate Answer: %s

Evaluate and provide:
- give 0 score for random answers like random characters etc.
- A score from 1 to 10 (real scores)
- Detailed feedback (1-2 bullet points)
- Improvements/tips (1-2 bullet points)
- Even if the answer is not perfect, encourage the candidate by giving it some extra marks.
- Give real and harsh score and suggestions.
- check if the answer is technically related to the question and check if misbehave is detected.

Output ONLY JSON in this format:
{"score": number, "feedback": ["...", "..."], "improvements": ["...", "..."]}
`

// AnswerScore is the model's verdict on one answer.
type AnswerScore struct {
	Score        int      `json:"score"`
	Feedback     []string `json:"feedback"`
	Improvements []string `json:"improvements"`
}

var answerSchema = extract.Schema{
	Ints: []extract.IntField{
		{Name: "score", Min: 0, Max: 10, Default: 5, Rounding: extract.Truncate},
	},
	Lists: []extract.ListField{
		{Name: "feedback", Default: []string{"Good effort."}},
		{Name: "improvements", Default: []string{"Add clearer examples."}},
	},
}

// UnparsedAnswer is returned when the model output holds no JSON object.
func UnparsedAnswer() AnswerScore {
	return AnswerScore{
		Score:        5,
		Feedback:     []string{"AI output could not be parsed."},
		Improvements: []string{"Keep trying! Answer more clearly and provide examples."},
	}
}

// ScoreAnswer grades answer on a 0-10 scale.
func (s *Simulator) ScoreAnswer(ctx context.Context, question, answer string) (AnswerScore, error) {
	raw, err := s.llm.Complete(ctx, fmt.Sprintf(answerPrompt, question, answer))
	if err != nil {
		return AnswerScore{}, err
	}

	res := extract.Extract(raw, answerSchema)
	if !res.Parsed {
		s.log.Warn("answer score output not parseable; using defaults")
		return UnparsedAnswer(), nil
	}
	return AnswerScore{
		Score:        res.Int("score"),
		Feedback:     res.List("feedback"),
		Improvements: res.List("improvements"),
	}, nil
}
