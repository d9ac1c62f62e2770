package interview

import (
	"context"
	"fmt"

	"interview-coach/internal/extract"
	"interview-coach/internal/heuristic"
	"interview-coach/internal/provider"
)

const realtimePrompt = `
You are a realtime interview coach evaluating a candidate.

Role: %s
Job Description: %s

Candidate transcript:
%s

Observed metrics:
- Session seconds: %d
- Filler words: %d
- Eye contact estimate: %d/10
- Posture estimate: %d/10
- Outfit estimate: %d/10
- Lighting estimate: %d/10
- Face detected: %s

Return ONLY valid JSON in this schema:
{
  "overall_score": 1-10 integer,
  "tone_score": 1-10 integer,
  "posture_score": 1-10 integer,
  "outfit_score": 1-10 integer,
  "confidence_score": 1-10 integer,
  "summary": "one-line summary",
  "feedback": ["short bullet", "short bullet"],
  "improvements": ["short bullet", "short bullet"]
}
`

// RealtimeRequest carries one live-session snapshot.
type RealtimeRequest struct {
	Role           string
	JobDescription string
	Transcript     string
	SessionSeconds int
	FillerWords    int
	// Frame is a base64 image, optionally as a data URL.
	Frame            string
	Overrides        heuristic.Overrides
	ConfidenceSignal int
	LightingScore    int
	FaceDetected     *bool
}

// RealtimeScore scores a live session. Without a chat credential, or when the
// model route is not found, the heuristic result is returned.
func (s *Simulator) RealtimeScore(ctx context.Context, req RealtimeRequest) (heuristic.Score, error) {
	visual := heuristic.EstimateVisual(req.Frame).Apply(req.Overrides)
	in := heuristic.Input{
		Transcript:       req.Transcript,
		SessionSeconds:   max(req.SessionSeconds, 1),
		FillerWords:      max(req.FillerWords, 0),
		Visual:           visual,
		ConfidenceSignal: heuristic.Clamp(float64(req.ConfidenceSignal)),
		LightingScore:    heuristic.Clamp(float64(req.LightingScore)),
		FaceDetected:     req.FaceDetected,
	}
	base := heuristic.Evaluate(in)

	if !s.hasChatKey() {
		return base, nil
	}

	prompt := fmt.Sprintf(realtimePrompt,
		req.Role, req.JobDescription, req.Transcript,
		in.SessionSeconds, in.FillerWords,
		visual.EyeContact, visual.Posture, visual.Outfit,
		in.LightingScore, faceDetectedLabel(req.FaceDetected),
	)
	raw, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		if provider.IsRouteNotFound(err) {
			s.log.Warn("chat model route not found; using heuristic realtime score", "err", err)
			return base, nil
		}
		return heuristic.Score{}, err
	}

	res := extract.Extract(raw, realtimeSchema(base))
	if !res.Parsed {
		return base, nil
	}
	return heuristic.Score{
		OverallScore:    res.Int("overall_score"),
		ToneScore:       res.Int("tone_score"),
		PostureScore:    res.Int("posture_score"),
		OutfitScore:     res.Int("outfit_score"),
		ConfidenceScore: res.Int("confidence_score"),
		Summary:         res.String("summary"),
		Feedback:        res.List("feedback"),
		Improvements:    res.List("improvements"),
	}, nil
}

// realtimeSchema defaults every field to the heuristic result.
func realtimeSchema(base heuristic.Score) extract.Schema {
	score := func(name string, def int) extract.IntField {
		return extract.IntField{Name: name, Min: 1, Max: 10, Default: def, Rounding: extract.RoundHalfEven}
	}
	return extract.Schema{
		Ints: []extract.IntField{
			score("overall_score", base.OverallScore),
			score("tone_score", base.ToneScore),
			score("posture_score", base.PostureScore),
			score("outfit_score", base.OutfitScore),
			score("confidence_score", base.ConfidenceScore),
		},
		Lists: []extract.ListField{
			{Name: "feedback", Default: base.Feedback},
			{Name: "improvements", Default: base.Improvements},
		},
		Strings: []extract.StringField{
			{Name: "summary", Default: base.Summary},
		},
	}
}

func faceDetectedLabel(detected *bool) string {
	switch {
	case detected == nil:
		return "unknown"
	case *detected:
		return "yes"
	default:
		return "no"
	}
}
