// Package heuristic scores an interview answer without any model call, from
// transcript statistics and visual-quality signals. Everything here is deterministic.
package heuristic

import (
	"fmt"
	"math"
	"regexp"
)

// TargetWPM is the speaking pace that maximizes the tone score. Tunable.
const TargetWPM = 135.0

// NeutralSignal is the neutral value for confidence and lighting signals.
const NeutralSignal = 6

const heuristicSummary = "Heuristic realtime assessment generated from speech patterns and visual cues."

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Score is the realtime assessment shape, shared with model-produced results.
type Score struct {
	OverallScore    int      `json:"overall_score"`
	ToneScore       int      `json:"tone_score"`
	PostureScore    int      `json:"posture_score"`
	OutfitScore     int      `json:"outfit_score"`
	ConfidenceScore int      `json:"confidence_score"`
	Summary         string   `json:"summary"`
	Feedback        []string `json:"feedback"`
	Improvements    []string `json:"improvements"`
}

// Input is everything the engine looks at.
type Input struct {
	Transcript     string
	SessionSeconds int
	FillerWords    int
	Visual         Visual
	// ConfidenceSignal and LightingScore are 1-10; pass NeutralSignal when unknown.
	ConfidenceSignal int
	LightingScore    int
	// FaceDetected is nil when the client could not tell.
	FaceDetected *bool
}

// Metrics are the transcript statistics the scores derive from.
type Metrics struct {
	Words         int
	WPM           float64
	FillerDensity float64
}

// Clamp rounds x half-to-even and bounds it to 1..10.
func Clamp(x float64) int {
	if math.IsNaN(x) {
		return 1
	}
	return int(math.Max(1, math.Min(10, math.RoundToEven(x))))
}

// CountWords counts word-boundary tokens.
func CountWords(text string) int {
	return len(wordPattern.FindAllStringIndex(text, -1))
}

// ComputeMetrics derives pace and filler density. Seconds below 1 count as 1 and
// negative filler counts as 0.
func ComputeMetrics(transcript string, sessionSeconds, fillerWords int) Metrics {
	words := CountWords(transcript)
	seconds := max(sessionSeconds, 1)
	fillers := max(fillerWords, 0)
	return Metrics{
		Words:         words,
		WPM:           float64(words) / float64(seconds) * 60,
		FillerDensity: float64(fillers) / float64(max(words, 1)),
	}
}

// Evaluate produces the full heuristic result.
func Evaluate(in Input) Score {
	m := ComputeMetrics(in.Transcript, in.SessionSeconds, in.FillerWords)

	tone := Clamp(8.2 - m.FillerDensity*30 - math.Abs(TargetWPM-m.WPM)/40)
	confidence := Clamp(4 + math.Min(float64(m.Words)/35, 3) - m.FillerDensity*24 +
		float64(in.ConfidenceSignal-NeutralSignal)*0.55)
	posture := in.Visual.Posture
	outfit := in.Visual.Outfit
	overall := Clamp(float64(tone+confidence+posture+outfit+in.Visual.EyeContact) / 5)

	return Score{
		OverallScore:    overall,
		ToneScore:       tone,
		PostureScore:    posture,
		OutfitScore:     outfit,
		ConfidenceScore: confidence,
		Summary:         heuristicSummary,
		Feedback: []string{
			fmt.Sprintf("Speech pace is about %d words per minute.", int(m.WPM)),
			fmt.Sprintf("Detected filler usage is %.1f%% of spoken words.", m.FillerDensity*100),
			fmt.Sprintf("Face detection is %s; lighting quality is %s.", FaceState(in.FaceDetected), LightingBucket(in.LightingScore)),
		},
		Improvements: []string{
			"Pause briefly before key points to sound more composed.",
			"Keep shoulders straight and maintain camera-facing posture.",
			"Improve front lighting and keep your face centered for stable tracking.",
		},
	}
}

// FaceState renders the tri-state face detection flag.
func FaceState(detected *bool) string {
	switch {
	case detected == nil:
		return "not confirmed"
	case *detected:
		return "detected"
	default:
		return "not detected"
	}
}

// LightingBucket buckets a 1-10 lighting score.
func LightingBucket(score int) string {
	switch {
	case score >= 7:
		return "good"
	case score >= 4:
		return "moderate"
	default:
		return "poor"
	}
}
