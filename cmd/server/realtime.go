package main

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"interview-coach/internal/heuristic"
	"interview-coach/internal/interview"
)

var errNotObject = errors.New("request body must be a JSON object")

// parseRealtimeRequest reads the loosely typed realtime payload. Numbers may arrive
// as JSON numbers or numeric strings; anything else falls back to the default.
func parseRealtimeRequest(body []byte) (interview.RealtimeRequest, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		body = []byte("{}")
	}
	if !gjson.ValidBytes(body) {
		return interview.RealtimeRequest{}, errors.New("malformed JSON")
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return interview.RealtimeRequest{}, errNotObject
	}

	req := interview.RealtimeRequest{
		Role:             "Candidate",
		JobDescription:   doc.Get("job_description").String(),
		Transcript:       doc.Get("transcript").String(),
		Frame:            doc.Get("frame_base64").String(),
		SessionSeconds:   max(intOr(doc.Get("session_seconds"), 1), 1),
		FillerWords:      max(intOr(doc.Get("filler_words"), 0), 0),
		ConfidenceSignal: intOr(doc.Get("confidence_signal"), heuristic.NeutralSignal),
		LightingScore:    intOr(doc.Get("lighting_score"), heuristic.NeutralSignal),
		FaceDetected:     faceDetected(doc.Get("face_detected")),
		Overrides: heuristic.Overrides{
			EyeContact: optionalInt(doc.Get("eye_contact")),
			Posture:    optionalInt(doc.Get("posture")),
			Outfit:     optionalInt(doc.Get("outfit")),
		},
	}
	if role := doc.Get("role"); role.Exists() && role.Type != gjson.Null {
		req.Role = role.String()
	}
	return req, nil
}

func optionalInt(v gjson.Result) *int {
	switch v.Type {
	case gjson.Number:
		f := math.Trunc(v.Float())
		if math.IsNaN(f) {
			return nil
		}
		// Keep the conversion bounded; callers clamp afterwards.
		n := int(math.Max(math.MinInt32, math.Min(math.MaxInt32, f)))
		return &n
	case gjson.String:
		n, err := strconv.Atoi(strings.TrimSpace(v.Str))
		if err != nil {
			return nil
		}
		return &n
	default:
		return nil
	}
}

func intOr(v gjson.Result, def int) int {
	if n := optionalInt(v); n != nil {
		return *n
	}
	return def
}

// faceDetected is nil when the client did not say.
func faceDetected(v gjson.Result) *bool {
	var b bool
	switch v.Type {
	case gjson.True, gjson.False:
		b = v.Bool()
	case gjson.String:
		switch strings.ToLower(strings.TrimSpace(v.Str)) {
		case "1", "true", "yes":
			b = true
		}
	default:
		return nil
	}
	return &b
}
