package heuristic

import (
	"encoding/base64"
	"strings"
)

const (
	visualSampleBytes = 5000
	defaultIntensity  = 120.0
	defaultVisual     = 6
)

// Visual holds the proxy eye contact, posture and outfit scores, each 1-10.
type Visual struct {
	EyeContact int `json:"eye_contact"`
	Posture    int `json:"posture"`
	Outfit     int `json:"outfit"`
}

// Overrides are caller-supplied visual scores; nil fields keep the estimate.
type Overrides struct {
	EyeContact *int
	Posture    *int
	Outfit     *int
}

// DefaultVisual is used when no usable frame is supplied.
func DefaultVisual() Visual {
	return Visual{EyeContact: defaultVisual, Posture: defaultVisual, Outfit: defaultVisual}
}

// EstimateVisual derives visual scores from a base64 frame, optionally prefixed with
// a data URL header. Missing or undecodable frames yield DefaultVisual.
func EstimateVisual(frame string) Visual {
	if frame == "" {
		return DefaultVisual()
	}
	encoded := frame
	if _, after, ok := strings.Cut(frame, ","); ok {
		encoded = after
	}
	image, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return DefaultVisual()
	}

	sample := image[:min(len(image), visualSampleBytes)]
	intensity := defaultIntensity
	if len(sample) > 0 {
		var sum int
		for _, b := range sample {
			sum += int(b)
		}
		intensity = float64(sum) / float64(len(sample))
	}
	sizeKB := float64(len(image)) / 1024

	return Visual{
		EyeContact: Clamp(sizeKB/16 + 4),
		Posture:    Clamp(intensity/35 + 3),
		Outfit:     Clamp((sizeKB+intensity)/45 + 2),
	}
}

// Apply returns v with any overrides clamped into 1-10 and substituted.
func (v Visual) Apply(o Overrides) Visual {
	if o.EyeContact != nil {
		v.EyeContact = Clamp(float64(*o.EyeContact))
	}
	if o.Posture != nil {
		v.Posture = Clamp(float64(*o.Posture))
	}
	if o.Outfit != nil {
		v.Outfit = Clamp(float64(*o.Outfit))
	}
	return v
}
