// Package extract pulls a JSON object out of free-form model text and reads it field
// by field against typed defaults. It never fails: anything unusable degrades to the
// default for that field.
package extract

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Rounding selects how a fractional model score becomes an integer.
type Rounding int

const (
	// RoundHalfEven rounds to the nearest integer, ties to even.
	RoundHalfEven Rounding = iota
	// Truncate drops the fractional part.
	Truncate
)

// IntField is a numeric field clamped into [Min, Max].
type IntField struct {
	Name     string
	Min, Max int
	Default  int
	Rounding Rounding
}

// ListField is an ordered list of short strings.
type ListField struct {
	Name    string
	Default []string
}

// StringField is a single line of text.
type StringField struct {
	Name    string
	Default string
}

// Schema lists the fields to read.
type Schema struct {
	Ints    []IntField
	Lists   []ListField
	Strings []StringField
}

// Result holds every schema field, always populated.
type Result struct {
	// Parsed is false when no JSON object could be located or decoded; every
	// field then holds its default.
	Parsed  bool
	Ints    map[string]int
	Lists   map[string][]string
	Strings map[string]string
}

// Int returns the named integer field.
func (r Result) Int(name string) int { return r.Ints[name] }

// List returns the named list field.
func (r Result) List(name string) []string { return r.Lists[name] }

// String returns the named string field.
func (r Result) String(name string) string { return r.Strings[name] }

// Extract locates the span from the first '{' to the last '}' in raw, parses it and
// fills every schema field from it, falling back to each field's default.
func Extract(raw string, s Schema) Result {
	res := defaults(s)
	obj, ok := locate(raw)
	if !ok {
		return res
	}
	res.Parsed = true

	for _, f := range s.Ints {
		if v, ok := number(obj.Get(f.Name)); ok {
			res.Ints[f.Name] = clamp(toInt(v, f.Rounding), f.Min, f.Max)
		}
	}
	for _, f := range s.Lists {
		if v, ok := list(obj.Get(f.Name)); ok {
			res.Lists[f.Name] = v
		}
	}
	for _, f := range s.Strings {
		if v := obj.Get(f.Name); v.Exists() && v.Type == gjson.String {
			res.Strings[f.Name] = v.Str
		}
	}
	return res
}

func defaults(s Schema) Result {
	res := Result{
		Ints:    make(map[string]int, len(s.Ints)),
		Lists:   make(map[string][]string, len(s.Lists)),
		Strings: make(map[string]string, len(s.Strings)),
	}
	for _, f := range s.Ints {
		res.Ints[f.Name] = f.Default
	}
	for _, f := range s.Lists {
		res.Lists[f.Name] = append([]string(nil), f.Default...)
	}
	for _, f := range s.Strings {
		res.Strings[f.Name] = f.Default
	}
	return res
}

// locate applies the greedy first-'{'-to-last-'}' match and requires a JSON object.
func locate(raw string) (gjson.Result, bool) {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end <= start {
		return gjson.Result{}, false
	}
	candidate := raw[start : end+1]
	if !gjson.Valid(candidate) {
		return gjson.Result{}, false
	}
	obj := gjson.Parse(candidate)
	if !obj.IsObject() {
		return gjson.Result{}, false
	}
	return obj, true
}

// number accepts JSON numbers and numeric strings such as "7" or " 8.5 ".
func number(v gjson.Result) (float64, bool) {
	switch v.Type {
	case gjson.Number:
		return v.Num, !math.IsNaN(v.Num) && !math.IsInf(v.Num, 0)
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// list accepts an array (keeping its non-empty string items) or a lone string.
func list(v gjson.Result) ([]string, bool) {
	switch {
	case v.IsArray():
		out := []string{}
		for _, item := range v.Array() {
			if s := strings.TrimSpace(item.String()); s != "" && item.Type != gjson.Null {
				out = append(out, s)
			}
		}
		return out, true
	case v.Type == gjson.String:
		if s := strings.TrimSpace(v.Str); s != "" {
			return []string{s}, true
		}
	}
	return nil, false
}

func toInt(v float64, r Rounding) int {
	if r == Truncate {
		v = math.Trunc(v)
	} else {
		v = math.RoundToEven(v)
	}
	// Keep the conversion bounded before clamping.
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	if v < math.MinInt32 {
		return math.MinInt32
	}
	return int(v)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
