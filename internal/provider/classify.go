package provider

import (
	"errors"
	"slices"
	"strings"
)

// Class is a fallback-relevant classification of an HTTPError.
type Class string

const (
	ClassAuthFailed       Class = "authentication_failed"
	ClassModelUnavailable Class = "model_unavailable"
	ClassRouteNotFound    Class = "route_not_found"
)

// Rule matches when the status is listed (or Statuses is empty) and the lowercased
// message contains one of the markers (or Markers is empty).
type Rule struct {
	Class    Class
	Statuses []int
	Markers  []string
}

// ModelUnavailableMarkers are the message fragments that mark a speech model as unusable for the key.
var ModelUnavailableMarkers = []string{
	"not found",
	"model not found",
	"does not exist",
	"unavailable",
	"not available",
	"no access",
	"access denied",
	"not enabled",
}

// Rules is the full classification table. A class matches when any of its rules does.
var Rules = []Rule{
	{Class: ClassAuthFailed, Statuses: []int{401}},
	{Class: ClassModelUnavailable, Statuses: []int{400, 403, 404}, Markers: ModelUnavailableMarkers},
	{Class: ClassRouteNotFound, Statuses: []int{404}},
	{Class: ClassRouteNotFound, Markers: []string{"not found"}},
}

func (r Rule) matches(e *HTTPError) bool {
	if len(r.Statuses) > 0 && !slices.Contains(r.Statuses, e.Status) {
		return false
	}
	if len(r.Markers) == 0 {
		return true
	}
	msg := strings.ToLower(e.Message)
	for _, m := range r.Markers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// Is reports whether err is an HTTPError in class c.
func Is(err error, c Class) bool {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		return false
	}
	for _, r := range Rules {
		if r.Class == c && r.matches(httpErr) {
			return true
		}
	}
	return false
}

func IsAuthFailure(err error) bool { return Is(err, ClassAuthFailed) }

func IsModelUnavailable(err error) bool { return Is(err, ClassModelUnavailable) }

func IsRouteNotFound(err error) bool { return Is(err, ClassRouteNotFound) }
