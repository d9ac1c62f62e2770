// Package provider holds the error taxonomy shared by every client of the remote AI
// provider, and the table that decides which failures are eligible for a fallback.
package provider

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrCredentialMissing matches any *MissingCredentialError.
var ErrCredentialMissing = errors.New("credential missing")

// MissingCredentialError carries the instructions shown to the caller.
type MissingCredentialError struct {
	Instructions string
}

func (e *MissingCredentialError) Error() string {
	return e.Instructions
}

func (e *MissingCredentialError) Is(target error) bool {
	return target == ErrCredentialMissing
}

// HTTPError is a non-2xx response from the provider.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("provider http %d: %s", e.Status, e.Message)
}

// UnreachableError is a transport failure or timeout.
type UnreachableError struct {
	Reason string
}

func (e *UnreachableError) Error() string {
	return "network error while contacting NVIDIA API: " + e.Reason
}

// FromResponse builds an HTTPError from an error response body. The message comes from
// the body's detail or message field, falling back to the reason phrase.
func FromResponse(status int, body []byte, reason string) *HTTPError {
	return &HTTPError{Status: status, Message: errorMessage(status, body, reason)}
}

func errorMessage(status int, body []byte, reason string) string {
	raw := strings.TrimSpace(string(body))
	if raw != "" && gjson.Valid(raw) {
		for _, path := range []string{"detail", "message", "error.message", "error"} {
			if v := gjson.Get(raw, path); v.Exists() && strings.TrimSpace(v.String()) != "" {
				return strings.TrimSpace(v.String())
			}
		}
		return raw
	}
	if reason = strings.TrimSpace(reason); reason != "" {
		return reason
	}
	return http.StatusText(status)
}

// FromTransport wraps a transport-level failure.
func FromTransport(err error) *UnreachableError {
	return &UnreachableError{Reason: err.Error()}
}
