package httputil

import (
	"errors"
	"log/slog"
	"net/http"

	"interview-coach/internal/provider"
)

const (
	authFailedMessage = "NVIDIA authentication failed. Verify NVIDIA_API_KEY and regenerate if needed."
	unexpectedError   = "Unexpected backend error."
)

// AIError maps a provider failure onto an HTTP response.
//
//	missing credential   400 with its instructions
//	authentication (401) 401 with remediation text
//	other provider error the provider's status
//	unreachable          503
//	anything else        500
func AIError(log *slog.Logger, w http.ResponseWriter, err error) {
	var (
		httpErr     *provider.HTTPError
		unreachable *provider.UnreachableError
	)
	switch {
	case errors.Is(err, provider.ErrCredentialMissing):
		Fail(log, w, err.Error(), err, http.StatusBadRequest)
	case provider.IsAuthFailure(err):
		Fail(log, w, authFailedMessage, err, http.StatusUnauthorized)
	case errors.As(err, &httpErr):
		status := httpErr.Status
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		Fail(log, w, "NVIDIA API error: "+httpErr.Message, err, status)
	case errors.As(err, &unreachable):
		Fail(log, w, "NVIDIA API error: "+unreachable.Error(), err, http.StatusServiceUnavailable)
	default:
		Fail(log, w, unexpectedError, err, http.StatusInternalServerError)
	}
}
