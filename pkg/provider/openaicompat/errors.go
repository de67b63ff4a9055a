package openaicompat

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/echosyntax/echosyntax/pkg/api"
)

// MapHTTPError converts a non-2xx response into an upstream_unavailable
// error. The backend's own message is preferred; otherwise the status
// picks a fixed description.
func MapHTTPError(resp *http.Response) *api.Error {
	message := ExtractErrorMessage(resp.Body)
	if message == "" {
		message = statusMessage(resp.StatusCode)
	}
	return api.NewUpstreamError(message, &StatusError{StatusCode: resp.StatusCode})
}

func statusMessage(status int) string {
	switch {
	case status == http.StatusBadRequest:
		return "invalid request to backend"
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return "backend authentication failed"
	case status == http.StatusNotFound:
		return "backend model or resource not found"
	case status == http.StatusRequestEntityTooLarge:
		return "prompt too large for backend model"
	case status == http.StatusTooManyRequests:
		return "backend rate limit exceeded"
	case status >= http.StatusInternalServerError:
		return fmt.Sprintf("backend server error (HTTP %d)", status)
	default:
		return fmt.Sprintf("unexpected backend error (HTTP %d)", status)
	}
}

// StatusError records the HTTP status of a failed backend call.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// MapNetworkError converts a network-level error (connection refused, timeout,
// DNS resolution failure) into an upstream_unavailable error.
func MapNetworkError(err error) *api.Error {
	return api.NewUpstreamError("backend connection error", err)
}

// ExtractErrorMessage tries to parse the response body as a ChatErrorResponse
// and returns the error message if found.
func ExtractErrorMessage(body io.Reader) string {
	if body == nil {
		return ""
	}

	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}

	var errResp ChatErrorResponse
	if err := json.Unmarshal(data, &errResp); err == nil && errResp.Error.Message != "" {
		return errResp.Error.Message
	}

	return ""
}
