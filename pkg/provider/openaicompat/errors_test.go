package openaicompat

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/echosyntax/echosyntax/pkg/api"
)

func makeResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}

func TestMapHTTPError(t *testing.T) {
	tests := []struct {
		status  int
		body    string
		wantMsg string
	}{
		{400, `{"error":{"message":"bad model param","type":"invalid_request_error"}}`, "bad model param"},
		{400, "", "invalid request to backend"},
		{401, "", "backend authentication failed"},
		{403, "", "backend authentication failed"},
		{404, "", "backend model or resource not found"},
		{413, "", "prompt too large for backend model"},
		{429, "", "backend rate limit exceeded"},
		{503, "", "backend server error (HTTP 503)"},
		{418, "", "unexpected backend error (HTTP 418)"},
		{502, "<html>bad gateway</html>", "backend server error (HTTP 502)"},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			apiErr := MapHTTPError(makeResponse(tt.status, tt.body))

			if apiErr.Kind != api.KindUpstreamUnavailable {
				t.Errorf("expected kind %q, got %q", api.KindUpstreamUnavailable, apiErr.Kind)
			}
			if apiErr.Message != tt.wantMsg {
				t.Errorf("expected message %q, got %q", tt.wantMsg, apiErr.Message)
			}

			var statusErr *StatusError
			if !errors.As(apiErr, &statusErr) || statusErr.StatusCode != tt.status {
				t.Errorf("expected StatusError with code %d in chain", tt.status)
			}
		})
	}
}

func TestMapNetworkError(t *testing.T) {
	cause := errors.New("dial tcp 127.0.0.1:1: connect: connection refused")
	apiErr := MapNetworkError(cause)

	if apiErr.Kind != api.KindUpstreamUnavailable {
		t.Errorf("expected kind %q, got %q", api.KindUpstreamUnavailable, apiErr.Kind)
	}
	if !errors.Is(apiErr, cause) {
		t.Error("expected cause to be wrapped")
	}
}

func TestExtractErrorMessage_NilBody(t *testing.T) {
	if got := ExtractErrorMessage(nil); got != "" {
		t.Errorf("expected empty message, got %q", got)
	}
}
