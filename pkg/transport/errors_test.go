package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/echosyntax/echosyntax/pkg/api"
)

func TestHTTPStatusFromKind(t *testing.T) {
	tests := []struct {
		kind       api.ErrorKind
		wantStatus int
	}{
		{api.KindInvalidRequest, http.StatusBadRequest},
		{api.KindUnrecognizedLanguageTag, http.StatusBadRequest},
		{api.KindUpstreamUnavailable, http.StatusInternalServerError},
		{api.KindAllCandidatesExhausted, http.StatusInternalServerError},
		{api.KindMalformedUpstreamPayload, http.StatusInternalServerError},
		{api.KindServerError, http.StatusInternalServerError},
		{api.ErrorKind("unknown"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := HTTPStatusFromKind(tt.kind); got != tt.wantStatus {
				t.Errorf("HTTPStatusFromKind(%q) = %d, want %d", tt.kind, got, tt.wantStatus)
			}
		})
	}
}

func TestWriteError_ClientError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, api.NewInvalidRequestError("userPrompt", "userPrompt is required"))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status code = %d, want 400", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var body api.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "userPrompt is required" {
		t.Errorf("error = %q", body.Error)
	}
}

func TestWriteError_HidesUpstreamDetail(t *testing.T) {
	err := api.NewExhaustedError("all 2 candidate models failed",
		errors.New("model a: backend authentication failed: Invalid API Key gsk_123"))

	rec := httptest.NewRecorder()
	WriteError(rec, err)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status code = %d, want 500", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body) != 1 {
		t.Errorf("body must carry only the error field, got %v", body)
	}
	if body["error"] != "code generation failed: no model is available" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestPublicMessage_PlainError(t *testing.T) {
	if got := PublicMessage(errors.New("secret")); got != "internal server error" {
		t.Errorf("PublicMessage() = %q", got)
	}
}
