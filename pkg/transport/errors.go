package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/echosyntax/echosyntax/pkg/api"
)

// HTTPStatusFromKind maps an error kind to the HTTP status code.
// Transport-level errors (body too large, unsupported content type) are
// handled separately by the HTTP adapter.
func HTTPStatusFromKind(kind api.ErrorKind) int {
	switch kind {
	case api.KindInvalidRequest, api.KindUnrecognizedLanguageTag:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message sent to the client for err. Client
// errors keep their own message; server-side failures get a fixed text
// per kind so upstream details stay in the logs.
func PublicMessage(err error) string {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		return "internal server error"
	}
	switch apiErr.Kind {
	case api.KindInvalidRequest, api.KindUnrecognizedLanguageTag:
		return apiErr.Message
	case api.KindAllCandidatesExhausted:
		return "code generation failed: no model is available"
	case api.KindUpstreamUnavailable:
		return "upstream service unavailable"
	case api.KindMalformedUpstreamPayload:
		return "upstream service returned an invalid response"
	default:
		return "internal server error"
	}
}

// WriteJSON writes v as a JSON body with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteErrorResponse writes a JSON error body with the given status code.
func WriteErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	WriteJSON(w, statusCode, api.ErrorResponse{Error: message})
}

// WriteError writes err as a JSON error response, deriving the status
// code from its kind.
func WriteError(w http.ResponseWriter, err error) {
	WriteErrorResponse(w, PublicMessage(err), HTTPStatusFromKind(api.KindOf(err)))
}
