package api

import (
	"errors"
	"fmt"
)

// ErrorKind represents the category of an error.
type ErrorKind string

const (
	KindInvalidRequest           ErrorKind = "invalid_request"
	KindServerError              ErrorKind = "server_error"
	KindUpstreamUnavailable      ErrorKind = "upstream_unavailable"
	KindAllCandidatesExhausted   ErrorKind = "all_candidates_exhausted"
	KindMalformedUpstreamPayload ErrorKind = "malformed_upstream_payload"
	KindUnrecognizedLanguageTag  ErrorKind = "unrecognized_language_tag"
)

// Sentinel values for errors.Is. A sentinel matches any *Error of the
// same kind, regardless of message or cause.
var (
	ErrInvalidRequest           = &Error{Kind: KindInvalidRequest}
	ErrUpstreamUnavailable      = &Error{Kind: KindUpstreamUnavailable}
	ErrAllCandidatesExhausted   = &Error{Kind: KindAllCandidatesExhausted}
	ErrMalformedUpstreamPayload = &Error{Kind: KindMalformedUpstreamPayload}
	ErrUnrecognizedLanguageTag  = &Error{Kind: KindUnrecognizedLanguageTag}
)

// Error is a kinded error. Param names the offending request field for
// invalid_request errors. Cause holds the underlying error, if any.
type Error struct {
	Kind    ErrorKind
	Param   string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Param != "" {
		msg = fmt.Sprintf("%s (param: %s)", msg, e.Param)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a sentinel of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Cause == nil && t.Kind == e.Kind
}

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindServerError when there is none.
func KindOf(err error) ErrorKind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindServerError
}

// NewInvalidRequestError creates an Error for invalid request parameters.
func NewInvalidRequestError(param, message string) *Error {
	return &Error{
		Kind:    KindInvalidRequest,
		Param:   param,
		Message: message,
	}
}

// NewServerError creates an Error for internal server errors.
func NewServerError(message string) *Error {
	return &Error{
		Kind:    KindServerError,
		Message: message,
	}
}

// NewUpstreamError creates an Error for a remote service that could not be
// reached or answered with a failure status.
func NewUpstreamError(message string, cause error) *Error {
	return &Error{
		Kind:    KindUpstreamUnavailable,
		Message: message,
		Cause:   cause,
	}
}

// NewExhaustedError creates an Error for a fallback walk in which every
// candidate failed. cause usually joins the per-candidate errors.
func NewExhaustedError(message string, cause error) *Error {
	return &Error{
		Kind:    KindAllCandidatesExhausted,
		Message: message,
		Cause:   cause,
	}
}

// NewMalformedPayloadError creates an Error for an upstream body that is
// not the JSON it should be.
func NewMalformedPayloadError(message string, cause error) *Error {
	return &Error{
		Kind:    KindMalformedUpstreamPayload,
		Message: message,
		Cause:   cause,
	}
}

// NewUnrecognizedLanguageError creates an Error for a compiler tag with no
// runtime mapping.
func NewUnrecognizedLanguageError(tag string) *Error {
	return &Error{
		Kind:    KindUnrecognizedLanguageTag,
		Param:   "compiler",
		Message: fmt.Sprintf("unrecognized compiler tag %q", tag),
	}
}
