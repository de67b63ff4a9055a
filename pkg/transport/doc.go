// Package transport holds the HTTP middleware chain and the JSON
// response helpers shared by the echosyntax endpoints.
//
// # Middleware
//
// Middleware wraps an http.Handler. Chain(a, b, c) produces a(b(c(h))),
// so the first middleware sees the request first. The server installs,
// from the outside in:
//
//   - RequestID: honors or assigns X-Request-ID and stores it in the
//     request context (RequestIDFromContext).
//   - Logging: one structured log/slog record per request.
//   - Recovery: converts a handler panic into a 500 JSON error.
//   - CORS: open cross-origin access for the browser client.
//
// # Errors
//
// WriteError derives the HTTP status from the api.ErrorKind of an error.
// Client mistakes (invalid_request, unrecognized_language_tag) are 400
// with the error's message; every upstream failure is a 500 whose body
// carries only a generic message, so a failed generation never looks
// like a partial answer.
package transport
