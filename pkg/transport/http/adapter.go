package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"

	"github.com/echosyntax/echosyntax/pkg/api"
	"github.com/echosyntax/echosyntax/pkg/transport"
)

// Generator produces code for a spoken request.
// *generation.Generator satisfies it.
type Generator interface {
	Generate(ctx context.Context, req *api.GenerationRequest) (*api.GenerationResult, error)
}

// Executor runs submitted code.
// *execution.Executor satisfies it.
type Executor interface {
	Execute(ctx context.Context, req *api.ExecutionRequest) (*api.ExecutionResult, error)
}

// Adapter serves the echosyntax endpoints over HTTP.
type Adapter struct {
	generator Generator
	executor  Executor
	mux       *http.ServeMux
	config    Config
	logger    *slog.Logger
}

// Config holds configuration for the HTTP adapter.
type Config struct {
	MaxBodySize int64
	Validation  api.ValidationConfig
	Logger      *slog.Logger
}

// DefaultConfig returns the default adapter configuration.
func DefaultConfig() Config {
	return Config{
		MaxBodySize: 2 << 20, // 2 MB
		Validation:  api.DefaultValidationConfig(),
	}
}

// NewAdapter creates an HTTP adapter routing POST /generate-code to gen,
// POST /execute-code to exec, and GET /healthz to a liveness probe.
func NewAdapter(gen Generator, exec Executor, cfg Config) *Adapter {
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = DefaultConfig().MaxBodySize
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	a := &Adapter{
		generator: gen,
		executor:  exec,
		mux:       http.NewServeMux(),
		config:    cfg,
		logger:    logger,
	}

	a.mux.HandleFunc("POST /generate-code", a.handleGenerateCode)
	a.mux.HandleFunc("POST /execute-code", a.handleExecuteCode)
	a.mux.HandleFunc("GET /healthz", handleHealthz)

	return a
}

// Handle registers an additional route, such as /metrics or /mcp.
func (a *Adapter) Handle(pattern string, h http.Handler) {
	a.mux.Handle(pattern, h)
}

// Handler returns the http.Handler for this adapter. Use this to integrate
// with an http.Server or test with httptest.
func (a *Adapter) Handler() http.Handler {
	return a.mux
}

// handleGenerateCode handles POST /generate-code.
func (a *Adapter) handleGenerateCode(w http.ResponseWriter, r *http.Request) {
	var req api.GenerationRequest
	if !a.decode(w, r, &req) {
		return
	}
	if verr := api.ValidateGenerationRequest(&req, a.config.Validation); verr != nil {
		transport.WriteError(w, verr)
		return
	}

	result, err := a.generator.Generate(r.Context(), &req)
	if err != nil {
		a.writeHandlerError(w, r, "generate", err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, result)
}

// handleExecuteCode handles POST /execute-code.
func (a *Adapter) handleExecuteCode(w http.ResponseWriter, r *http.Request) {
	var req api.ExecutionRequest
	if !a.decode(w, r, &req) {
		return
	}
	if verr := api.ValidateExecutionRequest(&req, a.config.Validation); verr != nil {
		transport.WriteError(w, verr)
		return
	}

	result, err := a.executor.Execute(r.Context(), &req)
	if err != nil {
		a.writeHandlerError(w, r, "execute", err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, result)
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// decode reads a JSON request body into v. On failure it writes the
// error response and returns false.
func (a *Adapter) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || mediaType != "application/json" {
			transport.WriteErrorResponse(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
			return false
		}
	}

	r.Body = http.MaxBytesReader(w, r.Body, a.config.MaxBodySize)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			transport.WriteErrorResponse(w,
				fmt.Sprintf("request body too large (max %d bytes)", a.config.MaxBodySize),
				http.StatusRequestEntityTooLarge,
			)
			return false
		}
		transport.WriteError(w, api.NewInvalidRequestError("body", "invalid JSON: "+err.Error()))
		return false
	}
	return true
}

// writeHandlerError logs the full error chain and writes the public
// error response.
func (a *Adapter) writeHandlerError(w http.ResponseWriter, r *http.Request, op string, err error) {
	kind := api.KindOf(err)
	status := transport.HTTPStatusFromKind(kind)

	attrs := []any{
		"request_id", transport.RequestIDFromContext(r.Context()),
		"op", op,
		"kind", string(kind),
		"error", err,
	}
	if status >= http.StatusInternalServerError {
		a.logger.ErrorContext(r.Context(), "request failed", attrs...)
	} else {
		a.logger.WarnContext(r.Context(), "request rejected", attrs...)
	}

	transport.WriteError(w, err)
}
