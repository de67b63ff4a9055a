package execution

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/echosyntax/echosyntax/pkg/api"
	"github.com/echosyntax/echosyntax/pkg/execution/judge0"
	"github.com/echosyntax/echosyntax/pkg/observability"
)

// Submitter runs one submission to completion.
// *judge0.Client satisfies it.
type Submitter interface {
	Submit(ctx context.Context, req *judge0.SubmissionRequest) (*judge0.Submission, error)
}

// Unknown-tag policies.
const (
	// UnknownAsPython runs code with an unrecognized tag as Python.
	UnknownAsPython = "python"

	// UnknownReject fails the request with unrecognized_language_tag.
	UnknownReject = "reject"
)

// Config holds Executor settings.
type Config struct {
	// UnknownLanguage is UnknownAsPython (default) or UnknownReject.
	UnknownLanguage string

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Executor submits code to the execution service.
type Executor struct {
	submitter Submitter
	cfg       Config
	logger    *slog.Logger
}

// New creates an Executor.
func New(submitter Submitter, cfg Config) (*Executor, error) {
	if submitter == nil {
		return nil, errors.New("execution: submitter is required")
	}
	switch cfg.UnknownLanguage {
	case "":
		cfg.UnknownLanguage = UnknownAsPython
	case UnknownAsPython, UnknownReject:
	default:
		return nil, fmt.Errorf("execution: unknown language policy %q", cfg.UnknownLanguage)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{submitter: submitter, cfg: cfg, logger: logger}, nil
}

// Resolve maps a compiler tag to a runtime, applying the unknown-tag
// policy.
func (e *Executor) Resolve(ctx context.Context, tag string) (Runtime, error) {
	rt, err := LookupRuntime(tag)
	if err == nil {
		return rt, nil
	}
	if e.cfg.UnknownLanguage == UnknownReject {
		return Runtime{}, err
	}
	e.logger.WarnContext(ctx, "unrecognized compiler tag, running as python", "compiler", tag)
	return runtimes[LanguagePython], nil
}

// Execute runs req.Code and returns the normalized outcome. A program
// that fails to compile or writes to stderr is a successful call with
// status "1"; the error return is reserved for requests that never
// produced a verdict.
func (e *Executor) Execute(ctx context.Context, req *api.ExecutionRequest) (*api.ExecutionResult, error) {
	rt, err := e.Resolve(ctx, req.Compiler)
	if err != nil {
		observability.ExecutionsTotal.WithLabelValues("unknown", string(api.KindOf(err))).Inc()
		return nil, err
	}

	start := time.Now()
	sub, err := e.submitter.Submit(ctx, &judge0.SubmissionRequest{
		SourceCode: req.Code,
		LanguageID: rt.ID,
	})
	observability.ExecutionLatency.WithLabelValues(rt.Language).Observe(time.Since(start).Seconds())

	if err != nil {
		observability.ExecutionsTotal.WithLabelValues(rt.Language, string(api.KindOf(err))).Inc()
		e.logger.WarnContext(ctx, "execution service call failed", "language", rt.Language, "error", err)
		return nil, err
	}

	result := Normalize(sub)
	outcome := "ok"
	if !result.Succeeded() {
		outcome = "program_error"
	}
	observability.ExecutionsTotal.WithLabelValues(rt.Language, outcome).Inc()
	e.logger.InfoContext(ctx, "code executed", "language", rt.Language, "status", string(result.Status))

	return result, nil
}

// Normalize folds a finished submission into an ExecutionResult.
// compile_output wins over stderr; with neither, stdout is the message.
func Normalize(sub *judge0.Submission) *api.ExecutionResult {
	switch {
	case sub.CompileOutput != "":
		return api.NewExecutionFailure(sub.CompileOutput)
	case sub.Stderr != "":
		return api.NewExecutionFailure(sub.Stderr)
	default:
		return api.NewExecutionSuccess(sub.Stdout)
	}
}
