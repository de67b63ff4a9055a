package execution

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/echosyntax/echosyntax/pkg/api"
	"github.com/echosyntax/echosyntax/pkg/execution/judge0"
	"github.com/echosyntax/echosyntax/pkg/observability"
)

type fakeSubmitter struct {
	sub  *judge0.Submission
	err  error
	reqs []*judge0.SubmissionRequest
}

func (f *fakeSubmitter) Submit(_ context.Context, req *judge0.SubmissionRequest) (*judge0.Submission, error) {
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.sub, nil
}

func newTestExecutor(t *testing.T, s Submitter, policy string) *Executor {
	t.Helper()
	e, err := New(s, Config{UnknownLanguage: policy})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return e
}

func TestExecute_SubmitsRuntimeID(t *testing.T) {
	ids := map[string]int{"python": 71, "node": 63, "java": 62, "c++": 54, "c": 50}
	for tag, wantID := range ids {
		t.Run(tag, func(t *testing.T) {
			sub := &fakeSubmitter{sub: &judge0.Submission{Stdout: "ok"}}
			e := newTestExecutor(t, sub, "")

			if _, err := e.Execute(context.Background(), &api.ExecutionRequest{Compiler: tag, Code: "x"}); err != nil {
				t.Fatalf("Execute() error: %v", err)
			}
			if len(sub.reqs) != 1 {
				t.Fatalf("expected one submission, got %d", len(sub.reqs))
			}
			if sub.reqs[0].LanguageID != wantID {
				t.Errorf("language_id = %d, want %d", sub.reqs[0].LanguageID, wantID)
			}
			if sub.reqs[0].SourceCode != "x" {
				t.Errorf("source_code = %q", sub.reqs[0].SourceCode)
			}
		})
	}
}

func TestExecute_UnknownTagRunsAsPython(t *testing.T) {
	sub := &fakeSubmitter{sub: &judge0.Submission{Stdout: "hi\n"}}
	e := newTestExecutor(t, sub, UnknownAsPython)

	result, err := e.Execute(context.Background(), &api.ExecutionRequest{Compiler: "brainfuck", Code: "print('hi')"})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if sub.reqs[0].LanguageID != 71 {
		t.Errorf("language_id = %d, want python (71)", sub.reqs[0].LanguageID)
	}
	if result.ProgramMessage != "hi\n" {
		t.Errorf("ProgramMessage = %q", result.ProgramMessage)
	}
}

func TestExecute_UnknownTagRejected(t *testing.T) {
	sub := &fakeSubmitter{sub: &judge0.Submission{}}
	e := newTestExecutor(t, sub, UnknownReject)

	_, err := e.Execute(context.Background(), &api.ExecutionRequest{Compiler: "brainfuck", Code: "+"})
	if !errors.Is(err, api.ErrUnrecognizedLanguageTag) {
		t.Fatalf("expected unrecognized_language_tag, got %v", err)
	}
	if len(sub.reqs) != 0 {
		t.Errorf("rejected tag must not reach the execution service")
	}
}

func TestExecute_Normalization(t *testing.T) {
	tests := []struct {
		name string
		sub  judge0.Submission
		want api.ExecutionResult
	}{
		{
			name: "stdout",
			sub:  judge0.Submission{Stdout: "42\n"},
			want: api.ExecutionResult{Status: "0", ProgramMessage: "42\n"},
		},
		{
			name: "empty stdout",
			sub:  judge0.Submission{},
			want: api.ExecutionResult{Status: "0", ProgramMessage: "Program executed successfully (No output)"},
		},
		{
			name: "stderr",
			sub:  judge0.Submission{Stdout: "partial", Stderr: "Traceback: boom"},
			want: api.ExecutionResult{Status: "1", CompilerError: "Traceback: boom"},
		},
		{
			name: "compile output",
			sub:  judge0.Submission{CompileOutput: "main.c:1: error"},
			want: api.ExecutionResult{Status: "1", CompilerError: "main.c:1: error"},
		},
		{
			name: "compile output wins over stderr",
			sub:  judge0.Submission{CompileOutput: "javac: error", Stderr: "warning"},
			want: api.ExecutionResult{Status: "1", CompilerError: "javac: error"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := tt.sub
			e := newTestExecutor(t, &fakeSubmitter{sub: &sub}, "")

			result, err := e.Execute(context.Background(), &api.ExecutionRequest{Compiler: "python", Code: "x"})
			if err != nil {
				t.Fatalf("Execute() error: %v", err)
			}
			if *result != tt.want {
				t.Errorf("result = %+v, want %+v", *result, tt.want)
			}
		})
	}
}

func TestExecute_EmptyCodeSubmitted(t *testing.T) {
	sub := &fakeSubmitter{sub: &judge0.Submission{}}
	e := newTestExecutor(t, sub, "")

	result, err := e.Execute(context.Background(), &api.ExecutionRequest{Compiler: "python", Code: ""})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(sub.reqs) != 1 || sub.reqs[0].SourceCode != "" || sub.reqs[0].LanguageID != 71 {
		t.Fatalf("submissions = %+v", sub.reqs)
	}
	if *result != *api.NewExecutionSuccess("") {
		t.Errorf("result = %+v, want the no-output placeholder", result)
	}
}

func TestExecute_UpstreamFailure(t *testing.T) {
	upstream := api.NewUpstreamError("execution service connection error", errors.New("refused"))
	e := newTestExecutor(t, &fakeSubmitter{err: upstream}, "")

	before := testutil.ToFloat64(observability.ExecutionsTotal.WithLabelValues("java", "upstream_unavailable"))

	result, err := e.Execute(context.Background(), &api.ExecutionRequest{Compiler: "java", Code: "class A{}"})
	if result != nil {
		t.Errorf("expected nil result, got %+v", result)
	}
	if !errors.Is(err, api.ErrUpstreamUnavailable) {
		t.Fatalf("expected upstream_unavailable, got %v", err)
	}

	after := testutil.ToFloat64(observability.ExecutionsTotal.WithLabelValues("java", "upstream_unavailable"))
	if after-before != 1 {
		t.Errorf("executions counter delta = %f, want 1", after-before)
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(nil, Config{}); err == nil {
		t.Error("expected error for nil submitter")
	}
	if _, err := New(&fakeSubmitter{}, Config{UnknownLanguage: "guess"}); err == nil {
		t.Error("expected error for unknown policy")
	}
	e, err := New(&fakeSubmitter{}, Config{})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if e.cfg.UnknownLanguage != UnknownAsPython {
		t.Errorf("default policy = %q, want python", e.cfg.UnknownLanguage)
	}
}
