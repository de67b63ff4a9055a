package main

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/echosyntax/echosyntax/pkg/api"
	"github.com/echosyntax/echosyntax/pkg/execution"
	"github.com/echosyntax/echosyntax/pkg/execution/judge0"
	"github.com/echosyntax/echosyntax/pkg/generation"
	"github.com/echosyntax/echosyntax/pkg/provider/openaicompat"
)

func newMockServer(t *testing.T, m *mock) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(m.routes())
	t.Cleanup(srv.Close)
	return srv
}

func TestMockGenerationFallback(t *testing.T) {
	srv := newMockServer(t, &mock{
		failing: modelSet("big"),
		prose:   modelSet(""),
	})

	gen, err := generation.New(openaicompat.NewClient(srv.URL, "", 5*time.Second), generation.Config{
		Candidates: []string{"big", "small"},
	})
	if err != nil {
		t.Fatalf("generation.New() error: %v", err)
	}

	result, err := gen.Generate(context.Background(), &api.GenerationRequest{UserPrompt: "say hello"})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if result.Field(api.FieldLanguage) != "Python" || result.Field(api.FieldOutput) != "say hello" {
		t.Errorf("result = %+v", result)
	}
}

func TestMockProseIsMalformed(t *testing.T) {
	srv := newMockServer(t, &mock{failing: modelSet(""), prose: modelSet("big")})

	gen, err := generation.New(openaicompat.NewClient(srv.URL, "", 5*time.Second), generation.Config{
		Candidates: []string{"big", "small"},
	})
	if err != nil {
		t.Fatalf("generation.New() error: %v", err)
	}

	_, err = gen.Generate(context.Background(), &api.GenerationRequest{UserPrompt: "x"})
	if !errors.Is(err, api.ErrMalformedUpstreamPayload) {
		t.Fatalf("expected malformed_upstream_payload, got %v", err)
	}
}

func TestMockExecution(t *testing.T) {
	srv := newMockServer(t, &mock{failing: modelSet(""), prose: modelSet("")})

	exec, err := execution.New(judge0.NewClient(srv.URL, "", 5*time.Second), execution.Config{})
	if err != nil {
		t.Fatalf("execution.New() error: %v", err)
	}

	tests := []struct {
		name       string
		req        api.ExecutionRequest
		wantOutput string
		wantError  bool
	}{
		{"success", api.ExecutionRequest{Compiler: "java", Code: "class Main {}"}, "ran 13 bytes on language 62\n", false},
		{"compile error", api.ExecutionRequest{Compiler: "c", Code: "compile_error"}, "main.c:1: error: expected ';'", true},
		{"runtime error", api.ExecutionRequest{Compiler: "python", Code: "raise RuntimeError"}, "Traceback", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := exec.Execute(context.Background(), &tt.req)
			if err != nil {
				t.Fatalf("Execute() error: %v", err)
			}
			if result.Succeeded() == tt.wantError {
				t.Errorf("Status = %q, wantError %v", result.Status, tt.wantError)
			}
			got := result.ProgramMessage + result.CompilerError
			if !strings.HasPrefix(got, tt.wantOutput) {
				t.Errorf("message = %q, want prefix %q", got, tt.wantOutput)
			}
		})
	}
}

func TestGenerationAnswerIsValidJSON(t *testing.T) {
	answer := generationAnswer("Rules...\nUser Request: \"print \\\"hi\\\"\"\nRespond in JSON.")
	if _, err := generation.ParseResult(answer); err != nil {
		t.Fatalf("ParseResult() error: %v", err)
	}
}
