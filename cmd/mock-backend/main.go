// Command mock-backend runs a deterministic stand-in for both upstreams:
// a Chat Completions server that answers with a fixed code-generation
// JSON object, and a Judge0-shaped submissions endpoint.
//
// Configuration:
//
//	MOCK_PORT         - Listen port (default: 9090)
//	MOCK_FAIL_MODELS  - Comma-separated models that answer 503
//	MOCK_PROSE_MODELS - Comma-separated models that answer with non-JSON text
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/echosyntax/echosyntax/pkg/api"
	"github.com/echosyntax/echosyntax/pkg/execution/judge0"
	"github.com/echosyntax/echosyntax/pkg/provider/openaicompat"
)

func main() {
	port := os.Getenv("MOCK_PORT")
	if port == "" {
		port = "9090"
	}

	m := &mock{
		failing: modelSet(os.Getenv("MOCK_FAIL_MODELS")),
		prose:   modelSet(os.Getenv("MOCK_PROSE_MODELS")),
	}

	srv := &http.Server{Addr: ":" + port, Handler: m.routes()}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("mock backend starting", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("mock backend failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("mock backend shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}

type mock struct {
	failing map[string]bool
	prose   map[string]bool
}

func (m *mock) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/chat/completions", m.handleChatCompletions)
	mux.HandleFunc("POST /submissions", m.handleSubmission)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})
	return mux
}

func modelSet(list string) map[string]bool {
	set := make(map[string]bool)
	for _, m := range strings.Split(list, ",") {
		if m = strings.TrimSpace(m); m != "" {
			set[m] = true
		}
	}
	return set
}

// --- Chat Completions ---

func (m *mock) handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	var req openaicompat.ChatCompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeChatError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if m.failing[req.Model] {
		slog.Info("mock: failing model", "model", req.Model)
		writeChatError(w, http.StatusServiceUnavailable, "model "+req.Model+" is over capacity")
		return
	}

	content := generationAnswer(lastUserMessage(req.Messages))
	if m.prose[req.Model] {
		content = "Sure! Here is the code you asked for."
	}

	writeJSON(w, http.StatusOK, openaicompat.ChatCompletionResponse{
		ID:     "chatcmpl-" + uuid.NewString(),
		Object: "chat.completion",
		Model:  req.Model,
		Choices: []openaicompat.ChatChoice{{
			Message:      openaicompat.ChatMessage{Role: openaicompat.RoleAssistant, Content: content},
			FinishReason: "stop",
		}},
		Usage: &openaicompat.ChatUsage{PromptTokens: 10, CompletionTokens: 20, TotalTokens: 30},
	})
}

func lastUserMessage(msgs []openaicompat.ChatMessage) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == openaicompat.RoleUser {
			return msgs[i].Content
		}
	}
	return ""
}

// generationAnswer returns a fixed Python answer, echoing a short slice
// of the prompt so callers can tell requests apart.
func generationAnswer(prompt string) string {
	request := prompt
	if i := strings.Index(prompt, `User Request: "`); i >= 0 {
		request = prompt[i+len(`User Request: "`):]
		if j := strings.Index(request, "\"\n"); j >= 0 {
			request = request[:j]
		}
	}
	if len(request) > 40 {
		request = request[:40]
	}

	result := api.NewGenerationResult("Python", fmt.Sprintf("print(%q)", request), "Prints the request text.", request)
	return string(result.Raw())
}

func writeChatError(w http.ResponseWriter, status int, msg string) {
	var resp openaicompat.ChatErrorResponse
	resp.Error.Message = msg
	resp.Error.Type = "mock_error"
	writeJSON(w, status, resp)
}

// --- Judge0 submissions ---

func (m *mock) handleSubmission(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("wait") != "true" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "only wait=true is supported"})
		return
	}

	var req judge0.SubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, runSubmission(&req))
}

// runSubmission fakes a run. Source containing "compile_error" or
// "raise" yields the matching Judge0 failure shape.
func runSubmission(req *judge0.SubmissionRequest) judge0.Submission {
	sub := judge0.Submission{
		Token:  uuid.NewString(),
		Time:   "0.01",
		Memory: 3200,
	}
	switch {
	case strings.Contains(req.SourceCode, "compile_error"):
		sub.CompileOutput = "main.c:1: error: expected ';'"
		sub.Status = &judge0.Status{ID: judge0.StatusCompilationError, Description: "Compilation Error"}
	case strings.Contains(req.SourceCode, "raise"):
		sub.Stderr = "Traceback (most recent call last):\nRuntimeError"
		sub.Status = &judge0.Status{ID: judge0.StatusRuntimeError, Description: "Runtime Error (NZEC)"}
	default:
		sub.Stdout = fmt.Sprintf("ran %d bytes on language %d\n", len(req.SourceCode), req.LanguageID)
		sub.Status = &judge0.Status{ID: judge0.StatusAccepted, Description: "Accepted"}
	}
	return sub
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
