package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/echosyntax/echosyntax/pkg/api"
	"github.com/echosyntax/echosyntax/pkg/debug"
	"github.com/echosyntax/echosyntax/pkg/observability"
	"github.com/echosyntax/echosyntax/pkg/provider/openaicompat"
)

// ChatCompleter is the backend a Generator prompts.
// *openaicompat.Client satisfies it.
type ChatCompleter interface {
	Complete(ctx context.Context, req *openaicompat.ChatCompletionRequest) (*openaicompat.ChatCompletionResponse, error)
}

// DefaultTemperature keeps answers close to deterministic.
const DefaultTemperature = 0.1

// DefaultCandidates returns the built-in candidate order: the large model
// first, the small fast one as fallback.
func DefaultCandidates() []string {
	return []string{
		"llama-3.3-70b-versatile",
		"llama-3.1-8b-instant",
	}
}

// Config holds Generator settings.
type Config struct {
	// Candidates are model identifiers in priority order. Required.
	Candidates []string

	// Temperature is sent with every attempt. Zero means DefaultTemperature.
	Temperature float64

	// RetryMalformed treats an answer that is not a JSON object like a
	// failed candidate. When false, a malformed answer ends the walk.
	RetryMalformed bool

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Generator prompts candidate models in order until one answers.
type Generator struct {
	client ChatCompleter
	cfg    Config
	logger *slog.Logger
}

// New creates a Generator. It returns an error if client is nil or no
// candidates are configured.
func New(client ChatCompleter, cfg Config) (*Generator, error) {
	if client == nil {
		return nil, errors.New("generation: client is required")
	}
	if len(cfg.Candidates) == 0 {
		return nil, errors.New("generation: at least one candidate model is required")
	}
	cfg.Candidates = append([]string(nil), cfg.Candidates...)
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{client: client, cfg: cfg, logger: logger}, nil
}

// Candidates returns a copy of the configured candidate order.
func (g *Generator) Candidates() []string {
	return append([]string(nil), g.cfg.Candidates...)
}

// Generate prompts the candidates in order and returns the first parsed
// answer. The error is an *api.Error of kind all_candidates_exhausted,
// malformed_upstream_payload, or upstream_unavailable (when ctx ended the
// walk early).
func (g *Generator) Generate(ctx context.Context, req *api.GenerationRequest) (*api.GenerationResult, error) {
	result, err := g.generate(ctx, req)
	if err != nil {
		observability.GenerationsTotal.WithLabelValues(string(api.KindOf(err))).Inc()
		return nil, err
	}
	observability.GenerationsTotal.WithLabelValues("ok").Inc()
	return result, nil
}

func (g *Generator) generate(ctx context.Context, req *api.GenerationRequest) (*api.GenerationResult, error) {
	messages := buildMessages(req.UserPrompt)
	temperature := g.cfg.Temperature

	walk := NewWalk(g.cfg.Candidates)
	walk.Start()

	for !walk.Done() {
		if err := ctx.Err(); err != nil {
			return nil, api.NewUpstreamError("generation cancelled", errors.Join(err, walk.Err()))
		}

		model := walk.Current()
		g.logger.InfoContext(ctx, "fetching code from model",
			"model", model,
			"attempt", walk.Attempts(),
			"candidates", len(g.cfg.Candidates),
		)

		start := time.Now()
		resp, err := g.client.Complete(ctx, &openaicompat.ChatCompletionRequest{
			Model:          model,
			Messages:       messages,
			Temperature:    &temperature,
			N:              1,
			ResponseFormat: &openaicompat.ResponseFormat{Type: openaicompat.ResponseFormatJSONObject},
		})
		observability.GenerationLatency.WithLabelValues(model).Observe(time.Since(start).Seconds())

		if err != nil {
			observability.GenerationAttemptsTotal.WithLabelValues(model, "error").Inc()
			g.logger.WarnContext(ctx, "candidate model failed", "model", model, "error", err)
			walk.Fail(fmt.Errorf("model %s: %w", model, err))
			continue
		}

		content := resp.FirstContent()
		debug.Log("generation", "candidate answered", "model", model, "content", debug.Truncate(content, 200))

		result, err := ParseResult(content)
		if err != nil {
			observability.GenerationAttemptsTotal.WithLabelValues(model, "malformed").Inc()
			g.logger.WarnContext(ctx, "candidate returned malformed JSON", "model", model, "error", err)
			if !g.cfg.RetryMalformed {
				return nil, err
			}
			walk.Fail(fmt.Errorf("model %s: %w", model, err))
			continue
		}

		observability.GenerationAttemptsTotal.WithLabelValues(model, "ok").Inc()
		walk.Succeed()
		g.logger.InfoContext(ctx, "code generated",
			"model", model,
			"attempts", walk.Attempts(),
			"language", result.Field(api.FieldLanguage),
		)
		return result, nil
	}

	return nil, api.NewExhaustedError(
		fmt.Sprintf("all %d candidate models failed", len(g.cfg.Candidates)),
		walk.Err(),
	)
}

// ParseResult parses a model's content text. The text must be a single
// JSON object; it is relayed as-is, whatever its fields hold.
func ParseResult(content string) (*api.GenerationResult, error) {
	result, err := api.ParseGenerationResult([]byte(content))
	if err != nil {
		return nil, api.NewMalformedPayloadError("model answer is not a JSON object", err)
	}
	return result, nil
}
