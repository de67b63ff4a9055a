// Package mcpserver exposes code generation and execution as MCP tools,
// so agent clients can drive the same proxies the web client uses.
package mcpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/echosyntax/echosyntax/pkg/api"
	"github.com/echosyntax/echosyntax/pkg/debug"
	"github.com/echosyntax/echosyntax/pkg/transport"
)

// Tool names.
const (
	ToolGenerateCode = "generate_code"
	ToolExecuteCode  = "execute_code"
)

// Generator produces code for a request.
type Generator interface {
	Generate(ctx context.Context, req *api.GenerationRequest) (*api.GenerationResult, error)
}

// Executor runs code.
type Executor interface {
	Execute(ctx context.Context, req *api.ExecutionRequest) (*api.ExecutionResult, error)
}

// GenerateInput is the argument of generate_code.
type GenerateInput struct {
	UserPrompt string `json:"user_prompt" jsonschema:"what the program should do, in plain language"`
}

// ExecuteInput is the argument of execute_code.
type ExecuteInput struct {
	Compiler string `json:"compiler" jsonschema:"language tag: python, node, java, c++ or c"`
	Code     string `json:"code" jsonschema:"complete source code to run"`
}

// New builds an MCP server with both tools. version is reported to
// clients in the initialize handshake.
func New(gen Generator, exec Executor, version string, validation api.ValidationConfig) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "echosyntax", Version: version}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolGenerateCode,
		Description: "Generate a short program from a natural-language request. Returns JSON with language, code, explanation and expected output.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in GenerateInput) (*mcp.CallToolResult, any, error) {
		req := &api.GenerationRequest{UserPrompt: in.UserPrompt}
		if verr := api.ValidateGenerationRequest(req, validation); verr != nil {
			return errorResult(verr), nil, nil
		}
		debug.Log("mcp", "generate_code called", "prompt_len", len(in.UserPrompt))

		result, err := gen.Generate(ctx, req)
		if err != nil {
			slog.WarnContext(ctx, "mcp generate_code failed", "kind", string(api.KindOf(err)), "error", err)
			return errorResult(err), nil, nil
		}
		return jsonResult(result), nil, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolExecuteCode,
		Description: "Run source code on a remote sandbox. Returns JSON with status \"0\" and program_message, or status \"1\" and compiler_error.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in ExecuteInput) (*mcp.CallToolResult, any, error) {
		req := &api.ExecutionRequest{Compiler: in.Compiler, Code: in.Code}
		if verr := api.ValidateExecutionRequest(req, validation); verr != nil {
			return errorResult(verr), nil, nil
		}
		debug.Log("mcp", "execute_code called", "compiler", in.Compiler)

		result, err := exec.Execute(ctx, req)
		if err != nil {
			slog.WarnContext(ctx, "mcp execute_code failed", "kind", string(api.KindOf(err)), "error", err)
			return errorResult(err), nil, nil
		}
		return jsonResult(result), nil, nil
	})

	return server
}

// Handler serves server over the streamable HTTP transport.
func Handler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)
}

func jsonResult(v any) *mcp.CallToolResult {
	data, err := json.Marshal(v)
	if err != nil {
		return errorResult(api.NewServerError("failed to encode tool result"))
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}
}

// errorResult reports a tool failure in-band, with the same public
// message an HTTP client would see.
func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: transport.PublicMessage(err)}},
	}
}
