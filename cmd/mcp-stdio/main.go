// Command mcp-stdio serves the generate_code and execute_code tools over
// stdin/stdout, for MCP clients that launch their servers as
// subprocesses. It reads the same configuration as cmd/server; HTTP,
// auth and metrics settings are ignored.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/echosyntax/echosyntax/pkg/api"
	"github.com/echosyntax/echosyntax/pkg/config"
	"github.com/echosyntax/echosyntax/pkg/debug"
	"github.com/echosyntax/echosyntax/pkg/execution"
	"github.com/echosyntax/echosyntax/pkg/execution/judge0"
	"github.com/echosyntax/echosyntax/pkg/generation"
	"github.com/echosyntax/echosyntax/pkg/mcpserver"
	"github.com/echosyntax/echosyntax/pkg/provider/openaicompat"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("mcp-stdio failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	// stdout carries the protocol; debug.Init logs to stderr.
	debug.Init(cfg.Logging.Debug, cfg.Logging.Level, cfg.Logging.Format)

	chat := openaicompat.NewClient(cfg.Generation.BaseURL, cfg.Generation.APIKey, cfg.Generation.Timeout)
	defer chat.Close()
	gen, err := generation.New(chat, generation.Config{
		Candidates:     cfg.Generation.Models,
		Temperature:    cfg.Generation.Temperature,
		RetryMalformed: cfg.Generation.RetryMalformed,
	})
	if err != nil {
		return err
	}

	judge := judge0.NewClient(cfg.Execution.BaseURL, cfg.Execution.APIKey, cfg.Execution.Timeout)
	defer judge.Close()
	exec, err := execution.New(judge, execution.Config{UnknownLanguage: cfg.Execution.UnknownLanguage})
	if err != nil {
		return err
	}

	server := mcpserver.New(gen, exec, version, api.ValidationConfig{
		MaxPromptSize: cfg.Server.MaxPromptSize,
		MaxCodeSize:   cfg.Server.MaxCodeSize,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("mcp stdio server starting", "version", version)
	return server.Run(ctx, &mcp.StdioTransport{})
}
