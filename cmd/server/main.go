// Command server runs the echosyntax code generation and execution proxy.
//
// Configuration is read from a YAML file (see -config) layered with
// environment variables:
//
//	GROQ_API_KEY          - Generation backend key (required for api.groq.com)
//	PORT, ECHOSYNTAX_PORT - Listen port (default: 5000)
//	ECHOSYNTAX_MODELS     - Comma-separated candidate models, in priority order
//	JUDGE0_AUTH_TOKEN     - Execution service token (optional)
//	ECHOSYNTAX_CONFIG     - Config file path
//	ECHOSYNTAX_DEBUG      - Debug categories (generation, execution, mcp, all)
//	ECHOSYNTAX_LOG_LEVEL  - ERROR, WARN, INFO, DEBUG or TRACE
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/echosyntax/echosyntax/pkg/api"
	"github.com/echosyntax/echosyntax/pkg/auth"
	"github.com/echosyntax/echosyntax/pkg/auth/apikey"
	"github.com/echosyntax/echosyntax/pkg/auth/jwt"
	"github.com/echosyntax/echosyntax/pkg/auth/noop"
	"github.com/echosyntax/echosyntax/pkg/config"
	"github.com/echosyntax/echosyntax/pkg/debug"
	"github.com/echosyntax/echosyntax/pkg/execution"
	"github.com/echosyntax/echosyntax/pkg/execution/judge0"
	"github.com/echosyntax/echosyntax/pkg/generation"
	"github.com/echosyntax/echosyntax/pkg/mcpserver"
	"github.com/echosyntax/echosyntax/pkg/provider/openaicompat"
	transporthttp "github.com/echosyntax/echosyntax/pkg/transport/http"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	debug.Init(cfg.Logging.Debug, cfg.Logging.Level, cfg.Logging.Format)
	logger := slog.Default()

	// Generation.
	chat := openaicompat.NewClient(cfg.Generation.BaseURL, cfg.Generation.APIKey, cfg.Generation.Timeout)
	defer chat.Close()

	gen, err := generation.New(chat, generation.Config{
		Candidates:     cfg.Generation.Models,
		Temperature:    cfg.Generation.Temperature,
		RetryMalformed: cfg.Generation.RetryMalformed,
		Logger:         logger,
	})
	if err != nil {
		return fmt.Errorf("creating generator: %w", err)
	}

	// Execution.
	judge := judge0.NewClient(cfg.Execution.BaseURL, cfg.Execution.APIKey, cfg.Execution.Timeout)
	defer judge.Close()

	exec, err := execution.New(judge, execution.Config{
		UnknownLanguage: cfg.Execution.UnknownLanguage,
		Logger:          logger,
	})
	if err != nil {
		return fmt.Errorf("creating executor: %w", err)
	}

	validation := api.ValidationConfig{
		MaxPromptSize: cfg.Server.MaxPromptSize,
		MaxCodeSize:   cfg.Server.MaxCodeSize,
	}

	opts := []transporthttp.ServerOption{
		transporthttp.WithAddr(":" + strconv.Itoa(cfg.Server.Port)),
		transporthttp.WithMaxBodySize(cfg.Server.MaxBodySize),
		transporthttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout),
		transporthttp.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
		transporthttp.WithCORSOrigin(cfg.Server.CORSOrigin),
		transporthttp.WithMetrics(cfg.Observability.Metrics.Enabled),
		transporthttp.WithValidation(validation),
		transporthttp.WithLogger(logger),
	}

	chain, err := buildAuthChain(cfg.Auth)
	if err != nil {
		return err
	}
	opts = append(opts, transporthttp.WithMiddleware(auth.Middleware(chain, auth.DefaultBypassPaths, logger)))

	if cfg.MCP.Enabled {
		tools := mcpserver.New(gen, exec, version, validation)
		opts = append(opts, transporthttp.WithRoute(cfg.MCP.Path, mcpserver.Handler(tools)))
		logger.Info("mcp tools enabled", "path", cfg.MCP.Path)
	}

	logger.Info("echosyntax configured",
		"version", version,
		"port", cfg.Server.Port,
		"generation", cfg.Generation.BaseURL,
		"models", cfg.Generation.Models,
		"execution", cfg.Execution.BaseURL,
		"auth", cfg.Auth.Type,
		"debug", debug.Categories(),
	)

	return transporthttp.NewServer(gen, exec, opts...).ListenAndServe()
}

// buildAuthChain builds the authenticator chain for auth.type.
func buildAuthChain(cfg config.AuthConfig) (*auth.Chain, error) {
	switch cfg.Type {
	case "", "none":
		return auth.NewChain(true, noop.Authenticator{}), nil
	case "apikey":
		keys := make([]apikey.Key, 0, len(cfg.APIKeys))
		for _, k := range cfg.APIKeys {
			keys = append(keys, apikey.Key{Key: k.Key, Subject: k.Subject})
		}
		return auth.NewChain(false, apikey.New(keys)), nil
	case "jwt":
		return auth.NewChain(false, jwt.New(jwt.Config{
			Issuer:       cfg.JWT.Issuer,
			Audience:     cfg.JWT.Audience,
			JWKSURL:      cfg.JWT.JWKSURL,
			SubjectClaim: cfg.JWT.SubjectClaim,
			ScopeClaim:   cfg.JWT.ScopeClaim,
			Leeway:       cfg.JWT.Leeway,
			CacheTTL:     cfg.JWT.CacheTTL,
		})), nil
	default:
		return nil, fmt.Errorf("unsupported auth type %q", cfg.Type)
	}
}
