// Package config provides unified configuration for the echosyntax server.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (GROQ_API_KEY, PORT, ECHOSYNTAX_*)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
package config

import (
	"time"

	"github.com/echosyntax/echosyntax/pkg/generation"
)

// Config holds all configuration for the echosyntax server.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Generation    GenerationConfig    `yaml:"generation"`
	Execution     ExecutionConfig     `yaml:"execution"`
	Auth          AuthConfig          `yaml:"auth"`
	MCP           MCPConfig           `yaml:"mcp"`
	Observability ObservabilityConfig `yaml:"observability"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`             // default: 5000
	ReadTimeout     time.Duration `yaml:"read_timeout"`     // default: 30s
	WriteTimeout    time.Duration `yaml:"write_timeout"`    // default: 5m
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // default: 30s
	MaxBodySize     int64         `yaml:"max_body_size"`    // default: 2 MiB
	MaxPromptSize   int           `yaml:"max_prompt_size"`  // default: 16 KiB
	MaxCodeSize     int           `yaml:"max_code_size"`    // default: 1 MiB
	CORSOrigin      string        `yaml:"cors_origin"`      // default: "*"
}

// GenerationConfig holds the chat completion backend settings.
type GenerationConfig struct {
	BaseURL        string        `yaml:"base_url"`        // default: https://api.groq.com/openai
	APIKey         string        `yaml:"api_key"`         // GROQ_API_KEY
	APIKeyFile     string        `yaml:"api_key_file"`    // _file variant for api_key
	Models         []string      `yaml:"models"`          // candidate order
	Temperature    float64       `yaml:"temperature"`     // default: 0.1
	RetryMalformed bool          `yaml:"retry_malformed"` // default: false
	Timeout        time.Duration `yaml:"timeout"`         // per attempt, default: 120s
}

// ExecutionConfig holds the Judge0 settings.
type ExecutionConfig struct {
	BaseURL         string        `yaml:"base_url"`         // default: https://ce.judge0.com
	APIKey          string        `yaml:"api_key"`          // sent as X-Auth-Token
	APIKeyFile      string        `yaml:"api_key_file"`     // _file variant for api_key
	UnknownLanguage string        `yaml:"unknown_language"` // "python" or "reject", default: "python"
	Timeout         time.Duration `yaml:"timeout"`          // default: 60s
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	Type    string         `yaml:"type"`     // "none", "apikey" or "jwt", default: "none"
	APIKeys []APIKeyConfig `yaml:"api_keys"` // entries for type=apikey
	JWT     JWTConfig      `yaml:"jwt"`
}

// APIKeyConfig describes a single API key entry.
type APIKeyConfig struct {
	Key     string `yaml:"key" json:"key"`
	KeyFile string `yaml:"key_file" json:"key_file"` // _file variant for key
	Subject string `yaml:"subject" json:"subject"`
}

// JWTConfig holds settings for type=jwt.
type JWTConfig struct {
	Issuer       string        `yaml:"issuer"`
	Audience     string        `yaml:"audience"`
	JWKSURL      string        `yaml:"jwks_url"`
	SubjectClaim string        `yaml:"subject_claim"` // default: "sub"
	ScopeClaim   string        `yaml:"scope_claim"`   // default: "scope"
	Leeway       time.Duration `yaml:"leeway"`
	CacheTTL     time.Duration `yaml:"cache_ttl"` // default: 1h
}

// MCPConfig holds the MCP tool endpoint settings.
type MCPConfig struct {
	Enabled bool   `yaml:"enabled"` // default: false
	Path    string `yaml:"path"`    // default: "/mcp"
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"` // default: true
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // ERROR, WARN, INFO, DEBUG, TRACE; default: INFO
	Format string `yaml:"format"` // "text" or "json", default: "text"
	Debug  string `yaml:"debug"`  // comma-separated debug categories
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:            5000,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    5 * time.Minute,
			ShutdownTimeout: 30 * time.Second,
			MaxBodySize:     2 << 20,
			MaxPromptSize:   16 << 10,
			MaxCodeSize:     1 << 20,
			CORSOrigin:      "*",
		},
		Generation: GenerationConfig{
			BaseURL:     "https://api.groq.com/openai",
			Models:      generation.DefaultCandidates(),
			Temperature: generation.DefaultTemperature,
			Timeout:     120 * time.Second,
		},
		Execution: ExecutionConfig{
			BaseURL:         "https://ce.judge0.com",
			UnknownLanguage: "python",
			Timeout:         60 * time.Second,
		},
		Auth: AuthConfig{
			Type: "none",
		},
		MCP: MCPConfig{
			Path: "/mcp",
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
			},
		},
		Logging: LoggingConfig{
			Level:  "INFO",
			Format: "text",
		},
	}
}
