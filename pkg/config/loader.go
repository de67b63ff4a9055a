package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a layered set of sources.
//
// The loading order is:
//  1. Built-in defaults
//  2. YAML config file (explicit path, ECHOSYNTAX_CONFIG env, ./config.yaml, /etc/echosyntax/config.yaml)
//  3. Environment variable overrides
//  4. File reference resolution (_file suffix)
//  5. Validation
func Load(configPath string) (*Config, error) {
	cfg := Defaults()

	filePath := discoverConfigFile(configPath)
	if filePath != "" {
		if err := loadYAMLFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("applying environment: %w", err)
	}

	if err := resolveFileReferences(&cfg); err != nil {
		return nil, fmt.Errorf("resolving file references: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// discoverConfigFile finds the config file path using the discovery order:
// 1. Explicit configPath argument
// 2. ECHOSYNTAX_CONFIG environment variable
// 3. ./config.yaml in the current directory
// 4. /etc/echosyntax/config.yaml
//
// Returns empty string if no config file is found.
func discoverConfigFile(configPath string) string {
	if configPath != "" {
		return configPath
	}
	if envPath := os.Getenv("ECHOSYNTAX_CONFIG"); envPath != "" {
		return envPath
	}
	for _, path := range []string{"config.yaml", "/etc/echosyntax/config.yaml"} {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// loadYAMLFile reads and parses a YAML file into the Config struct.
// Fields not present in the YAML retain their current (default) values.
// Unknown keys are an error.
func loadYAMLFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// applyEnvOverrides maps environment variables to config fields.
// Malformed numeric or boolean values are reported, not ignored.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("GROQ_API_KEY"); v != "" {
		cfg.Generation.APIKey = v
	}

	// PORT is what PaaS hosts set; ECHOSYNTAX_PORT wins over it.
	for _, name := range []string{"PORT", "ECHOSYNTAX_PORT"} {
		if v := os.Getenv(name); v != "" {
			port, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			cfg.Server.Port = port
		}
	}

	if v := os.Getenv("ECHOSYNTAX_GENERATION_URL"); v != "" {
		cfg.Generation.BaseURL = v
	}
	if v := os.Getenv("ECHOSYNTAX_MODELS"); v != "" {
		cfg.Generation.Models = splitList(v)
	}
	if v := os.Getenv("ECHOSYNTAX_RETRY_MALFORMED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("ECHOSYNTAX_RETRY_MALFORMED: %w", err)
		}
		cfg.Generation.RetryMalformed = b
	}

	if v := os.Getenv("ECHOSYNTAX_EXECUTION_URL"); v != "" {
		cfg.Execution.BaseURL = v
	}
	if v := os.Getenv("JUDGE0_AUTH_TOKEN"); v != "" {
		cfg.Execution.APIKey = v
	}
	if v := os.Getenv("ECHOSYNTAX_UNKNOWN_LANGUAGE"); v != "" {
		cfg.Execution.UnknownLanguage = v
	}

	if v := os.Getenv("ECHOSYNTAX_AUTH_TYPE"); v != "" {
		cfg.Auth.Type = v
	}
	// ECHOSYNTAX_API_KEYS: JSON array of API key configs.
	if v := os.Getenv("ECHOSYNTAX_API_KEYS"); v != "" {
		keys, err := parseAPIKeysJSON(v)
		if err != nil {
			return err
		}
		cfg.Auth.APIKeys = keys
	}

	if v := os.Getenv("ECHOSYNTAX_MCP"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("ECHOSYNTAX_MCP: %w", err)
		}
		cfg.MCP.Enabled = b
	}
	if v := os.Getenv("ECHOSYNTAX_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	return nil
}

// splitList splits a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseAPIKeysJSON parses a JSON array of API key configurations.
func parseAPIKeysJSON(jsonStr string) ([]APIKeyConfig, error) {
	var keys []APIKeyConfig
	if err := json.Unmarshal([]byte(jsonStr), &keys); err != nil {
		return nil, fmt.Errorf("parsing ECHOSYNTAX_API_KEYS: %w", err)
	}
	return keys, nil
}

// resolveFileReferences reads _file fields and populates the corresponding value fields.
// For each field ending in _file, if the value field is empty and the file field is set,
// the file is read, whitespace is trimmed, and the value field is populated.
func resolveFileReferences(cfg *Config) error {
	if cfg.Generation.APIKeyFile != "" && cfg.Generation.APIKey == "" {
		val, err := readSecretFile(cfg.Generation.APIKeyFile)
		if err != nil {
			return fmt.Errorf("generation.api_key_file: %w", err)
		}
		cfg.Generation.APIKey = val
	}

	if cfg.Execution.APIKeyFile != "" && cfg.Execution.APIKey == "" {
		val, err := readSecretFile(cfg.Execution.APIKeyFile)
		if err != nil {
			return fmt.Errorf("execution.api_key_file: %w", err)
		}
		cfg.Execution.APIKey = val
	}

	for i := range cfg.Auth.APIKeys {
		if cfg.Auth.APIKeys[i].KeyFile != "" && cfg.Auth.APIKeys[i].Key == "" {
			val, err := readSecretFile(cfg.Auth.APIKeys[i].KeyFile)
			if err != nil {
				return fmt.Errorf("auth.api_keys[%d].key_file: %w", i, err)
			}
			cfg.Auth.APIKeys[i].Key = val
		}
	}

	return nil
}

// readSecretFile reads a file and returns its content with surrounding whitespace trimmed.
func readSecretFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
