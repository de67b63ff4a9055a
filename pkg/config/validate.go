package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// groqHost is the hosted generation backend; it needs an API key.
const groqHost = "api.groq.com"

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	// server.port must be positive.
	if c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("server.port must be > 0, got %d", c.Server.Port))
	}
	if c.Server.MaxBodySize <= 0 {
		errs = append(errs, fmt.Errorf("server.max_body_size must be > 0, got %d", c.Server.MaxBodySize))
	}

	// generation.base_url must be an absolute URL.
	genURL, err := url.Parse(c.Generation.BaseURL)
	if err != nil || genURL.Scheme == "" || genURL.Host == "" {
		errs = append(errs, fmt.Errorf("generation.base_url must be an absolute URL, got %q", c.Generation.BaseURL))
	} else if c.Generation.APIKey == "" && genURL.Hostname() == groqHost {
		errs = append(errs, fmt.Errorf("generation.api_key is required for %s (set GROQ_API_KEY)", groqHost))
	}

	if len(c.Generation.Models) == 0 {
		errs = append(errs, fmt.Errorf("generation.models must list at least one model"))
	}
	for i, m := range c.Generation.Models {
		if strings.TrimSpace(m) == "" {
			errs = append(errs, fmt.Errorf("generation.models[%d] is empty", i))
		}
	}
	if c.Generation.Temperature < 0 || c.Generation.Temperature > 2 {
		errs = append(errs, fmt.Errorf("generation.temperature must be in [0, 2], got %v", c.Generation.Temperature))
	}
	if c.Generation.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("generation.timeout must be > 0, got %v", c.Generation.Timeout))
	}

	execURL, err := url.Parse(c.Execution.BaseURL)
	if err != nil || execURL.Scheme == "" || execURL.Host == "" {
		errs = append(errs, fmt.Errorf("execution.base_url must be an absolute URL, got %q", c.Execution.BaseURL))
	}
	switch c.Execution.UnknownLanguage {
	case "python", "reject":
		// valid
	default:
		errs = append(errs, fmt.Errorf("execution.unknown_language must be \"python\" or \"reject\", got %q", c.Execution.UnknownLanguage))
	}
	if c.Execution.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("execution.timeout must be > 0, got %v", c.Execution.Timeout))
	}

	// auth.type must be a known value.
	switch c.Auth.Type {
	case "none":
		// valid
	case "apikey":
		if len(c.Auth.APIKeys) == 0 {
			errs = append(errs, fmt.Errorf("auth.api_keys must not be empty when auth.type is \"apikey\""))
		}
		for i, k := range c.Auth.APIKeys {
			if k.Key == "" {
				errs = append(errs, fmt.Errorf("auth.api_keys[%d].key or key_file is required", i))
			}
		}
	case "jwt":
		if c.Auth.JWT.JWKSURL == "" {
			errs = append(errs, fmt.Errorf("auth.jwt.jwks_url is required when auth.type is \"jwt\""))
		}
	default:
		errs = append(errs, fmt.Errorf("auth.type must be \"none\", \"apikey\", or \"jwt\", got %q", c.Auth.Type))
	}

	if c.MCP.Enabled && !strings.HasPrefix(c.MCP.Path, "/") {
		errs = append(errs, fmt.Errorf("mcp.path must start with \"/\", got %q", c.MCP.Path))
	}

	switch c.Logging.Format {
	case "text", "json":
		// valid
	default:
		errs = append(errs, fmt.Errorf("logging.format must be \"text\" or \"json\", got %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}
