package api

import (
	"fmt"
	"strings"
)

// ValidationConfig holds configurable limits for request validation.
type ValidationConfig struct {
	MaxPromptSize int
	MaxCodeSize   int
}

// DefaultValidationConfig returns a ValidationConfig with sensible defaults.
func DefaultValidationConfig() ValidationConfig {
	return ValidationConfig{
		MaxPromptSize: 16 * 1024,
		MaxCodeSize:   1024 * 1024, // 1MB
	}
}

// ValidateGenerationRequest checks a GenerationRequest. It returns an
// *Error describing the first failure, or nil if the request is valid.
func ValidateGenerationRequest(req *GenerationRequest, cfg ValidationConfig) *Error {
	if strings.TrimSpace(req.UserPrompt) == "" {
		return NewInvalidRequestError("userPrompt", "userPrompt is required")
	}
	if cfg.MaxPromptSize > 0 && len(req.UserPrompt) > cfg.MaxPromptSize {
		return NewInvalidRequestError("userPrompt",
			fmt.Sprintf("userPrompt exceeds maximum of %d bytes", cfg.MaxPromptSize))
	}
	return nil
}

// ValidateExecutionRequest checks an ExecutionRequest against the size
// limit. Empty code is forwarded; the execution service decides what it
// does. The compiler tag is not checked here; tag resolution belongs to
// the executor.
func ValidateExecutionRequest(req *ExecutionRequest, cfg ValidationConfig) *Error {
	if cfg.MaxCodeSize > 0 && len(req.Code) > cfg.MaxCodeSize {
		return NewInvalidRequestError("code",
			fmt.Sprintf("code exceeds maximum of %d bytes", cfg.MaxCodeSize))
	}
	return nil
}
