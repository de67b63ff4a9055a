package api

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestValidateGenerationRequest(t *testing.T) {
	cfg := DefaultValidationConfig()

	tests := []struct {
		name    string
		prompt  string
		wantErr bool
	}{
		{"valid", "reverse a string in python", false},
		{"empty", "", true},
		{"whitespace only", "   \n\t", true},
		{"too large", strings.Repeat("a", cfg.MaxPromptSize+1), true},
		{"at limit", strings.Repeat("a", cfg.MaxPromptSize), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGenerationRequest(&GenerationRequest{UserPrompt: tt.prompt}, cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && err.Param != "userPrompt" {
				t.Errorf("Param = %q, want userPrompt", err.Param)
			}
		})
	}
}

func TestValidateExecutionRequest(t *testing.T) {
	cfg := ValidationConfig{MaxCodeSize: 10}

	tests := []struct {
		name    string
		req     ExecutionRequest
		wantErr bool
	}{
		{"valid", ExecutionRequest{Compiler: "python", Code: "print(1)"}, false},
		{"empty code is forwarded", ExecutionRequest{Compiler: "python"}, false},
		{"whitespace code is forwarded", ExecutionRequest{Compiler: "c", Code: " \n"}, false},
		{"too large", ExecutionRequest{Compiler: "python", Code: "print(12345)"}, true},
		{"unknown tag is not a validation error", ExecutionRequest{Compiler: "cobol", Code: "x"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateExecutionRequest(&tt.req, cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestExecutionResultShape(t *testing.T) {
	tests := []struct {
		name    string
		result  *ExecutionResult
		want    map[string]string
		missing string
	}{
		{
			"success",
			NewExecutionSuccess("hi\n"),
			map[string]string{"status": "0", "program_message": "hi\n"},
			"compiler_error",
		},
		{
			"success without output",
			NewExecutionSuccess(""),
			map[string]string{"status": "0", "program_message": NoOutputMessage},
			"compiler_error",
		},
		{
			"failure",
			NewExecutionFailure("SyntaxError"),
			map[string]string{"status": "1", "compiler_error": "SyntaxError"},
			"program_message",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.result)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			var got map[string]string
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("%s = %q, want %q", k, got[k], v)
				}
			}
			if _, ok := got[tt.missing]; ok {
				t.Errorf("%s should be omitted", tt.missing)
			}
		})
	}
}
