package api

import (
	"bytes"
	"encoding/json"
	"errors"
)

// GenerationRequest is the body of POST /generate-code.
type GenerationRequest struct {
	UserPrompt string `json:"userPrompt"`
}

// Fields the model is asked to answer with.
const (
	FieldLanguage    = "language"
	FieldCode        = "code"
	FieldExplanation = "explanation"
	FieldOutput      = "output"
)

// errNotObject is returned when a generation answer is not a JSON object.
var errNotObject = errors.New("not a JSON object")

// GenerationResult is the JSON object a model answered with. It is
// relayed to the client with its keys, order and values unchanged;
// field types and presence are not checked.
type GenerationResult struct {
	raw    json.RawMessage
	fields map[string]json.RawMessage
}

// ParseGenerationResult accepts data if it is a single JSON object.
func ParseGenerationResult(data []byte) (*GenerationResult, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errNotObject
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, err
	}
	return &GenerationResult{raw: bytes.Clone(trimmed), fields: fields}, nil
}

// NewGenerationResult builds a result with the four string fields set.
func NewGenerationResult(language, code, explanation, output string) *GenerationResult {
	data, _ := json.Marshal(map[string]string{
		FieldLanguage:    language,
		FieldCode:        code,
		FieldExplanation: explanation,
		FieldOutput:      output,
	})
	r, _ := ParseGenerationResult(data)
	return r
}

// Raw returns the object as received.
func (r *GenerationResult) Raw() json.RawMessage {
	return r.raw
}

// Has reports whether the object carries the named field.
func (r *GenerationResult) Has(name string) bool {
	_, ok := r.fields[name]
	return ok
}

// Field returns a string field's value. Non-string values come back as
// their JSON text; a missing field is "".
func (r *GenerationResult) Field(name string) string {
	v, ok := r.fields[name]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	return string(v)
}

// MarshalJSON writes the object unchanged.
func (r *GenerationResult) MarshalJSON() ([]byte, error) {
	if r == nil || r.raw == nil {
		return []byte("{}"), nil
	}
	return r.raw, nil
}

// UnmarshalJSON accepts any JSON object.
func (r *GenerationResult) UnmarshalJSON(data []byte) error {
	parsed, err := ParseGenerationResult(data)
	if err != nil {
		return err
	}
	*r = *parsed
	return nil
}

// ExecutionRequest is the body of POST /execute-code. Compiler is a tag
// such as "python" or one of the versioned compiler names the web client
// sends ("cpython-3.10.6").
type ExecutionRequest struct {
	Compiler string `json:"compiler"`
	Code     string `json:"code"`
}

// ExecutionStatus is the string status code of an ExecutionResult.
type ExecutionStatus string

const (
	ExecutionSucceeded ExecutionStatus = "0"
	ExecutionFailed    ExecutionStatus = "1"
)

// NoOutputMessage replaces empty stdout on a successful run.
const NoOutputMessage = "Program executed successfully (No output)"

// ExecutionResult is the normalized outcome of a run. Exactly one of
// ProgramMessage (status "0") or CompilerError (status "1") is set.
type ExecutionResult struct {
	Status         ExecutionStatus `json:"status"`
	ProgramMessage string          `json:"program_message,omitempty"`
	CompilerError  string          `json:"compiler_error,omitempty"`
}

// NewExecutionSuccess builds a status "0" result. Empty stdout becomes
// NoOutputMessage.
func NewExecutionSuccess(stdout string) *ExecutionResult {
	if stdout == "" {
		stdout = NoOutputMessage
	}
	return &ExecutionResult{Status: ExecutionSucceeded, ProgramMessage: stdout}
}

// NewExecutionFailure builds a status "1" result carrying the diagnostic.
func NewExecutionFailure(diagnostic string) *ExecutionResult {
	return &ExecutionResult{Status: ExecutionFailed, CompilerError: diagnostic}
}

// Succeeded reports whether the run produced status "0".
func (r *ExecutionResult) Succeeded() bool {
	return r.Status == ExecutionSucceeded
}
