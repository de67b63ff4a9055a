package judge0

// SubmissionRequest is the body of POST /submissions.
type SubmissionRequest struct {
	SourceCode string `json:"source_code"`
	LanguageID int    `json:"language_id"`
	Stdin      string `json:"stdin,omitempty"`
}

// Submission is a finished submission as returned with wait=true.
// Judge0 sends null for empty streams; those decode as "".
type Submission struct {
	Token         string  `json:"token,omitempty"`
	Stdout        string  `json:"stdout"`
	Stderr        string  `json:"stderr"`
	CompileOutput string  `json:"compile_output"`
	Message       string  `json:"message"`
	Status        *Status `json:"status,omitempty"`
	Time          string  `json:"time,omitempty"`
	Memory        int     `json:"memory,omitempty"`
}

// Status is the verdict attached to a submission.
type Status struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

// Judge0 verdict IDs. The full list is served by GET /statuses.
const (
	StatusAccepted         = 3
	StatusCompilationError = 6
	StatusRuntimeError     = 11
)

// errorBody covers the two error shapes Judge0 uses.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
