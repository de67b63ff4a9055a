package judge0

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/echosyntax/echosyntax/pkg/api"
	"github.com/echosyntax/echosyntax/pkg/debug"
)

// DefaultBaseURL is the public Judge0 CE instance.
const DefaultBaseURL = "https://ce.judge0.com"

// Client submits code to a Judge0 instance. A Client is safe for
// concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	authToken  string
}

// NewClient creates a new Judge0 client. authToken is sent as
// X-Auth-Token when non-empty. A zero timeout means 60 seconds.
func NewClient(baseURL, authToken string, timeout time.Duration) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:   baseURL,
		authToken: authToken,
	}
}

// Submit runs req and waits for the verdict.
func (c *Client) Submit(ctx context.Context, req *SubmissionRequest) (*Submission, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, api.NewServerError(fmt.Sprintf("failed to marshal submission: %s", err.Error()))
	}

	url := c.baseURL + "/submissions?base64_encoded=false&wait=true"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, api.NewServerError(fmt.Sprintf("failed to create HTTP request: %s", err.Error()))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		httpReq.Header.Set("X-Auth-Token", c.authToken)
	}

	debug.Log("execution", "submission request", "url", url, "language_id", req.LanguageID)
	if debug.TraceIsEnabled("execution") {
		debug.Raw("execution", string(body))
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, api.NewUpstreamError("execution service connection error", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, api.NewUpstreamError("failed to read execution service response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, mapHTTPError(resp.StatusCode, respBody)
	}

	var sub Submission
	if err := json.Unmarshal(respBody, &sub); err != nil {
		return nil, api.NewMalformedPayloadError("failed to parse execution service response", err)
	}

	if sub.Status != nil {
		debug.Log("execution", "submission finished",
			"status", sub.Status.Description,
			"time", sub.Time,
			"memory", sub.Memory,
		)
	}
	return &sub, nil
}

// Close releases client resources.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// StatusError records the HTTP status of a failed Judge0 call.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func mapHTTPError(status int, body []byte) *api.Error {
	var eb errorBody
	message := ""
	if json.Unmarshal(body, &eb) == nil {
		message = eb.Error
		if message == "" {
			message = eb.Message
		}
	}

	if message == "" {
		switch {
		case status == http.StatusUnauthorized || status == http.StatusForbidden:
			message = "execution service authentication failed"
		case status == http.StatusTooManyRequests:
			message = "execution service rate limit exceeded"
		case status == http.StatusUnprocessableEntity:
			message = "execution service rejected the submission"
		case status >= http.StatusInternalServerError:
			message = fmt.Sprintf("execution service error (HTTP %d)", status)
		default:
			message = fmt.Sprintf("unexpected execution service error (HTTP %d)", status)
		}
	}

	return api.NewUpstreamError(message, &StatusError{StatusCode: status})
}
