// Package cogitator validates roster-analysis requests, forwards them to an
// LLM provider and shapes the reply.
package cogitator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rosterhq/cogitator/provider"
	"github.com/rosterhq/cogitator/roster"
)

// Task is the discriminator carried in every request and success response.
type Task string

const TaskRosterAnalysis Task = "roster-analysis"

// TaskRequest is implemented by every request kind. The set is closed: new
// kinds are added here and to DecodeRequest.
type TaskRequest interface {
	Task() Task
	isTaskRequest()
}

// RosterAnalysisRequest is the wire shape {"task":"roster-analysis","roster":{...}}.
type RosterAnalysisRequest struct {
	Roster json.RawMessage `json:"roster"`

	parsed *roster.Roster
}

func NewRosterAnalysisRequest(r json.RawMessage) *RosterAnalysisRequest {
	return &RosterAnalysisRequest{Roster: r}
}

func (*RosterAnalysisRequest) Task() Task { return TaskRosterAnalysis }
func (*RosterAnalysisRequest) isTaskRequest() {}

func (r *RosterAnalysisRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Task   Task            `json:"task"`
		Roster json.RawMessage `json:"roster"`
	}{TaskRosterAnalysis, r.Roster})
}

// ParsedRoster is the validated roster. It is nil until DecodeRequest has
// accepted the request.
func (r *RosterAnalysisRequest) ParsedRoster() *roster.Roster {
	return r.parsed
}

// RosterAnalysisResponse is returned on success only.
type RosterAnalysisResponse struct {
	Task   Task   `json:"task"`
	Output string `json:"output"`
}

// ErrorResult is returned for every failure.
type ErrorResult struct {
	Error string `json:"error"`
}

// Result is a status code plus a body that serializes to either a
// RosterAnalysisResponse or an ErrorResult.
type Result struct {
	Status int
	Body   any
}

func (r Result) JSON() ([]byte, error) {
	return json.Marshal(r.Body)
}

// OK reports whether the result carries a success body.
func (r Result) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

func errorResult(status int, err error) Result {
	return Result{Status: status, Body: &ErrorResult{Error: err.Error()}}
}

// WorkerEnv is the per-invocation configuration bundle.
type WorkerEnv struct {
	// APIKey authenticates against the provider. Required.
	APIKey      string
	// Model overrides the provider's default model when set.
	Model       string
	// Provider names the LLM backend. Empty means openai.
	Provider    string
	// MaxAttempts bounds provider calls per request. Values below 1 mean 1.
	MaxAttempts int
}

func (e WorkerEnv) ProviderName() string {
	if e.Provider == "" {
		return provider.OpenAI
	}
	return e.Provider
}

// ResolveModel returns the override, or the provider default.
func (e WorkerEnv) ResolveModel() string {
	if e.Model != "" {
		return e.Model
	}
	return provider.DefaultModel(e.ProviderName())
}

func (e WorkerEnv) attempts() uint {
	if e.MaxAttempts < 1 {
		return 1
	}
	return uint(e.MaxAttempts)
}

// DecodeRequest parses a request body and dispatches on its task field.
func DecodeRequest(body []byte) (TaskRequest, error) {
	var envelope struct {
		Task *Task `json:"task"`
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedBody)
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedBody, err.Error())
	}
	if envelope.Task == nil {
		return nil, fmt.Errorf("%w: missing task", ErrUnknownTask)
	}

	switch *envelope.Task {
	case TaskRosterAnalysis:
		req := &RosterAnalysisRequest{}
		if err := json.Unmarshal(body, req); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMalformedBody, err.Error())
		}
		parsed, err := roster.Parse(req.Roster)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
		req.parsed = parsed
		return req, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownTask, *envelope.Task)
}

// statusFor maps an error from the request path to an HTTP status.
func statusFor(err error) int {
	switch {
	case isAny(err, ErrMalformedBody, ErrUnknownTask, ErrInvalidRequest):
		return http.StatusBadRequest
	case isAny(err, ErrMissingAPIKey, ErrUnsupportedProvider):
		return http.StatusInternalServerError
	case isAny(err, ErrProviderTimeout):
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}
