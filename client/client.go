// Package client calls a deployed cogitator, either over HTTP or by invoking
// the Lambda function directly.
package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rosterhq/cogitator/cogitator"
)

// Analyzer sends a roster for analysis.
type Analyzer interface {
	Analyze(ctx context.Context, roster json.RawMessage) (*cogitator.RosterAnalysisResponse, error)
}

// RemoteError is an ErrorResult returned by the service.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("cogitator error (status %d): %s", e.Status, e.Message)
}

func requestBody(roster json.RawMessage) ([]byte, error) {
	body, err := json.Marshal(cogitator.NewRosterAnalysisRequest(roster))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return body, nil
}

// decodeResult interprets a response body according to its status.
func decodeResult(status int, body []byte) (*cogitator.RosterAnalysisResponse, error) {
	if status < 200 || status >= 300 {
		var er cogitator.ErrorResult
		if err := json.Unmarshal(body, &er); err != nil || er.Error == "" {
			return nil, &RemoteError{Status: status, Message: string(body)}
		}
		return nil, &RemoteError{Status: status, Message: er.Error}
	}
	var resp cogitator.RosterAnalysisResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if resp.Task != cogitator.TaskRosterAnalysis {
		return nil, fmt.Errorf("unexpected task in response: %q", resp.Task)
	}
	return &resp, nil
}
