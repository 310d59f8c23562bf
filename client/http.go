package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rosterhq/cogitator/cogitator"
)

// HTTP posts requests to a cogitator endpoint.
type HTTP struct {
	url        string
	httpClient *http.Client
}

func NewHTTP(url string) *HTTP {
	return &HTTP{
		url:        url,
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
}

func (c *HTTP) Analyze(ctx context.Context, roster json.RawMessage) (*cogitator.RosterAnalysisResponse, error) {
	reqBody, err := requestBody(roster)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return decodeResult(resp.StatusCode, body)
}
